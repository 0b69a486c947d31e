package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/MayankSinghDobal/vimana-backend/internal/handler"
	"github.com/MayankSinghDobal/vimana-backend/internal/identity"
	"github.com/MayankSinghDobal/vimana-backend/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler      *handler.UserHandler
	RideHandler      *handler.RideHandler
	WebhookHandler   *handler.WebhookHandler
	Verifier         identity.TokenVerifier
	IdempotencyStore middleware.IdempotencyStore
	NewRelicApp      *newrelic.Application
	AllowedOrigin    string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// Cross-origin requests are accepted from a single configured origin.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{deps.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		AllowCredentials: true,
	}))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Public routes.
	router.GET("/", deps.RideHandler.Home)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if deps.WebhookHandler != nil {
		router.POST("/webhook/clerk", deps.WebhookHandler.HandleClerkWebhook)
	}

	// Authenticated routes. Idempotency runs after Auth so replayed
	// responses are only ever served to the principal that cached them.
	authorized := router.Group("/")
	authorized.Use(middleware.Auth(deps.Verifier))
	if deps.IdempotencyStore != nil {
		authorized.Use(middleware.Idempotency(deps.IdempotencyStore))
	}
	{
		authorized.GET("/profile", deps.UserHandler.GetProfile)
		authorized.PUT("/profile", deps.UserHandler.UpdateProfile)
		authorized.GET("/rides", deps.RideHandler.List)
		authorized.POST("/book-ride", deps.RideHandler.BookRide)
		authorized.POST("/switch-role", deps.UserHandler.SwitchRole)
	}

	return router
}
