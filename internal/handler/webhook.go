package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/MayankSinghDobal/vimana-backend/internal/domain"
	"github.com/MayankSinghDobal/vimana-backend/internal/repository"
)

// WebhookHandler handles Clerk webhook callbacks. Clerk signs webhook
// deliveries with Svix; the signature is verified before anything is
// trusted.
type WebhookHandler struct {
	userRepo      repository.UserRepository
	webhookSecret string
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(userRepo repository.UserRepository, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{
		userRepo:      userRepo,
		webhookSecret: webhookSecret,
	}
}

// clerkEvent is the envelope of a Clerk webhook delivery.
type clerkEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// clerkUserData is the user payload of user.* events.
type clerkUserData struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	PublicMetadata struct {
		Role string `json:"role"`
	} `json:"public_metadata"`
}

// HandleClerkWebhook handles POST /webhook/clerk. It syncs user.created and
// user.updated events into the users table so profiles exist before the
// user's first authenticated request.
func (h *WebhookHandler) HandleClerkWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unable to read request body"})
		return
	}

	if h.webhookSecret != "" {
		wh, err := svix.NewWebhook(h.webhookSecret)
		if err != nil {
			respondError(c, err)
			return
		}

		headers := http.Header{}
		headers.Set("svix-id", c.GetHeader("svix-id"))
		headers.Set("svix-timestamp", c.GetHeader("svix-timestamp"))
		headers.Set("svix-signature", c.GetHeader("svix-signature"))

		if err := wh.Verify(body, headers); err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid webhook signature"})
			return
		}
	} else {
		log.Println("CLERK_WEBHOOK_SECRET not set, skipping webhook signature verification")
	}

	var event clerkEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid webhook payload"})
		return
	}

	switch event.Type {
	case "user.created", "user.updated":
		h.syncUser(c, event.Data)
	default:
		log.Printf("ignoring clerk webhook event %s", event.Type)
	}

	respondJSON(c, http.StatusOK, gin.H{"received": true})
}

// syncUser upserts a profile row from a Clerk user payload.
func (h *WebhookHandler) syncUser(c *gin.Context, data json.RawMessage) {
	var userData clerkUserData
	if err := json.Unmarshal(data, &userData); err != nil {
		log.Printf("parse clerk user payload: %v", err)
		return
	}

	name := userData.FirstName
	if name == "" {
		name = "Unknown"
	}
	email := "unknown@example.com"
	if len(userData.EmailAddresses) > 0 {
		email = userData.EmailAddresses[0].EmailAddress
	}
	role := domain.Role(userData.PublicMetadata.Role)
	if !role.Valid() {
		role = domain.RoleRider
	}

	if _, err := h.userRepo.Upsert(c.Request.Context(), &domain.Profile{
		ClerkID:   userData.ID,
		Name:      name,
		Email:     email,
		Role:      role,
		UpdatedAt: time.Now(),
	}); err != nil {
		log.Printf("sync clerk user %s: %v", userData.ID, err)
	}
}
