package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MayankSinghDobal/vimana-backend/internal/identity"
)

// ContextKeyClerkID is the gin context key holding the authenticated
// principal's Clerk user ID.
const ContextKeyClerkID = "clerkID"

// Auth returns middleware that requires a valid bearer token. Requests
// without one are rejected with 401 before any handler logic runs.
func Auth(verifier identity.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed authorization header"})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		// Browser clients sometimes send the literal strings "null" or
		// "undefined", and a signed token always has three dot-separated
		// segments. Reject those before going to the verifier at all.
		if token == "" || token == "null" || token == "undefined" || strings.Count(token, ".") != 2 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		clerkID, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextKeyClerkID, clerkID)
		c.Next()
	}
}

// ClerkID returns the authenticated principal's Clerk user ID, or an empty
// string when the request was not authenticated.
func ClerkID(c *gin.Context) string {
	return c.GetString(ContextKeyClerkID)
}
