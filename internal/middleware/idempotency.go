package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// IdempotencyStore persists responses for replay. Get returns (nil, nil)
// on a cache miss.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// cachedResponse stores the response for idempotent requests.
type cachedResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
	Headers    http.Header     `json:"headers"`
}

// responseWriter wraps gin.ResponseWriter to capture the response body.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency returns middleware that replays the cached response for
// repeated mutating requests carrying the same Idempotency-Key header.
//
// It must be registered after Auth: cache keys are scoped to the
// authenticated principal, so one user's key can never replay another
// user's response, and an unauthenticated request is rejected by Auth
// before the cache is ever consulted.
func Idempotency(store IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		clerkID := ClerkID(c)
		if clerkID == "" {
			// No authenticated principal to scope the key to.
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := "idempotency:" + clerkID + ":" + key

		data, err := store.Get(ctx, cacheKey)
		if err != nil {
			// Store trouble must not block the request.
			c.Next()
			return
		}

		if data != nil {
			var cached cachedResponse
			if err := json.Unmarshal(data, &cached); err == nil {
				for k, values := range cached.Headers {
					for _, v := range values {
						c.Header(k, v)
					}
				}
				c.Data(cached.StatusCode, "application/json", cached.Body)
				c.Abort()
				return
			}
		}

		w := &responseWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()

		// Never replay auth failures: a client that retries the same key
		// with a valid token must not get a stale 401/403 back.
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return
		}

		// Cache everything else except server errors so retries can
		// still succeed after a transient failure.
		if status >= 200 && status < 500 {
			response := cachedResponse{
				StatusCode: status,
				Body:       w.body.Bytes(),
				Headers:    extractResponseHeaders(c),
			}
			if data, err := json.Marshal(&response); err == nil {
				_ = store.Set(ctx, cacheKey, data, idempotencyTTL)
			}
		}
	}
}

func extractResponseHeaders(c *gin.Context) http.Header {
	headers := make(http.Header)
	if ct := c.Writer.Header().Get("Content-Type"); ct != "" {
		headers.Set("Content-Type", ct)
	}
	return headers
}
