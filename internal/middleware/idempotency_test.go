package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type fakeIdemStore struct {
	data map[string][]byte

	getCallCount int
	setCallCount int
}

func newFakeIdemStore() *fakeIdemStore {
	return &fakeIdemStore{data: make(map[string][]byte)}
}

func (f *fakeIdemStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.getCallCount++
	if data, ok := f.data[key]; ok {
		return data, nil
	}
	return nil, nil
}

func (f *fakeIdemStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	f.setCallCount++
	f.data[key] = data
	return nil
}

// newIdempotencyRouter registers a booking-style endpoint behind the
// idempotency middleware, with a stub auth step that injects the
// principal the way Auth does.
func newIdempotencyRouter(store IdempotencyStore, status int, handlerCalls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/book",
		func(c *gin.Context) {
			if subject := c.GetHeader("X-Subject"); subject != "" {
				c.Set(ContextKeyClerkID, subject)
			}
		},
		Idempotency(store),
		func(c *gin.Context) {
			*handlerCalls++
			c.JSON(status, gin.H{"principal": ClerkID(c)})
		},
	)
	return router
}

func doBooking(router *gin.Engine, subject, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/book", strings.NewReader(`{}`))
	if subject != "" {
		req.Header.Set("X-Subject", subject)
	}
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_RepeatedKey_ReplaysCachedResponse(t *testing.T) {
	t.Parallel()

	store := newFakeIdemStore()
	handlerCalls := 0
	router := newIdempotencyRouter(store, http.StatusCreated, &handlerCalls)

	first := doBooking(router, "user_1", "key-1")
	second := doBooking(router, "user_1", "key-1")

	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("expected 201 twice, got %d and %d", first.Code, second.Code)
	}
	if handlerCalls != 1 {
		t.Errorf("expected one handler invocation, got %d", handlerCalls)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("expected identical replayed body, got %s vs %s", second.Body.String(), first.Body.String())
	}
}

func TestIdempotency_CacheKey_ScopedToPrincipal(t *testing.T) {
	t.Parallel()

	store := newFakeIdemStore()
	handlerCalls := 0
	router := newIdempotencyRouter(store, http.StatusCreated, &handlerCalls)

	first := doBooking(router, "user_1", "key-1")
	second := doBooking(router, "user_2", "key-1")

	if handlerCalls != 2 {
		t.Errorf("expected both principals to reach the handler, got %d calls", handlerCalls)
	}
	if !strings.Contains(first.Body.String(), "user_1") || !strings.Contains(second.Body.String(), "user_2") {
		t.Errorf("expected each principal to see its own response, got %s and %s",
			first.Body.String(), second.Body.String())
	}
	if _, ok := store.data["idempotency:user_1:key-1"]; !ok {
		t.Error("expected cache key scoped by principal")
	}
	if _, ok := store.data["idempotency:user_2:key-1"]; !ok {
		t.Error("expected second principal cached under its own key")
	}
}

func TestIdempotency_NoPrincipal_BypassesCache(t *testing.T) {
	t.Parallel()

	store := newFakeIdemStore()
	handlerCalls := 0
	router := newIdempotencyRouter(store, http.StatusCreated, &handlerCalls)

	doBooking(router, "", "key-1")
	doBooking(router, "", "key-1")

	if handlerCalls != 2 {
		t.Errorf("expected no replay without a principal, got %d handler calls", handlerCalls)
	}
	if store.getCallCount != 0 || store.setCallCount != 0 {
		t.Error("expected the store untouched without a principal")
	}
}

func TestIdempotency_AuthFailures_NotCached(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		store := newFakeIdemStore()
		handlerCalls := 0
		router := newIdempotencyRouter(store, status, &handlerCalls)

		doBooking(router, "user_1", "key-1")
		doBooking(router, "user_1", "key-1")

		if handlerCalls != 2 {
			t.Errorf("status %d: expected no replay, got %d handler calls", status, handlerCalls)
		}
		if store.setCallCount != 0 {
			t.Errorf("status %d: expected response not cached", status)
		}
	}
}

func TestIdempotency_MissingKey_SkipsCache(t *testing.T) {
	t.Parallel()

	store := newFakeIdemStore()
	handlerCalls := 0
	router := newIdempotencyRouter(store, http.StatusCreated, &handlerCalls)

	doBooking(router, "user_1", "")
	doBooking(router, "user_1", "")

	if handlerCalls != 2 {
		t.Errorf("expected two handler calls for key-less requests, got %d", handlerCalls)
	}
	if store.getCallCount != 0 || store.setCallCount != 0 {
		t.Error("expected the store untouched without a key")
	}
}
