package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireReconcileLock attempts to acquire the reconciliation lock for the
// given principal, serializing concurrent role changes.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireReconcileLock(ctx context.Context, clerkID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:reconcile:%s", clerkID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseReconcileLock releases the reconciliation lock for the principal.
func (s *LockStore) ReleaseReconcileLock(ctx context.Context, clerkID string) error {
	key := fmt.Sprintf("lock:reconcile:%s", clerkID)

	return s.client.Del(ctx, key).Err()
}
