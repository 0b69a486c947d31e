package redis

import (
	"context"
	"time"
)

// JournalStoreInterface defines the interface for the reconciliation journal.
type JournalStoreInterface interface {
	Begin(ctx context.Context, entry JournalEntry) error
	Clear(ctx context.Context, clerkID string) error
	Get(ctx context.Context, clerkID string) (*JournalEntry, error)
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireReconcileLock(ctx context.Context, clerkID string, ttl time.Duration) (bool, error)
	ReleaseReconcileLock(ctx context.Context, clerkID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ JournalStoreInterface = (*JournalStore)(nil)
	_ LockStoreInterface    = (*LockStore)(nil)
)
