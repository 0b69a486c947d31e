package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MayankSinghDobal/vimana-backend/internal/domain"
)

// JournalStore records in-flight role reconciliations in Redis. An entry is
// written before the dual-write to Clerk and Postgres and cleared once both
// succeed, so an entry that outlives a request marks a principal whose two
// role stores may disagree.
type JournalStore struct {
	client *redis.Client
}

// NewJournalStore creates a new JournalStore.
func NewJournalStore(client *redis.Client) *JournalStore {
	return &JournalStore{client: client}
}

// JournalTTL bounds how long a stale entry lingers after a crash.
const JournalTTL = 24 * time.Hour

const journalPrefix = "reconcile:"

// JournalEntry describes a pending role dual-write.
type JournalEntry struct {
	ClerkID   string      `json:"clerk_id"`
	FromRole  domain.Role `json:"from_role"`
	ToRole    domain.Role `json:"to_role"`
	StartedAt time.Time   `json:"started_at"`
}

// Begin records a pending reconciliation for the principal.
func (s *JournalStore) Begin(ctx context.Context, entry JournalEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, journalPrefix+entry.ClerkID, data, JournalTTL).Err()
}

// Clear removes the pending entry for the principal.
func (s *JournalStore) Clear(ctx context.Context, clerkID string) error {
	return s.client.Del(ctx, journalPrefix+clerkID).Err()
}

// Get returns the pending entry for the principal, or nil when none exists.
func (s *JournalStore) Get(ctx context.Context, clerkID string) (*JournalEntry, error) {
	data, err := s.client.Get(ctx, journalPrefix+clerkID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var entry JournalEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
