package repository

import (
	"context"

	"github.com/MayankSinghDobal/vimana-backend/internal/domain"
)

// UserRepository defines the persistence operations for user profiles.
type UserRepository interface {
	// GetByClerkID retrieves a profile by Clerk user ID.
	GetByClerkID(ctx context.Context, clerkID string) (*domain.Profile, error)

	// Upsert inserts a profile or, when a row for the Clerk ID already
	// exists, returns the existing row unchanged. Two concurrent
	// first-time requests for the same principal both get a row back.
	Upsert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)

	// Update replaces the profile's editable fields and returns the
	// updated row.
	Update(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)

	// UpdateRole sets the profile's role and returns the updated row.
	// Driver-only fields are cleared when the new role is not driver.
	UpdateRole(ctx context.Context, clerkID string, role domain.Role) (*domain.Profile, error)
}
