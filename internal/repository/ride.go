package repository

import (
	"context"

	"github.com/MayankSinghDobal/vimana-backend/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetAll retrieves all rides.
	GetAll(ctx context.Context) ([]*domain.Ride, error)

	// GetByUserID retrieves rides requested by the given user.
	GetByUserID(ctx context.Context, clerkID string) ([]*domain.Ride, error)

	// GetByDriverID retrieves rides assigned to the given driver.
	GetByDriverID(ctx context.Context, clerkID string) ([]*domain.Ride, error)
}
