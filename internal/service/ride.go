package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MayankSinghDobal/vimana-backend/internal/domain"
	"github.com/MayankSinghDobal/vimana-backend/internal/repository"
)

// RideService handles ride booking and listing.
type RideService struct {
	rideRepo    repository.RideRepository
	userService *UserService
}

// NewRideService creates a new RideService.
func NewRideService(rideRepo repository.RideRepository, userService *UserService) *RideService {
	return &RideService{
		rideRepo:    rideRepo,
		userService: userService,
	}
}

// BookRide creates a ride for the principal. The requester's profile row is
// reconciled first so the ride always references an existing user.
func (s *RideService) BookRide(ctx context.Context, clerkID, pickup, dropoff string) (*domain.Ride, error) {
	if clerkID == "" {
		return nil, ErrInvalidClerkID
	}
	if strings.TrimSpace(pickup) == "" || strings.TrimSpace(dropoff) == "" {
		return nil, ErrMissingLocations
	}

	if _, err := s.userService.EnsureUser(ctx, clerkID, ""); err != nil {
		return nil, err
	}

	ride := &domain.Ride{
		ID:              uuid.New().String(),
		UserID:          clerkID,
		PickupLocation:  pickup,
		DropoffLocation: dropoff,
		Status:          domain.RideStatusRequested,
		CreatedAt:       time.Now(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}
	return ride, nil
}

// ListForUser returns the rides visible to the principal: riders see rides
// they requested, drivers see rides assigned to them. Any other stored role
// is a misconfiguration and yields ErrUnknownRole without touching the ride
// store.
func (s *RideService) ListForUser(ctx context.Context, clerkID string) ([]*domain.Ride, error) {
	profile, err := s.userService.EnsureUser(ctx, clerkID, "")
	if err != nil {
		return nil, err
	}

	switch profile.Role {
	case domain.RoleRider:
		return s.rideRepo.GetByUserID(ctx, clerkID)
	case domain.RoleDriver:
		return s.rideRepo.GetByDriverID(ctx, clerkID)
	default:
		return nil, ErrUnknownRole
	}
}

// ListAll returns all rides. Used by the public diagnostic listing.
func (s *RideService) ListAll(ctx context.Context) ([]*domain.Ride, error) {
	return s.rideRepo.GetAll(ctx)
}
