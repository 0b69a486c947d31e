package postgres

import (
	"context"
	"database/sql"

	"github.com/MayankSinghDobal/vimana-backend/internal/domain"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

const rideColumns = `id, user_id, driver_id, pickup_location, dropoff_location, status, created_at`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (id, user_id, driver_id, pickup_location, dropoff_location, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var driverID sql.NullString
	if ride.DriverID != "" {
		driverID = sql.NullString{String: ride.DriverID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.UserID,
		driverID,
		ride.PickupLocation,
		ride.DropoffLocation,
		ride.Status,
		ride.CreatedAt,
	)
	return err
}

// GetAll retrieves all rides, newest first.
func (r *RideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY created_at DESC`
	return r.queryRides(ctx, query)
}

// GetByUserID retrieves rides requested by the given user.
func (r *RideRepository) GetByUserID(ctx context.Context, clerkID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryRides(ctx, query, clerkID)
}

// GetByDriverID retrieves rides assigned to the given driver.
func (r *RideRepository) GetByDriverID(ctx context.Context, clerkID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE driver_id = $1 ORDER BY created_at DESC`
	return r.queryRides(ctx, query, clerkID)
}

func (r *RideRepository) queryRides(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		var ride domain.Ride
		var driverID sql.NullString
		if err := rows.Scan(
			&ride.ID,
			&ride.UserID,
			&driverID,
			&ride.PickupLocation,
			&ride.DropoffLocation,
			&ride.Status,
			&ride.CreatedAt,
		); err != nil {
			return nil, err
		}
		if driverID.Valid {
			ride.DriverID = driverID.String
		}
		rides = append(rides, &ride)
	}
	return rides, rows.Err()
}
