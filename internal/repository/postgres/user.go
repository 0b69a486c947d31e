package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MayankSinghDobal/vimana-backend/internal/domain"
	"github.com/MayankSinghDobal/vimana-backend/internal/repository"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

const profileColumns = `clerk_id, name, email, phone, role, vehicle_number, license_number, updated_at`

// GetByClerkID retrieves a profile by Clerk user ID.
func (r *UserRepository) GetByClerkID(ctx context.Context, clerkID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE clerk_id = $1`
	return scanProfile(r.q.QueryRowContext(ctx, query, clerkID))
}

// Upsert inserts a profile row, or returns the existing row when one is
// already present for the Clerk ID. The no-op DO UPDATE makes RETURNING
// yield the stored row in both cases, collapsing the check-then-insert
// race into a single conditional write.
func (r *UserRepository) Upsert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	query := `
		INSERT INTO users (clerk_id, name, email, phone, role, vehicle_number, license_number, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (clerk_id) DO UPDATE SET clerk_id = EXCLUDED.clerk_id
		RETURNING ` + profileColumns

	row := r.q.QueryRowContext(ctx, query,
		profile.ClerkID,
		profile.Name,
		profile.Email,
		nullString(profile.Phone),
		profile.Role,
		nullString(profile.VehicleNumber),
		nullString(profile.LicenseNumber),
		profile.UpdatedAt,
	)
	return scanProfile(row)
}

// Update replaces the profile's editable fields.
func (r *UserRepository) Update(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	query := `
		UPDATE users
		SET name = $2, phone = $3, role = $4, vehicle_number = $5, license_number = $6, updated_at = $7
		WHERE clerk_id = $1
		RETURNING ` + profileColumns

	row := r.q.QueryRowContext(ctx, query,
		profile.ClerkID,
		profile.Name,
		nullString(profile.Phone),
		profile.Role,
		nullString(profile.VehicleNumber),
		nullString(profile.LicenseNumber),
		profile.UpdatedAt,
	)
	return scanProfile(row)
}

// UpdateRole sets the profile's role. Vehicle and license numbers are kept
// only while the role stays driver.
func (r *UserRepository) UpdateRole(ctx context.Context, clerkID string, role domain.Role) (*domain.Profile, error) {
	query := `
		UPDATE users
		SET role = $2,
		    vehicle_number = CASE WHEN $2 = 'driver' THEN vehicle_number ELSE NULL END,
		    license_number = CASE WHEN $2 = 'driver' THEN license_number ELSE NULL END,
		    updated_at = NOW()
		WHERE clerk_id = $1
		RETURNING ` + profileColumns

	return scanProfile(r.q.QueryRowContext(ctx, query, clerkID, role))
}

// scanProfile scans a single profile row, mapping sql.ErrNoRows to
// repository.ErrNotFound.
func scanProfile(row *sql.Row) (*domain.Profile, error) {
	var profile domain.Profile
	var phone, vehicleNumber, licenseNumber sql.NullString

	err := row.Scan(
		&profile.ClerkID,
		&profile.Name,
		&profile.Email,
		&phone,
		&profile.Role,
		&vehicleNumber,
		&licenseNumber,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if phone.Valid {
		profile.Phone = phone.String
	}
	if vehicleNumber.Valid {
		profile.VehicleNumber = vehicleNumber.String
	}
	if licenseNumber.Valid {
		profile.LicenseNumber = licenseNumber.String
	}
	return &profile, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
