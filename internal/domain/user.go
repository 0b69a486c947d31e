package domain

import "time"

// Role is the application-level role of a user.
type Role string

const (
	RoleRider  Role = "rider"
	RoleDriver Role = "driver"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleRider || r == RoleDriver
}

// Profile represents a user's row in the users table. ClerkID is the
// identity provider's subject identifier and the primary key; the Role
// field caches the role stored in Clerk's public metadata.
type Profile struct {
	ClerkID       string
	Name          string
	Email         string
	Phone         string
	Role          Role
	VehicleNumber string // set only when Role is driver
	LicenseNumber string // set only when Role is driver
	UpdatedAt     time.Time
}
