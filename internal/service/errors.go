package service

import "errors"

var (
	// ErrInvalidClerkID is returned when the Clerk user ID is empty.
	ErrInvalidClerkID = errors.New("invalid clerk user id")

	// ErrInvalidRole is returned when a role is not rider or driver.
	ErrInvalidRole = errors.New("invalid role, must be rider or driver")

	// ErrMissingName is returned when a profile update has no name.
	ErrMissingName = errors.New("name is required")

	// ErrMissingVehicleInfo is returned when a driver profile lacks
	// vehicle or license details.
	ErrMissingVehicleInfo = errors.New("vehicle number and license number are required for drivers")

	// ErrMissingLocations is returned when a booking lacks pickup or
	// dropoff locations.
	ErrMissingLocations = errors.New("pickup and dropoff locations are required")

	// ErrUnknownRole is returned when a stored role is neither rider nor
	// driver. This is treated as a misconfiguration, not a normal state.
	ErrUnknownRole = errors.New("unrecognized user role")

	// ErrReconcileInProgress is returned when another request is already
	// reconciling this principal's role. Safe to retry.
	ErrReconcileInProgress = errors.New("role change already in progress")
)
