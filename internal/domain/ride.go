package domain

import "time"

// RideStatus represents the current status of a ride.
type RideStatus string

// RideStatusRequested is the status assigned at booking time. No further
// transitions (accept/complete/cancel) are modeled yet.
const RideStatusRequested RideStatus = "requested"

// Ride represents a booked ride in the system.
type Ride struct {
	ID              string
	UserID          string // ClerkID of the requesting rider
	DriverID        string // ClerkID of the assigned driver, empty until assigned
	PickupLocation  string
	DropoffLocation string
	Status          RideStatus
	CreatedAt       time.Time
}
