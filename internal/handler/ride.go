package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MayankSinghDobal/vimana-backend/internal/domain"
	"github.com/MayankSinghDobal/vimana-backend/internal/middleware"
	"github.com/MayankSinghDobal/vimana-backend/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// RideResponse is the HTTP response for ride data.
type RideResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	DriverID        string `json:"driver_id,omitempty"`
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
}

func toRideResponse(r *domain.Ride) RideResponse {
	return RideResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		DriverID:        r.DriverID,
		PickupLocation:  r.PickupLocation,
		DropoffLocation: r.DropoffLocation,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
}

func toRideResponses(rides []*domain.Ride) []RideResponse {
	response := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		response = append(response, toRideResponse(r))
	}
	return response
}

// Home handles GET /. It returns every ride row as a quick diagnostic that
// the service and its database are reachable.
func (h *RideHandler) Home(c *gin.Context) {
	rides, err := h.rideService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"message": "Vimana backend is running",
		"rides":   toRideResponses(rides),
	})
}

// List handles GET /rides. Riders see rides they requested; drivers see
// rides assigned to them.
func (h *RideHandler) List(c *gin.Context) {
	rides, err := h.rideService.ListForUser(c.Request.Context(), middleware.ClerkID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// BookRideRequest is the HTTP request body for booking a ride.
type BookRideRequest struct {
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
}

// BookRide handles POST /book-ride.
func (h *RideHandler) BookRide(c *gin.Context) {
	var req BookRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.BookRide(c.Request.Context(), middleware.ClerkID(c), req.PickupLocation, req.DropoffLocation)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}
