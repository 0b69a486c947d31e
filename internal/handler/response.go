package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MayankSinghDobal/vimana-backend/internal/repository"
	"github.com/MayankSinghDobal/vimana-backend/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidClerkID),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrMissingName),
		errors.Is(err, service.ErrMissingVehicleInfo),
		errors.Is(err, service.ErrMissingLocations):
		return http.StatusBadRequest

	// A stored role outside {rider, driver} is a misconfiguration.
	case errors.Is(err, service.ErrUnknownRole):
		return http.StatusForbidden

	// A concurrent role change holds the reconcile lock; retryable.
	case errors.Is(err, service.ErrReconcileInProgress):
		return http.StatusConflict

	// Anything else is an upstream (Clerk/Postgres) failure.
	default:
		return http.StatusInternalServerError
	}
}
