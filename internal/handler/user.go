package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MayankSinghDobal/vimana-backend/internal/domain"
	"github.com/MayankSinghDobal/vimana-backend/internal/middleware"
	"github.com/MayankSinghDobal/vimana-backend/internal/service"
)

// UserHandler handles HTTP requests for user profiles.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ProfileResponse is the HTTP response for profile data.
type ProfileResponse struct {
	ClerkID       string `json:"clerk_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	Role          string `json:"role"`
	VehicleNumber string `json:"vehicle_number,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
	UpdatedAt     string `json:"updated_at"`
}

func toProfileResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ClerkID:       p.ClerkID,
		Name:          p.Name,
		Email:         p.Email,
		Phone:         p.Phone,
		Role:          string(p.Role),
		VehicleNumber: p.VehicleNumber,
		LicenseNumber: p.LicenseNumber,
		UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
	}
}

// GetProfile handles GET /profile. The profile row is created on first
// access, with name and email sourced from Clerk.
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.EnsureUser(c.Request.Context(), middleware.ClerkID(c), "")
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toProfileResponse(profile))
}

// UpdateProfileRequest is the HTTP request body for editing a profile.
type UpdateProfileRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	Role          string `json:"role,omitempty"`
	VehicleNumber string `json:"vehicle_number,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
}

// UpdateProfile handles PUT /profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), middleware.ClerkID(c), service.UpdateProfileInput{
		Name:          req.Name,
		Phone:         req.Phone,
		Role:          req.Role,
		VehicleNumber: req.VehicleNumber,
		LicenseNumber: req.LicenseNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toProfileResponse(profile))
}

// SwitchRoleRequest is the HTTP request body for switching roles.
type SwitchRoleRequest struct {
	Role string `json:"role"`
}

// SwitchRoleResponse is the HTTP response for a role switch.
type SwitchRoleResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	User    ProfileResponse `json:"user"`
}

// SwitchRole handles POST /switch-role.
func (h *UserHandler) SwitchRole(c *gin.Context) {
	var req SwitchRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	profile, err := h.userService.SwitchRole(c.Request.Context(), middleware.ClerkID(c), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SwitchRoleResponse{
		Success: true,
		Message: "Role switched to " + string(profile.Role),
		User:    toProfileResponse(profile),
	})
}
