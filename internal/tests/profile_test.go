package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/MayankSinghDobal/vimana-backend/internal/domain"
	"github.com/MayankSinghDobal/vimana-backend/internal/identity"
	"github.com/MayankSinghDobal/vimana-backend/internal/repository"
	"github.com/MayankSinghDobal/vimana-backend/internal/service"
)

// ──────────────────────────────────────────────
// 2. PROFILE UPDATE VALIDATION
// ──────────────────────────────────────────────

func TestUpdateProfile_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   service.UpdateProfileInput
		wantErr error
	}{
		{
			name:    "missing name",
			input:   service.UpdateProfileInput{Name: "  "},
			wantErr: service.ErrMissingName,
		},
		{
			name:    "unknown role",
			input:   service.UpdateProfileInput{Name: "Asha", Role: "admin"},
			wantErr: service.ErrInvalidRole,
		},
		{
			name:    "driver without vehicle number",
			input:   service.UpdateProfileInput{Name: "Asha", Role: "driver", LicenseNumber: "DL-42"},
			wantErr: service.ErrMissingVehicleInfo,
		},
		{
			name:    "driver without license number",
			input:   service.UpdateProfileInput{Name: "Asha", Role: "driver", VehicleNumber: "KA-01-1234"},
			wantErr: service.ErrMissingVehicleInfo,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			userRepo := NewMockUserRepository()
			provider := NewMockIdentityProvider()
			userService := service.NewUserService(userRepo, provider, nil, nil)

			_, err := userService.UpdateProfile(context.Background(), "user_123", tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
			if userRepo.UpdateCallCount != 0 {
				t.Error("expected no store write for invalid input")
			}
		})
	}
}

func TestUpdateProfile_MissingProfile_NotFound(t *testing.T) {
	t.Parallel()

	userRepo := NewMockUserRepository()
	provider := NewMockIdentityProvider()
	userService := service.NewUserService(userRepo, provider, nil, nil)

	_, err := userService.UpdateProfile(context.Background(), "user_123", service.UpdateProfileInput{Name: "Asha"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProfile_DriverFields_Persisted(t *testing.T) {
	t.Parallel()

	userRepo := NewMockUserRepository()
	userRepo.AddProfile(&domain.Profile{
		ClerkID: "user_123",
		Name:    "Asha",
		Email:   "asha@example.com",
		Role:    domain.RoleRider,
	})
	provider := NewMockIdentityProvider()
	provider.AddPrincipal(&identity.Principal{ID: "user_123", Role: domain.RoleRider})
	userService := service.NewUserService(userRepo, provider, nil, nil)

	profile, err := userService.UpdateProfile(context.Background(), "user_123", service.UpdateProfileInput{
		Name:          "Asha K",
		Phone:         "9876543210",
		Role:          "driver",
		VehicleNumber: "KA-01-1234",
		LicenseNumber: "DL-42",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if profile.Role != domain.RoleDriver {
		t.Errorf("expected role driver, got %s", profile.Role)
	}
	if profile.VehicleNumber != "KA-01-1234" || profile.LicenseNumber != "DL-42" {
		t.Errorf("expected driver fields persisted, got %+v", profile)
	}
	// The role change is pushed to Clerk too.
	if provider.UpdateRoleCallCount != 1 {
		t.Errorf("expected one provider metadata write, got %d", provider.UpdateRoleCallCount)
	}
	if provider.PrincipalRole("user_123") != domain.RoleDriver {
		t.Errorf("expected provider role driver, got %s", provider.PrincipalRole("user_123"))
	}
}

func TestUpdateProfile_DriverNameOnly_KeepsCredentials(t *testing.T) {
	t.Parallel()

	userRepo := NewMockUserRepository()
	userRepo.AddProfile(&domain.Profile{
		ClerkID:       "user_123",
		Name:          "Asha",
		Email:         "asha@example.com",
		Role:          domain.RoleDriver,
		VehicleNumber: "KA-01-1234",
		LicenseNumber: "DL-42",
	})
	provider := NewMockIdentityProvider()
	provider.AddPrincipal(&identity.Principal{ID: "user_123", Role: domain.RoleDriver})
	userService := service.NewUserService(userRepo, provider, nil, nil)

	// An edit that omits the role must not wipe the stored credentials.
	profile, err := userService.UpdateProfile(context.Background(), "user_123", service.UpdateProfileInput{
		Name:  "Asha K",
		Phone: "9876543210",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if profile.Role != domain.RoleDriver {
		t.Errorf("expected role to stay driver, got %s", profile.Role)
	}
	if profile.VehicleNumber != "KA-01-1234" || profile.LicenseNumber != "DL-42" {
		t.Errorf("expected driver credentials preserved, got %+v", profile)
	}
	if stored := userRepo.GetProfile("user_123"); stored.VehicleNumber != "KA-01-1234" || stored.LicenseNumber != "DL-42" {
		t.Errorf("expected stored credentials intact, got %+v", stored)
	}
	if provider.UpdateRoleCallCount != 0 {
		t.Errorf("expected no provider write when role is unchanged, got %d", provider.UpdateRoleCallCount)
	}
}

func TestUpdateProfile_SwitchBackToRider_ClearsDriverFields(t *testing.T) {
	t.Parallel()

	userRepo := NewMockUserRepository()
	userRepo.AddProfile(&domain.Profile{
		ClerkID:       "user_123",
		Name:          "Asha",
		Email:         "asha@example.com",
		Role:          domain.RoleDriver,
		VehicleNumber: "KA-01-1234",
		LicenseNumber: "DL-42",
	})
	provider := NewMockIdentityProvider()
	provider.AddPrincipal(&identity.Principal{ID: "user_123", Role: domain.RoleDriver})
	userService := service.NewUserService(userRepo, provider, nil, nil)

	profile, err := userService.UpdateProfile(context.Background(), "user_123", service.UpdateProfileInput{
		Name: "Asha",
		Role: "rider",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if profile.Role != domain.RoleRider {
		t.Errorf("expected role rider, got %s", profile.Role)
	}
	if profile.VehicleNumber != "" || profile.LicenseNumber != "" {
		t.Errorf("expected driver fields cleared, got %+v", profile)
	}
}

// ──────────────────────────────────────────────
// 3. ROLE SWITCHING
// ──────────────────────────────────────────────

func TestSwitchRole_InvalidRole_Fails(t *testing.T) {
	t.Parallel()

	userRepo := NewMockUserRepository()
	provider := NewMockIdentityProvider()
	userService := service.NewUserService(userRepo, provider, nil, nil)

	for _, role := range []string{"", "admin", "RIDER", "Driver"} {
		if _, err := userService.SwitchRole(context.Background(), "user_123", role); !errors.Is(err, service.ErrInvalidRole) {
			t.Errorf("role %q: expected ErrInvalidRole, got %v", role, err)
		}
	}
	if provider.GetPrincipalCallCount != 0 {
		t.Error("expected no provider calls for invalid roles")
	}
}

func TestSwitchRole_RiderToDriver_UpdatesBothStores(t *testing.T) {
	t.Parallel()

	userRepo := NewMockUserRepository()
	userRepo.AddProfile(&domain.Profile{ClerkID: "user_123", Name: "Asha", Role: domain.RoleRider})
	provider := NewMockIdentityProvider()
	provider.AddPrincipal(&identity.Principal{ID: "user_123", Role: domain.RoleRider})
	userService := service.NewUserService(userRepo, provider, nil, nil)

	profile, err := userService.SwitchRole(context.Background(), "user_123", "driver")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if profile.Role != domain.RoleDriver {
		t.Errorf("expected role driver, got %s", profile.Role)
	}
	if provider.PrincipalRole("user_123") != domain.RoleDriver {
		t.Error("expected provider metadata updated to driver")
	}
	if stored := userRepo.GetProfile("user_123"); stored == nil || stored.Role != domain.RoleDriver {
		t.Error("expected stored profile role updated to driver")
	}
}
