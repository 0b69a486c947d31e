package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MayankSinghDobal/vimana-backend/internal/domain"
	"github.com/MayankSinghDobal/vimana-backend/internal/identity"
	internalRedis "github.com/MayankSinghDobal/vimana-backend/internal/redis"
	"github.com/MayankSinghDobal/vimana-backend/internal/repository"
)

// Placeholder values used when Clerk has no name or email for a principal.
const (
	defaultName  = "Unknown"
	defaultEmail = "unknown@example.com"
)

// reconcileLockTTL bounds how long a crashed request can hold the
// per-principal reconciliation lock.
const reconcileLockTTL = 10 * time.Second

// UserService keeps the users table and Clerk's role metadata in sync.
type UserService struct {
	userRepo repository.UserRepository
	provider identity.Provider
	journal  internalRedis.JournalStoreInterface // optional
	locks    internalRedis.LockStoreInterface    // optional
}

// NewUserService creates a new UserService. Journal and lock stores are
// optional; without them role changes are still performed, just without
// the reconciliation log and per-principal serialization.
func NewUserService(
	userRepo repository.UserRepository,
	provider identity.Provider,
	journal internalRedis.JournalStoreInterface,
	locks internalRedis.LockStoreInterface,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		provider: provider,
		journal:  journal,
		locks:    locks,
	}
}

// EnsureUser guarantees that a profile row exists for the principal and,
// when requestedRole is non-empty, that both the row and Clerk's metadata
// reflect that role.
//
// The clerkID must come from a verified token; it is not re-validated here.
func (s *UserService) EnsureUser(ctx context.Context, clerkID string, requestedRole domain.Role) (*domain.Profile, error) {
	if clerkID == "" {
		return nil, ErrInvalidClerkID
	}
	if requestedRole != "" && !requestedRole.Valid() {
		return nil, ErrInvalidRole
	}

	principal, err := s.provider.GetPrincipal(ctx, clerkID)
	if err != nil {
		return nil, fmt.Errorf("fetch principal: %w", err)
	}

	providerRole := principal.Role
	if providerRole == "" {
		providerRole = domain.RoleRider
	}

	profile, err := s.userRepo.GetByClerkID(ctx, clerkID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup profile: %w", err)
	}

	if errors.Is(err, repository.ErrNotFound) {
		return s.createProfile(ctx, principal, providerRole, requestedRole)
	}

	if requestedRole == "" || requestedRole == profile.Role {
		return profile, nil
	}

	return s.switchRole(ctx, profile, requestedRole)
}

// createProfile inserts the first profile row for a principal. The upsert
// returns the stored row even when a concurrent request won the insert.
func (s *UserService) createProfile(ctx context.Context, principal *identity.Principal, providerRole, requestedRole domain.Role) (*domain.Profile, error) {
	effectiveRole := providerRole
	if requestedRole != "" {
		effectiveRole = requestedRole
	}

	// Bring Clerk's metadata in line before the row exists, so a failed
	// insert leaves nothing pointing at a role Clerk does not know about.
	if requestedRole != "" && requestedRole != providerRole {
		if err := s.provider.UpdateRole(ctx, principal.ID, requestedRole); err != nil {
			return nil, fmt.Errorf("update provider role: %w", err)
		}
	}

	name := principal.FirstName
	if name == "" {
		name = defaultName
	}
	email := principal.Email
	if email == "" {
		email = defaultEmail
	}

	created, err := s.userRepo.Upsert(ctx, &domain.Profile{
		ClerkID:   principal.ID,
		Name:      name,
		Email:     email,
		Role:      effectiveRole,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return created, nil
}

// switchRole performs the role dual-write: Clerk metadata first, then the
// profile row. The write is journaled so a partial failure is visible, and
// the Clerk write is rolled back when the row update fails.
func (s *UserService) switchRole(ctx context.Context, profile *domain.Profile, newRole domain.Role) (*domain.Profile, error) {
	if s.locks != nil {
		acquired, err := s.locks.AcquireReconcileLock(ctx, profile.ClerkID, reconcileLockTTL)
		if err != nil {
			// A lock-store outage degrades to an unserialized write rather
			// than blocking role changes entirely.
			log.Printf("acquire reconcile lock for %s: %v", profile.ClerkID, err)
		} else if !acquired {
			return nil, ErrReconcileInProgress
		} else {
			defer func() {
				if err := s.locks.ReleaseReconcileLock(ctx, profile.ClerkID); err != nil {
					log.Printf("release reconcile lock for %s: %v", profile.ClerkID, err)
				}
			}()
		}
	}

	if s.journal != nil {
		entry := internalRedis.JournalEntry{
			ClerkID:   profile.ClerkID,
			FromRole:  profile.Role,
			ToRole:    newRole,
			StartedAt: time.Now(),
		}
		if err := s.journal.Begin(ctx, entry); err != nil {
			log.Printf("journal role change for %s: %v", profile.ClerkID, err)
		}
	}

	if err := s.provider.UpdateRole(ctx, profile.ClerkID, newRole); err != nil {
		s.clearJournal(ctx, profile.ClerkID)
		return nil, fmt.Errorf("update provider role: %w", err)
	}

	updated, err := s.userRepo.UpdateRole(ctx, profile.ClerkID, newRole)
	if err != nil {
		// Roll Clerk back so the two systems agree again. If that also
		// fails the journal entry stays behind for an operator.
		if cerr := s.provider.UpdateRole(ctx, profile.ClerkID, profile.Role); cerr != nil {
			log.Printf("role reconciliation for %s left inconsistent: update failed (%v) and compensation failed (%v)",
				profile.ClerkID, err, cerr)
			return nil, fmt.Errorf("update profile role: %w", err)
		}
		s.clearJournal(ctx, profile.ClerkID)
		return nil, fmt.Errorf("update profile role: %w", err)
	}

	s.clearJournal(ctx, profile.ClerkID)
	return updated, nil
}

func (s *UserService) clearJournal(ctx context.Context, clerkID string) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Clear(ctx, clerkID); err != nil {
		log.Printf("clear reconcile journal for %s: %v", clerkID, err)
	}
}

// UpdateProfileInput contains the editable profile fields. An empty Role
// means the role is left unchanged.
type UpdateProfileInput struct {
	Name          string
	Phone         string
	Role          string
	VehicleNumber string
	LicenseNumber string
}

// UpdateProfile validates and applies a profile edit. A role supplied here
// is pushed to Clerk's metadata as well, keeping the two stores in sync.
func (s *UserService) UpdateProfile(ctx context.Context, clerkID string, in UpdateProfileInput) (*domain.Profile, error) {
	if clerkID == "" {
		return nil, ErrInvalidClerkID
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrMissingName
	}

	var role domain.Role
	if in.Role != "" {
		parsed, err := ValidateRole(in.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
		if role == domain.RoleDriver && (in.VehicleNumber == "" || in.LicenseNumber == "") {
			return nil, ErrMissingVehicleInfo
		}
	}

	existing, err := s.userRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if role == "" {
		role = existing.Role
	} else if role != existing.Role {
		if err := s.provider.UpdateRole(ctx, clerkID, role); err != nil {
			return nil, fmt.Errorf("update provider role: %w", err)
		}
	}

	vehicleNumber := in.VehicleNumber
	licenseNumber := in.LicenseNumber
	if role == domain.RoleDriver {
		// An edit that leaves the role alone must not wipe a driver's
		// stored credentials when it omits them.
		if vehicleNumber == "" {
			vehicleNumber = existing.VehicleNumber
		}
		if licenseNumber == "" {
			licenseNumber = existing.LicenseNumber
		}
		if vehicleNumber == "" || licenseNumber == "" {
			return nil, ErrMissingVehicleInfo
		}
	} else {
		vehicleNumber = ""
		licenseNumber = ""
	}

	return s.userRepo.Update(ctx, &domain.Profile{
		ClerkID:       clerkID,
		Name:          in.Name,
		Email:         existing.Email,
		Phone:         in.Phone,
		Role:          role,
		VehicleNumber: vehicleNumber,
		LicenseNumber: licenseNumber,
		UpdatedAt:     time.Now(),
	})
}

// SwitchRole validates the role then reconciles it across Clerk and the
// profile row.
func (s *UserService) SwitchRole(ctx context.Context, clerkID, role string) (*domain.Profile, error) {
	parsed, err := ValidateRole(role)
	if err != nil {
		return nil, err
	}
	return s.EnsureUser(ctx, clerkID, parsed)
}

// ValidateRole validates a role string.
func ValidateRole(role string) (domain.Role, error) {
	switch domain.Role(role) {
	case domain.RoleRider, domain.RoleDriver:
		return domain.Role(role), nil
	default:
		return "", ErrInvalidRole
	}
}
