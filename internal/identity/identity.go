package identity

import (
	"context"

	"github.com/MayankSinghDobal/vimana-backend/internal/domain"
)

// Principal is the identity provider's current view of an authenticated user.
type Principal struct {
	ID        string
	Email     string
	FirstName string
	Role      domain.Role // empty when no role metadata has been set
}

// TokenVerifier verifies a bearer token and returns the stable principal ID.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Provider exposes the identity provider's user directory. Both calls are
// network calls and can fail independently of the profile store.
type Provider interface {
	// GetPrincipal fetches the provider's view of a user.
	GetPrincipal(ctx context.Context, clerkID string) (*Principal, error)

	// UpdateRole merges a role value into the user's public metadata.
	UpdateRole(ctx context.Context, clerkID string, role domain.Role) error
}
