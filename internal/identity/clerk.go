package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/clerk/clerk-sdk-go/v2/user"

	"github.com/MayankSinghDobal/vimana-backend/internal/domain"
)

// ClerkProvider implements TokenVerifier and Provider against the Clerk
// Backend API.
type ClerkProvider struct {
	users *user.Client
}

// Ensure interfaces are satisfied.
var (
	_ TokenVerifier = (*ClerkProvider)(nil)
	_ Provider      = (*ClerkProvider)(nil)
)

// NewClerkProvider creates a ClerkProvider from the backend secret key. The
// key is also registered globally because jwt.Verify fetches the instance
// JSON Web Key Set through the default client.
func NewClerkProvider(secretKey string) *ClerkProvider {
	clerk.SetKey(secretKey)

	cfg := &clerk.ClientConfig{}
	cfg.Key = clerk.String(secretKey)
	return &ClerkProvider{users: user.NewClient(cfg)}
}

// Verify validates a session token and returns the subject (Clerk user ID).
// The SDK fetches the instance public keys and checks signature and expiry.
func (p *ClerkProvider) Verify(ctx context.Context, token string) (string, error) {
	claims, err := jwt.Verify(ctx, &jwt.VerifyParams{Token: token})
	if err != nil {
		return "", fmt.Errorf("verify session token: %w", err)
	}
	return claims.Subject, nil
}

// roleMetadata is the slice of Clerk public metadata this service owns.
type roleMetadata struct {
	Role string `json:"role"`
}

// GetPrincipal fetches the provider's view of a user, including the cached
// role from public metadata.
func (p *ClerkProvider) GetPrincipal(ctx context.Context, clerkID string) (*Principal, error) {
	u, err := p.users.Get(ctx, clerkID)
	if err != nil {
		return nil, fmt.Errorf("fetch clerk user %s: %w", clerkID, err)
	}

	principal := &Principal{ID: clerkID}
	if u.FirstName != nil {
		principal.FirstName = *u.FirstName
	}
	if len(u.EmailAddresses) > 0 {
		principal.Email = u.EmailAddresses[0].EmailAddress
	}
	if len(u.PublicMetadata) > 0 {
		var meta roleMetadata
		if err := json.Unmarshal(u.PublicMetadata, &meta); err == nil {
			principal.Role = domain.Role(meta.Role)
		}
	}
	return principal, nil
}

// UpdateRole merges the role into the user's public metadata. Clerk merges
// metadata patches server-side, so other metadata keys are preserved.
func (p *ClerkProvider) UpdateRole(ctx context.Context, clerkID string, role domain.Role) error {
	patch, err := json.Marshal(roleMetadata{Role: string(role)})
	if err != nil {
		return err
	}

	raw := json.RawMessage(patch)
	if _, err := p.users.UpdateMetadata(ctx, clerkID, &user.UpdateMetadataParams{
		PublicMetadata: &raw,
	}); err != nil {
		return fmt.Errorf("update clerk metadata for %s: %w", clerkID, err)
	}
	return nil
}
