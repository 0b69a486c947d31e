package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MayankSinghDobal/vimana-backend/internal/domain"
	"github.com/MayankSinghDobal/vimana-backend/internal/identity"
	internalRedis "github.com/MayankSinghDobal/vimana-backend/internal/redis"
	"github.com/MayankSinghDobal/vimana-backend/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu       sync.RWMutex
	profiles map[string]*domain.Profile

	// Counters for verification
	GetCallCount        int32
	UpsertCallCount     int32
	UpdateCallCount     int32
	UpdateRoleCallCount int32

	// Error injection
	UpsertError     error
	UpdateError     error
	UpdateRoleError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		profiles: make(map[string]*domain.Profile),
	}
}

// AddProfile seeds a profile into the mock repository.
func (m *MockUserRepository) AddProfile(profile *domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.ClerkID] = profile
}

// GetProfile returns a profile for test assertions.
func (m *MockUserRepository) GetProfile(clerkID string) *domain.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profiles[clerkID]
}

func (m *MockUserRepository) GetByClerkID(ctx context.Context, clerkID string) (*domain.Profile, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	profile, ok := m.profiles[clerkID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *profile
	return &copy, nil
}

func (m *MockUserRepository) Upsert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return nil, m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.profiles[profile.ClerkID]; ok {
		copy := *existing
		return &copy, nil
	}
	stored := *profile
	m.profiles[profile.ClerkID] = &stored
	copy := stored
	return &copy, nil
}

func (m *MockUserRepository) Update(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.profiles[profile.ClerkID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	updated := *profile
	updated.Email = existing.Email
	m.profiles[profile.ClerkID] = &updated
	copy := updated
	return &copy, nil
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, clerkID string, role domain.Role) (*domain.Profile, error) {
	atomic.AddInt32(&m.UpdateRoleCallCount, 1)
	if m.UpdateRoleError != nil {
		return nil, m.UpdateRoleError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[clerkID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	profile.Role = role
	if role != domain.RoleDriver {
		profile.VehicleNumber = ""
		profile.LicenseNumber = ""
	}
	profile.UpdatedAt = time.Now()
	copy := *profile
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides []*domain.Ride

	// Counters for verification
	CreateCallCount        int32
	GetAllCallCount        int32
	GetByUserIDCallCount   int32
	GetByDriverIDCallCount int32

	// Error injection
	CreateError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{}
}

// AddRide seeds a ride into the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides = append(m.rides, ride)
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *ride
	m.rides = append(m.rides, &copy)
	return nil
}

func (m *MockRideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	atomic.AddInt32(&m.GetAllCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0, len(m.rides))
	for _, r := range m.rides {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRideRepository) GetByUserID(ctx context.Context, clerkID string) ([]*domain.Ride, error) {
	atomic.AddInt32(&m.GetByUserIDCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Ride
	for _, r := range m.rides {
		if r.UserID == clerkID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) GetByDriverID(ctx context.Context, clerkID string) ([]*domain.Ride, error) {
	atomic.AddInt32(&m.GetByDriverIDCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Ride
	for _, r := range m.rides {
		if r.DriverID == clerkID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK IDENTITY PROVIDER
// ──────────────────────────────────────────────

// MockIdentityProvider is a mock implementation of identity.Provider.
type MockIdentityProvider struct {
	mu         sync.RWMutex
	principals map[string]*identity.Principal

	// Counters for verification
	GetPrincipalCallCount int32
	UpdateRoleCallCount   int32

	// Error injection
	GetPrincipalError error
	UpdateRoleError   error
}

// NewMockIdentityProvider creates a new mock identity provider.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		principals: make(map[string]*identity.Principal),
	}
}

// AddPrincipal seeds a principal into the mock provider.
func (m *MockIdentityProvider) AddPrincipal(principal *identity.Principal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.principals[principal.ID] = principal
}

// PrincipalRole returns the provider-side role for test assertions.
func (m *MockIdentityProvider) PrincipalRole(clerkID string) domain.Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.principals[clerkID]; ok {
		return p.Role
	}
	return ""
}

func (m *MockIdentityProvider) GetPrincipal(ctx context.Context, clerkID string) (*identity.Principal, error) {
	atomic.AddInt32(&m.GetPrincipalCallCount, 1)
	if m.GetPrincipalError != nil {
		return nil, m.GetPrincipalError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.principals[clerkID]; ok {
		copy := *p
		return &copy, nil
	}
	// Clerk knows every verified principal even before we do.
	return &identity.Principal{ID: clerkID}, nil
}

func (m *MockIdentityProvider) UpdateRole(ctx context.Context, clerkID string, role domain.Role) error {
	atomic.AddInt32(&m.UpdateRoleCallCount, 1)
	if m.UpdateRoleError != nil {
		return m.UpdateRoleError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.principals[clerkID]; ok {
		p.Role = role
	} else {
		m.principals[clerkID] = &identity.Principal{ID: clerkID, Role: role}
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK JOURNAL & LOCK STORES
// ──────────────────────────────────────────────

// MockJournalStore is an in-memory reconciliation journal.
type MockJournalStore struct {
	mu      sync.RWMutex
	entries map[string]internalRedis.JournalEntry

	BeginCallCount int32
	ClearCallCount int32
}

// NewMockJournalStore creates a new mock journal store.
func NewMockJournalStore() *MockJournalStore {
	return &MockJournalStore{
		entries: make(map[string]internalRedis.JournalEntry),
	}
}

func (m *MockJournalStore) Begin(ctx context.Context, entry internalRedis.JournalEntry) error {
	atomic.AddInt32(&m.BeginCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ClerkID] = entry
	return nil
}

func (m *MockJournalStore) Clear(ctx context.Context, clerkID string) error {
	atomic.AddInt32(&m.ClearCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, clerkID)
	return nil
}

func (m *MockJournalStore) Get(ctx context.Context, clerkID string) (*internalRedis.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if entry, ok := m.entries[clerkID]; ok {
		return &entry, nil
	}
	return nil, nil
}

// MockLockStore is an in-memory lock store.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireCallCount int32
	ReleaseCallCount int32
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireReconcileLock(ctx context.Context, clerkID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[clerkID] {
		return false, nil
	}
	m.locks[clerkID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseReconcileLock(ctx context.Context, clerkID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, clerkID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK IDEMPOTENCY STORE
// ──────────────────────────────────────────────

// MockIdempotencyStore is an in-memory idempotency response store.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetCallCount int32
	SetCallCount int32
}

// NewMockIdempotencyStore creates a new mock idempotency store.
func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{data: make(map[string][]byte)}
}

func (m *MockIdempotencyStore) Get(ctx context.Context, key string) ([]byte, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.data[key]; ok {
		return data, nil
	}
	return nil, nil
}

func (m *MockIdempotencyStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

// HasKey reports whether a response is cached under the key.
func (m *MockIdempotencyStore) HasKey(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

// ──────────────────────────────────────────────
// MOCK TOKEN VERIFIER
// ──────────────────────────────────────────────

// MockVerifier is a mock implementation of identity.TokenVerifier.
type MockVerifier struct {
	// Subject is returned for every verified token.
	Subject string
	// VerifyError is returned when set.
	VerifyError error

	VerifyCallCount int32
}

func (m *MockVerifier) Verify(ctx context.Context, token string) (string, error) {
	atomic.AddInt32(&m.VerifyCallCount, 1)
	if m.VerifyError != nil {
		return "", m.VerifyError
	}
	return m.Subject, nil
}
