package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserStore is a mock implementation of UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserStore) SetEmailVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserStore) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

// MockAccountStore is a mock implementation of AccountStore.
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) CreateLinkedAccount(ctx context.Context, account *LinkedAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountStore) GetLinkedAccount(ctx context.Context, provider Provider, providerAccountID string) (*LinkedAccount, error) {
	args := m.Called(ctx, provider, providerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LinkedAccount), args.Error(1)
}

func (m *MockAccountStore) GetLinkedAccountByUser(ctx context.Context, userID uuid.UUID, provider Provider) (*LinkedAccount, error) {
	args := m.Called(ctx, userID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LinkedAccount), args.Error(1)
}

func (m *MockAccountStore) UpdateLinkedAccountCredential(ctx context.Context, id uuid.UUID, credentialHash string) error {
	args := m.Called(ctx, id, credentialHash)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of TokenStore.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) CreateVerificationToken(ctx context.Context, token *VerificationToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenStore) FindVerificationToken(ctx context.Context, userID uuid.UUID, tokenHash string, purpose Purpose) (*VerificationToken, error) {
	args := m.Called(ctx, userID, tokenHash, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerificationToken), args.Error(1)
}

func (m *MockTokenStore) DeleteVerificationTokens(ctx context.Context, userID uuid.UUID, purpose Purpose) error {
	args := m.Called(ctx, userID, purpose)
	return args.Error(0)
}

func (m *MockTokenStore) DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockStateStore is a mock implementation of StateStore.
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) StoreState(ctx context.Context, state, verifier string, ttl time.Duration) error {
	args := m.Called(ctx, state, verifier, ttl)
	return args.Error(0)
}

func (m *MockStateStore) ConsumeState(ctx context.Context, state string) (string, error) {
	args := m.Called(ctx, state)
	return args.String(0), args.Error(1)
}

// MockProviderAdapter is a mock implementation of ProviderAdapter.
type MockProviderAdapter struct {
	mock.Mock
}

func (m *MockProviderAdapter) Provider() Provider {
	args := m.Called()
	return args.Get(0).(Provider)
}

func (m *MockProviderAdapter) RequiresPKCE() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockProviderAdapter) AuthCodeURL(state, verifier string) string {
	args := m.Called(state, verifier)
	return args.String(0)
}

func (m *MockProviderAdapter) Exchange(ctx context.Context, code, verifier string) (*ProviderToken, error) {
	args := m.Called(ctx, code, verifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ProviderToken), args.Error(1)
}

func (m *MockProviderAdapter) FetchProfile(ctx context.Context, token *ProviderToken) (ProviderProfile, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(ProviderProfile), args.Error(1)
}

// MockMailer is a mock implementation of Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendWelcomeEmail(ctx context.Context, to, rawToken string) error {
	args := m.Called(ctx, to, rawToken)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordResetEmail(ctx context.Context, to, rawToken string) error {
	args := m.Called(ctx, to, rawToken)
	return args.Error(0)
}
