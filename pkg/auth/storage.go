package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore persists user records. Implementations must return
// ErrUserNotFound for missing rows and ErrEmailAlreadyExists when a
// create violates the unique email constraint.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	SetEmailVerified(ctx context.Context, id uuid.UUID) error
	SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

// AccountStore persists linked provider accounts. CreateLinkedAccount
// must surface a unique-index violation on (provider,
// provider_account_id) as ErrAccountExists: that index is the real
// guard against the concurrent find-then-create race.
type AccountStore interface {
	CreateLinkedAccount(ctx context.Context, account *LinkedAccount) error
	GetLinkedAccount(ctx context.Context, provider Provider, providerAccountID string) (*LinkedAccount, error)
	GetLinkedAccountByUser(ctx context.Context, userID uuid.UUID, provider Provider) (*LinkedAccount, error)
	UpdateLinkedAccountCredential(ctx context.Context, id uuid.UUID, credentialHash string) error
}

// TokenStore persists verification token records.
type TokenStore interface {
	CreateVerificationToken(ctx context.Context, token *VerificationToken) error
	// FindVerificationToken returns a non-expired record matching the
	// triple, or ErrTokenExpired when none exists.
	FindVerificationToken(ctx context.Context, userID uuid.UUID, tokenHash string, purpose Purpose) (*VerificationToken, error)
	DeleteVerificationTokens(ctx context.Context, userID uuid.UUID, purpose Purpose) error
	DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error)
}

// StateStore holds single-use OAuth state values bound to an in-flight
// authorization attempt, together with the PKCE verifier when the
// provider requires one.
type StateStore interface {
	StoreState(ctx context.Context, state, verifier string, ttl time.Duration) error
	// ConsumeState atomically removes the state and returns the bound
	// verifier. Returns ErrStateNotFound if the state does not exist or
	// was already consumed. Atomicity prevents replay across concurrent
	// callbacks.
	ConsumeState(ctx context.Context, state string) (verifier string, err error)
}
