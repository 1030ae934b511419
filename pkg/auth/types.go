package auth

import (
	"time"

	"github.com/google/uuid"
)

// Provider identifies an external identity provider.
type Provider string

const (
	ProviderGithub Provider = "github"
	ProviderYandex Provider = "yandex"
	ProviderVK     Provider = "vk"
)

// Purpose scopes a verification token to a single flow.
type Purpose string

const (
	PurposeEmailVerification Purpose = "EMAIL_VERIFICATION"
	PurposePasswordReset     Purpose = "PASSWORD_RESET"
)

// User represents a local user account. PasswordHash is empty for
// provider-only accounts.
type User struct {
	ID            uuid.UUID
	Email         string
	PasswordHash  string
	Name          string
	AvatarURL     string
	EmailVerified bool
	CreatedAt     time.Time
}

// LinkedAccount connects a local user to an external provider identity.
// The pair (Provider, ProviderAccountID) is globally unique: at most one
// linked account per provider identity. CredentialHash stores a one-way
// hash of the provider access token, never the raw token.
type LinkedAccount struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Provider          Provider
	ProviderAccountID string
	CredentialHash    string
	CreatedAt         time.Time
}

// VerificationToken is the persisted side of a single-use token. Only
// the SHA-256 hash of the raw signed token is stored, so a leaked table
// cannot be replayed without a structurally valid signed token.
type VerificationToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Purpose   Purpose
	TokenHash string
	ExpiresAt time.Time
}

// TokenPair is a freshly issued access/refresh token pair. Neither
// token is persisted; both are verified by signature and expiry alone.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ProviderProfile is the normalized profile an adapter extracts from a
// provider after a successful code exchange.
type ProviderProfile struct {
	ProviderAccountID string
	Email             string
	EmailVerified     bool
	Name              string
	AvatarURL         string
}
