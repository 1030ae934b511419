package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vabase/identity/pkg/logger"
	"github.com/vabase/identity/pkg/sanitizer"
)

// AccountLinker finds-or-creates a local user for a provider identity
// and keeps the stored provider credential fresh.
//
// Linking policy: a (provider, providerAccountID) pair is never
// silently reassigned to a different local user. If the provider-side
// email changes and resolves to another local account, the callback
// fails with ErrProviderLinked and relinking requires an explicit flow.
type AccountLinker struct {
	users    UserStore
	accounts AccountStore
	hasher   Hasher
	nickSalt string
	logger   *slog.Logger
}

// LinkerOption configures an AccountLinker.
type LinkerOption func(*AccountLinker)

// WithLinkerLogger sets a custom logger.
func WithLinkerLogger(l *slog.Logger) LinkerOption {
	return func(a *AccountLinker) {
		a.logger = l
	}
}

// NewAccountLinker creates an account linking engine. nickSalt feeds
// the placeholder display-name derivation for profiles without a name.
func NewAccountLinker(users UserStore, accounts AccountStore, hasher Hasher, nickSalt string, opts ...LinkerOption) *AccountLinker {
	a := &AccountLinker{
		users:    users,
		accounts: accounts,
		hasher:   hasher,
		nickSalt: nickSalt,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LinkOrCreate resolves a provider identity to a local user, creating
// the user and the linked account as needed, and refreshing the stored
// credential hash on every subsequent login.
//
// The find-then-create sequence is intentionally not transactional: the
// unique index on (provider, provider_account_id) is the real guard,
// and a lost race is retried once as an update.
func (a *AccountLinker) LinkOrCreate(ctx context.Context, provider Provider, providerAccountID, accessToken string, profile ProviderProfile) (*User, error) {
	email := sanitizer.NormalizeEmail(profile.Email)

	user, err := a.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, ErrUserNotFound):
		user, err = a.createFromProfile(ctx, email, profile)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	credentialHash, err := a.hasher.Hash(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to hash provider credential: %w", err)
	}

	if err := a.upsertLink(ctx, user.ID, provider, providerAccountID, credentialHash); err != nil {
		return nil, err
	}

	return user, nil
}

func (a *AccountLinker) createFromProfile(ctx context.Context, email string, profile ProviderProfile) (*User, error) {
	id := uuid.New()

	name := profile.Name
	if name == "" {
		name = placeholderName(id, a.nickSalt)
	}

	// The provider vouches for the email, so the account starts verified.
	user := &User{
		ID:            id,
		Email:         email,
		Name:          name,
		AvatarURL:     profile.AvatarURL,
		EmailVerified: true,
		CreatedAt:     time.Now(),
	}

	if err := a.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user from provider profile: %w", err)
	}

	a.logger.InfoContext(ctx, "user created from provider profile",
		logger.UserID(user.ID.String()),
		logger.Component("linker"),
	)

	return user, nil
}

func (a *AccountLinker) upsertLink(ctx context.Context, userID uuid.UUID, provider Provider, providerAccountID, credentialHash string) error {
	account, err := a.accounts.GetLinkedAccount(ctx, provider, providerAccountID)
	switch {
	case err == nil:
		if account.UserID != userID {
			return ErrProviderLinked
		}
		if err := a.accounts.UpdateLinkedAccountCredential(ctx, account.ID, credentialHash); err != nil {
			return fmt.Errorf("failed to refresh provider credential: %w", err)
		}
		return nil

	case errors.Is(err, ErrAccountNotFound):
		createErr := a.accounts.CreateLinkedAccount(ctx, &LinkedAccount{
			ID:                uuid.New(),
			UserID:            userID,
			Provider:          provider,
			ProviderAccountID: providerAccountID,
			CredentialHash:    credentialHash,
			CreatedAt:         time.Now(),
		})
		if createErr == nil {
			return nil
		}
		if !errors.Is(createErr, ErrAccountExists) {
			return fmt.Errorf("failed to create linked account: %w", createErr)
		}

		// Lost the creation race: a concurrent callback inserted the
		// same provider identity first. Re-read and treat as update.
		account, err = a.accounts.GetLinkedAccount(ctx, provider, providerAccountID)
		if err != nil {
			return fmt.Errorf("failed to re-read linked account after race: %w", err)
		}
		if account.UserID != userID {
			return ErrProviderLinked
		}
		if err := a.accounts.UpdateLinkedAccountCredential(ctx, account.ID, credentialHash); err != nil {
			return fmt.Errorf("failed to refresh provider credential: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("failed to look up linked account: %w", err)
	}
}

// placeholderName derives a stable display name for accounts created
// without one: "user_" plus the first 12 hex chars of sha256(id+salt).
func placeholderName(id uuid.UUID, salt string) string {
	sum := sha256.Sum256([]byte(id.String() + salt))
	return "user_" + hex.EncodeToString(sum[:])[:12]
}
