package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vabase/identity/pkg/logger"
	"github.com/vabase/identity/pkg/sanitizer"
	"github.com/vabase/identity/pkg/validator"
)

const (
	// DefaultStateTTL bounds how long an authorization attempt may stay
	// in flight before its state expires.
	DefaultStateTTL = 10 * time.Minute

	stateLength = 32
)

// Mailer is the outbound-mail collaborator. Delivery is fire-and-forget
// and never load-bearing for the auth flow's success.
type Mailer interface {
	SendWelcomeEmail(ctx context.Context, to, rawToken string) error
	SendPasswordResetEmail(ctx context.Context, to, rawToken string) error
}

// Service is the top-level auth orchestrator: password login and
// registration, token refresh, provider callbacks, and the
// verification-token flows built on top of them.
type Service struct {
	users        UserStore
	states       StateStore
	issuer       *TokenIssuer
	verification *VerificationService
	linker       *AccountLinker
	hasher       Hasher
	adapters     map[Provider]ProviderAdapter
	mailer       Mailer
	logger       *slog.Logger
	stateTTL     time.Duration
	nickSalt     string

	passwordStrength validator.PasswordStrengthConfig
}

// Option configures the Service during construction.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithHasher overrides the default argon2id hasher.
func WithHasher(h Hasher) Option {
	return func(s *Service) {
		s.hasher = h
	}
}

// WithMailer wires the outbound-mail collaborator. Without it,
// registration and password-reset flows skip mail delivery.
func WithMailer(m Mailer) Option {
	return func(s *Service) {
		s.mailer = m
	}
}

// WithStateTTL overrides the TTL for OAuth state values.
func WithStateTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.stateTTL = ttl
	}
}

// WithProviderAdapter registers an identity provider.
func WithProviderAdapter(a ProviderAdapter) Option {
	return func(s *Service) {
		s.adapters[a.Provider()] = a
	}
}

// WithPasswordStrength overrides the password policy.
func WithPasswordStrength(cfg validator.PasswordStrengthConfig) Option {
	return func(s *Service) {
		s.passwordStrength = cfg
	}
}

// WithNicknameSalt sets the salt for placeholder display names.
func WithNicknameSalt(salt string) Option {
	return func(s *Service) {
		s.nickSalt = salt
	}
}

// NewService creates the auth orchestrator.
func NewService(
	users UserStore,
	accounts AccountStore,
	tokens TokenStore,
	states StateStore,
	tokenSecret string,
	opts ...Option,
) *Service {
	s := &Service{
		users:            users,
		states:           states,
		issuer:           NewTokenIssuer(tokenSecret),
		adapters:         make(map[Provider]ProviderAdapter),
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		stateTTL:         DefaultStateTTL,
		passwordStrength: validator.DefaultPasswordStrength(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.hasher == nil {
		s.hasher = NewArgon2Hasher()
	}

	s.verification = NewVerificationService(tokens, tokenSecret,
		WithVerificationLogger(s.logger),
	)
	s.linker = NewAccountLinker(users, accounts, s.hasher, s.nickSalt,
		WithLinkerLogger(s.logger),
	)

	return s
}

// Issuer exposes the token issuer for boundary middleware that needs to
// verify access tokens.
func (s *Service) Issuer() *TokenIssuer { return s.issuer }

// Verification exposes the verification token service, primarily for
// the background sweeper.
func (s *Service) Verification() *VerificationService { return s.verification }

// Login authenticates an email/password pair and issues a token pair.
// Every failure collapses into ErrInvalidCredentials so responses do
// not reveal whether the email is registered.
func (s *Service) Login(ctx context.Context, email, password string) (*User, TokenPair, error) {
	email = sanitizer.NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	// Provider-only accounts have no password to check.
	if user.PasswordHash == "" {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issuer.IssuePair(user.ID)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return user, pair, nil
}

// Register creates a password account, issues a token pair, and fires a
// welcome email carrying an email-verification token.
func (s *Service) Register(ctx context.Context, email, password string) (*User, TokenPair, error) {
	email = sanitizer.NormalizeEmail(email)

	if err := validator.Apply(
		validator.ValidEmail("email", email),
		validator.StrongPassword("password", password, s.passwordStrength),
	); err != nil {
		return nil, TokenPair{}, err
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, TokenPair{}, ErrEmailAlreadyExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, TokenPair{}, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.New()
	user := &User{
		ID:            id,
		Email:         email,
		PasswordHash:  hash,
		Name:          placeholderName(id, s.nickSalt),
		EmailVerified: false,
		CreatedAt:     time.Now(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, TokenPair{}, ErrEmailAlreadyExists
		}
		return nil, TokenPair{}, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.issuer.IssuePair(user.ID)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.sendAsync(user, "welcome email", func(ctx context.Context) error {
		raw, err := s.verification.Generate(ctx, user.ID, PurposeEmailVerification)
		if err != nil {
			return err
		}
		return s.mailer.SendWelcomeEmail(ctx, user.Email, raw)
	})

	return user, pair, nil
}

// Refresh verifies a refresh token and issues a fresh pair. Refresh
// tokens are not rotated or invalidated on use; reuse within the TTL is
// allowed by design.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*User, TokenPair, error) {
	userID, err := s.issuer.Verify(refreshToken)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidToken
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, TokenPair{}, ErrUserNotFound
		}
		return nil, TokenPair{}, fmt.Errorf("failed to load user: %w", err)
	}

	pair, err := s.issuer.IssuePair(user.ID)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return user, pair, nil
}

// AuthURL starts a provider flow: generates the state (and the PKCE
// verifier when required), stores them bound together, and returns the
// authorization URL to redirect to.
func (s *Service) AuthURL(ctx context.Context, provider Provider) (string, error) {
	adapter, ok := s.adapters[provider]
	if !ok {
		return "", ErrUnsupportedProvider
	}

	state, err := GenerateState(stateLength)
	if err != nil {
		return "", err
	}

	var verifier string
	if adapter.RequiresPKCE() {
		if verifier, err = GenerateVerifier(); err != nil {
			return "", err
		}
	}

	if err := s.states.StoreState(ctx, state, verifier, s.stateTTL); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}

	return adapter.AuthCodeURL(state, verifier), nil
}

// ProviderCallback finishes a provider flow: consumes the single-use
// state, exchanges the code, fetches the profile, links or creates the
// local account, and issues a token pair.
func (s *Service) ProviderCallback(ctx context.Context, provider Provider, code, state string) (*User, TokenPair, error) {
	adapter, ok := s.adapters[provider]
	if !ok {
		return nil, TokenPair{}, ErrUnsupportedProvider
	}

	// The state must match one this server generated for an in-flight
	// attempt; consuming it makes replayed callbacks fail.
	verifier, err := s.states.ConsumeState(ctx, state)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return nil, TokenPair{}, ErrStateMismatch
		}
		return nil, TokenPair{}, fmt.Errorf("failed to validate oauth state: %w", err)
	}

	token, err := adapter.Exchange(ctx, code, verifier)
	if err != nil {
		if errors.Is(err, ErrProviderExchangeFailed) {
			return nil, TokenPair{}, err
		}
		return nil, TokenPair{}, fmt.Errorf("%w: %w", ErrProviderExchangeFailed, err)
	}

	// Profile fetch failures are not retried; the user re-initiates.
	profile, err := adapter.FetchProfile(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNoVerifiedEmail) {
			return nil, TokenPair{}, ErrNoVerifiedEmail
		}
		return nil, TokenPair{}, fmt.Errorf("failed to fetch provider profile: %w", err)
	}

	if profile.Email == "" || !profile.EmailVerified {
		return nil, TokenPair{}, ErrNoVerifiedEmail
	}

	user, err := s.linker.LinkOrCreate(ctx, provider, profile.ProviderAccountID, token.AccessToken, profile)
	if err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.issuer.IssuePair(user.ID)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "provider login completed",
		logger.UserID(user.ID.String()),
		logger.Provider(string(provider)),
		logger.Component("auth"),
	)

	return user, pair, nil
}

// VerifyEmail validates an email-verification token, marks the user
// verified, and consumes the token.
func (s *Service) VerifyEmail(ctx context.Context, rawToken string) (*User, error) {
	claims, err := s.verification.Validate(ctx, rawToken, PurposeEmailVerification)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if user.EmailVerified {
		return nil, ErrEmailAlreadyVerified
	}

	if err := s.users.SetEmailVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to mark email verified: %w", err)
	}
	user.EmailVerified = true

	if err := s.verification.Consume(ctx, claims.UserID, claims.Purpose); err != nil {
		return nil, err
	}

	return user, nil
}

// RequestPasswordReset issues a password-reset token for the account
// and mails the reset link. The boundary should respond identically
// whether or not the email exists.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = sanitizer.NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	s.sendAsync(user, "password reset email", func(ctx context.Context) error {
		raw, err := s.verification.Generate(ctx, user.ID, PurposePasswordReset)
		if err != nil {
			return err
		}
		return s.mailer.SendPasswordResetEmail(ctx, user.Email, raw)
	})

	return nil
}

// ResetPassword validates a password-reset token, stores the new
// password hash, and consumes the token.
func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) (*User, error) {
	if err := validator.Apply(
		validator.StrongPassword("password", newPassword, s.passwordStrength),
	); err != nil {
		return nil, err
	}

	claims, err := s.verification.Validate(ctx, rawToken, PurposePasswordReset)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.SetPasswordHash(ctx, claims.UserID, hash); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.verification.Consume(ctx, claims.UserID, claims.Purpose); err != nil {
		return nil, err
	}

	return s.users.GetUserByID(ctx, claims.UserID)
}

// sendAsync runs a mail delivery in the background with a bounded
// timeout. Failures are logged, never surfaced: mail is not
// load-bearing for the auth flow.
func (s *Service) sendAsync(user *User, what string, fn func(ctx context.Context) error) {
	if s.mailer == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("mail delivery panicked",
					logger.UserID(user.ID.String()),
					slog.Any("panic", r),
					logger.Component("auth"),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.logger.Error("failed to send "+what,
				logger.UserID(user.ID.String()),
				logger.Error(err),
				logger.Component("auth"),
			)
		}
	}()
}
