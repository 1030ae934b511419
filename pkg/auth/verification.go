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

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vabase/identity/pkg/logger"
)

// DefaultVerificationTokenTTL bounds how long a verification token is
// accepted.
const DefaultVerificationTokenTTL = 15 * time.Minute

// purposeClaims is the payload of a purpose-scoped verification token.
type purposeClaims struct {
	jwt.RegisteredClaims
	UserID  string  `json:"uid"`
	Purpose Purpose `json:"purpose"`
}

// VerificationClaims is the validated payload returned to callers.
type VerificationClaims struct {
	UserID  uuid.UUID
	Purpose Purpose
}

// VerificationService issues and validates single-use, purpose-scoped
// tokens. The raw signed token goes to the user (in a link); only its
// SHA-256 hash is persisted, together with an absolute expiry.
//
// Lifecycle per token: issued, then either consumed exactly once or
// swept after expiry.
type VerificationService struct {
	store    TokenStore
	secret   []byte
	tokenTTL time.Duration
	logger   *slog.Logger
}

// VerificationOption configures a VerificationService.
type VerificationOption func(*VerificationService)

// WithVerificationTTL overrides the token lifetime.
func WithVerificationTTL(ttl time.Duration) VerificationOption {
	return func(s *VerificationService) {
		s.tokenTTL = ttl
	}
}

// WithVerificationLogger sets a custom logger for the service.
func WithVerificationLogger(l *slog.Logger) VerificationOption {
	return func(s *VerificationService) {
		s.logger = l
	}
}

// NewVerificationService creates a verification token service signing
// with the given secret.
func NewVerificationService(store TokenStore, secret string, opts ...VerificationOption) *VerificationService {
	s := &VerificationService{
		store:    store,
		secret:   []byte(secret),
		tokenTTL: DefaultVerificationTokenTTL,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate issues a raw signed token embedding (userID, purpose) and
// persists its hashed record. Prior un-consumed tokens for the same
// pair are left in place; the last one validated wins.
func (s *VerificationService) Generate(ctx context.Context, userID uuid.UUID, purpose Purpose) (string, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, purposeClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:  userID.String(),
		Purpose: purpose,
	})

	raw, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign verification token: %w", err)
	}

	record := &VerificationToken{
		ID:        uuid.New(),
		UserID:    userID,
		Purpose:   purpose,
		TokenHash: hashToken(raw),
		ExpiresAt: expiresAt,
	}
	if err := s.store.CreateVerificationToken(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store verification token: %w", err)
	}

	return raw, nil
}

// Validate checks a raw token against expectedPurpose and the persisted
// record. The token's own exp claim is ignored: expiry is enforced via
// the stored record, because the two TTLs are allowed to diverge.
//
// Validate is non-destructive. Callers that intend single use must
// follow up with Consume.
func (s *VerificationService) Validate(ctx context.Context, rawToken string, expectedPurpose Purpose) (VerificationClaims, error) {
	claims := &purposeClaims{}

	token, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid {
		return VerificationClaims{}, ErrBadToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return VerificationClaims{}, ErrBadToken
	}

	if claims.Purpose != expectedPurpose {
		return VerificationClaims{}, ErrPurposeMismatch
	}

	if _, err := s.store.FindVerificationToken(ctx, userID, hashToken(rawToken), expectedPurpose); err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return VerificationClaims{}, ErrTokenExpired
		}
		return VerificationClaims{}, fmt.Errorf("failed to look up verification token: %w", err)
	}

	return VerificationClaims{UserID: userID, Purpose: claims.Purpose}, nil
}

// Consume deletes all persisted records for (userID, purpose), making
// previously validated tokens single-use in practice.
func (s *VerificationService) Consume(ctx context.Context, userID uuid.UUID, purpose Purpose) error {
	if err := s.store.DeleteVerificationTokens(ctx, userID, purpose); err != nil {
		return fmt.Errorf("failed to consume verification tokens: %w", err)
	}
	return nil
}

// Sweep deletes all records whose expiry has passed, whether or not
// they were ever validated. Returns the number of rows removed.
func (s *VerificationService) Sweep(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredVerificationTokens(ctx, time.Now())
}

// RunSweeper runs Sweep on the given interval until ctx is cancelled.
// Individual sweep failures are logged and swallowed so one bad cycle
// does not stop the schedule.
func (s *VerificationService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "verification token sweeper started",
		slog.Duration("interval", interval),
		logger.Component("verification"),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "verification token sweeper stopped",
				logger.Component("verification"),
			)
			return
		case <-ticker.C:
			deleted, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error("verification token sweep failed",
					logger.Error(err),
					logger.Component("verification"),
				)
				continue
			}
			s.logger.Info("verification token sweep completed",
				logger.Count(deleted),
				logger.Component("verification"),
			)
		}
	}
}

// hashToken computes the hex-encoded SHA-256 digest of a raw token.
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
