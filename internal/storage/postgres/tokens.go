package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vabase/identity/pkg/auth"
	"github.com/vabase/identity/pkg/pg"
)

// CreateVerificationToken inserts a hashed verification token record.
func (s *Storage) CreateVerificationToken(ctx context.Context, token *auth.VerificationToken) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO verification_tokens (id, user_id, purpose, token_hash, expires_at)
		VALUES ($1, $2, $3, $4, $5)`,
		token.ID, token.UserID, token.Purpose, token.TokenHash, token.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert verification token: %w", err)
	}
	return nil
}

// FindVerificationToken returns a matching non-expired record, or
// auth.ErrTokenExpired when none exists. Expiry is enforced here, in
// the query, rather than on the token's own exp claim.
func (s *Storage) FindVerificationToken(ctx context.Context, userID uuid.UUID, tokenHash string, purpose auth.Purpose) (*auth.VerificationToken, error) {
	var t auth.VerificationToken
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, purpose, token_hash, expires_at
		FROM verification_tokens
		WHERE user_id = $1 AND token_hash = $2 AND purpose = $3 AND expires_at > now()`,
		userID, tokenHash, purpose,
	).Scan(&t.ID, &t.UserID, &t.Purpose, &t.TokenHash, &t.ExpiresAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrTokenExpired
		}
		return nil, fmt.Errorf("select verification token: %w", err)
	}
	return &t, nil
}

// DeleteVerificationTokens removes all records for (userID, purpose).
func (s *Storage) DeleteVerificationTokens(ctx context.Context, userID uuid.UUID, purpose auth.Purpose) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM verification_tokens WHERE user_id = $1 AND purpose = $2`,
		userID, purpose)
	if err != nil {
		return fmt.Errorf("delete verification tokens: %w", err)
	}
	return nil
}

// DeleteExpiredVerificationTokens purges stale records regardless of
// whether they were ever validated.
func (s *Storage) DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM verification_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired verification tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
