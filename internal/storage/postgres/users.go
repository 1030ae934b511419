package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vabase/identity/pkg/auth"
	"github.com/vabase/identity/pkg/pg"
)

const userColumns = `id, email, password_hash, name, avatar_url, email_verified, created_at`

// CreateUser inserts a user record. A duplicate email surfaces as
// auth.ErrEmailAlreadyExists.
func (s *Storage) CreateUser(ctx context.Context, user *auth.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, avatar_url, email_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.AvatarURL, user.EmailVerified, user.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByID loads a user by primary key.
func (s *Storage) GetUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetUserByEmail loads a user by unique email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// SetEmailVerified marks the user's email as verified.
func (s *Storage) SetEmailVerified(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET email_verified = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update email_verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// SetPasswordHash replaces the user's stored password hash.
func (s *Storage) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("update password_hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Storage) scanUser(row rowScanner) (*auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.AvatarURL, &u.EmailVerified, &u.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
