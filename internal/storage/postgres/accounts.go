package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vabase/identity/pkg/auth"
	"github.com/vabase/identity/pkg/pg"
)

const accountColumns = `id, user_id, provider, provider_account_id, credential_hash, created_at`

// CreateLinkedAccount inserts a linked account. The unique index on
// (provider, provider_account_id) is the concurrency guard; violations
// surface as auth.ErrAccountExists.
func (s *Storage) CreateLinkedAccount(ctx context.Context, account *auth.LinkedAccount) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO linked_accounts (id, user_id, provider, provider_account_id, credential_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID, account.UserID, account.Provider, account.ProviderAccountID, account.CredentialHash, account.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrAccountExists
		}
		return fmt.Errorf("insert linked account: %w", err)
	}
	return nil
}

// GetLinkedAccount loads the account owning a provider identity.
func (s *Storage) GetLinkedAccount(ctx context.Context, provider auth.Provider, providerAccountID string) (*auth.LinkedAccount, error) {
	return s.scanAccount(s.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM linked_accounts WHERE provider = $1 AND provider_account_id = $2`,
		provider, providerAccountID))
}

// GetLinkedAccountByUser loads a user's account for one provider.
func (s *Storage) GetLinkedAccountByUser(ctx context.Context, userID uuid.UUID, provider auth.Provider) (*auth.LinkedAccount, error) {
	return s.scanAccount(s.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM linked_accounts WHERE user_id = $1 AND provider = $2`,
		userID, provider))
}

// UpdateLinkedAccountCredential refreshes the stored credential hash.
func (s *Storage) UpdateLinkedAccountCredential(ctx context.Context, id uuid.UUID, credentialHash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE linked_accounts SET credential_hash = $2 WHERE id = $1`, id, credentialHash)
	if err != nil {
		return fmt.Errorf("update linked account credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrAccountNotFound
	}
	return nil
}

func (s *Storage) scanAccount(row rowScanner) (*auth.LinkedAccount, error) {
	var a auth.LinkedAccount
	err := row.Scan(&a.ID, &a.UserID, &a.Provider, &a.ProviderAccountID, &a.CredentialHash, &a.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, fmt.Errorf("scan linked account: %w", err)
	}
	return &a, nil
}
