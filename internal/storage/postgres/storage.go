// Package postgres implements the credential store on PostgreSQL via
// pgx/v5. One Storage value implements the auth package's UserStore,
// AccountStore, and TokenStore interfaces.
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vabase/identity/pkg/auth"
)

// Storage is the pgx-backed credential store.
type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage creates a Storage over an established connection pool.
func NewStorage(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

var (
	_ auth.UserStore    = (*Storage)(nil)
	_ auth.AccountStore = (*Storage)(nil)
	_ auth.TokenStore   = (*Storage)(nil)
)
