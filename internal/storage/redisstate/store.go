// Package redisstate implements the OAuth state store on Redis. State
// values are short-lived and single-use; GETDEL makes consumption
// atomic across replicas.
package redisstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vabase/identity/pkg/auth"
)

const keyPrefix = "oauth_state:"

// Store is the Redis-backed auth.StateStore.
type Store struct {
	client redis.UniversalClient
}

// NewStore creates a Store over an established Redis client.
func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

var _ auth.StateStore = (*Store)(nil)

// StoreState records a state value and its PKCE verifier (empty for
// providers without PKCE) under the given TTL.
func (s *Store) StoreState(ctx context.Context, state, verifier string, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+state, verifier, ttl).Err(); err != nil {
		return fmt.Errorf("store oauth state: %w", err)
	}
	return nil
}

// ConsumeState atomically retrieves and deletes the verifier stored for
// a state value. Unknown or expired states return auth.ErrStateNotFound.
func (s *Store) ConsumeState(ctx context.Context, state string) (string, error) {
	verifier, err := s.client.GetDel(ctx, keyPrefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", auth.ErrStateNotFound
		}
		return "", fmt.Errorf("consume oauth state: %w", err)
	}
	return verifier, nil
}
