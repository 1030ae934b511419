package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("store and consume", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStateStore()
		require.NoError(t, store.StoreState(ctx, "state-1", "verifier-1", time.Minute))

		verifier, err := store.ConsumeState(ctx, "state-1")
		require.NoError(t, err)
		assert.Equal(t, "verifier-1", verifier)
	})

	t.Run("consume is single use", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStateStore()
		require.NoError(t, store.StoreState(ctx, "state-1", "verifier-1", time.Minute))

		_, err := store.ConsumeState(ctx, "state-1")
		require.NoError(t, err)

		_, err = store.ConsumeState(ctx, "state-1")
		assert.ErrorIs(t, err, ErrStateNotFound)
	})

	t.Run("unknown state", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStateStore()
		_, err := store.ConsumeState(ctx, "never-stored")
		assert.ErrorIs(t, err, ErrStateNotFound)
	})

	t.Run("expired state", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStateStore()
		require.NoError(t, store.StoreState(ctx, "state-1", "verifier-1", -time.Second))

		_, err := store.ConsumeState(ctx, "state-1")
		assert.ErrorIs(t, err, ErrStateNotFound)
	})

	t.Run("empty verifier round trips", func(t *testing.T) {
		t.Parallel()

		// Providers without PKCE store an empty verifier with the state.
		store := NewMemoryStateStore()
		require.NoError(t, store.StoreState(ctx, "state-1", "", time.Minute))

		verifier, err := store.ConsumeState(ctx, "state-1")
		require.NoError(t, err)
		assert.Empty(t, verifier)
	})
}
