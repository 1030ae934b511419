package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_IssuePair(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret")
	userID := uuid.New()

	pair, err := issuer.IssuePair(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	got, err := issuer.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	got, err = issuer.Verify(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenIssuer_Verify(t *testing.T) {
	t.Parallel()

	t.Run("wrong secret rejected", func(t *testing.T) {
		t.Parallel()

		pair, err := NewTokenIssuer("secret-a").IssuePair(uuid.New())
		require.NoError(t, err)

		_, err = NewTokenIssuer("secret-b").Verify(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		t.Parallel()

		issuer := NewTokenIssuer("test-secret", WithAccessTokenTTL(-time.Minute))
		pair, err := issuer.IssuePair(uuid.New())
		require.NoError(t, err)

		_, err = issuer.Verify(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed token rejected", func(t *testing.T) {
		t.Parallel()

		issuer := NewTokenIssuer("test-secret")

		_, err := issuer.Verify("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)

		_, err = issuer.Verify("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
