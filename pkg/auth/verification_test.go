package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVerificationService_Generate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	store := new(MockTokenStore)
	var stored *VerificationToken
	store.On("CreateVerificationToken", ctx, mock.AnythingOfType("*auth.VerificationToken")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*VerificationToken)
		}).
		Return(nil)

	svc := NewVerificationService(store, "test-secret")

	raw, err := svc.Generate(ctx, userID, PurposeEmailVerification)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	require.NotNil(t, stored)
	assert.Equal(t, userID, stored.UserID)
	assert.Equal(t, PurposeEmailVerification, stored.Purpose)
	// Only the hash is persisted, never the raw token.
	assert.NotEqual(t, raw, stored.TokenHash)
	assert.Equal(t, hashToken(raw), stored.TokenHash)
	assert.WithinDuration(t, time.Now().Add(DefaultVerificationTokenTTL), stored.ExpiresAt, 5*time.Second)

	store.AssertExpectations(t)
}

func TestVerificationService_Validate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()

		store := new(MockTokenStore)
		store.On("CreateVerificationToken", ctx, mock.Anything).Return(nil)
		svc := NewVerificationService(store, "test-secret")

		raw, err := svc.Generate(ctx, userID, PurposePasswordReset)
		require.NoError(t, err)

		store.On("FindVerificationToken", ctx, userID, hashToken(raw), PurposePasswordReset).
			Return(&VerificationToken{UserID: userID, Purpose: PurposePasswordReset}, nil)

		claims, err := svc.Validate(ctx, raw, PurposePasswordReset)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, PurposePasswordReset, claims.Purpose)
	})

	t.Run("purpose mismatch", func(t *testing.T) {
		t.Parallel()

		store := new(MockTokenStore)
		store.On("CreateVerificationToken", ctx, mock.Anything).Return(nil)
		svc := NewVerificationService(store, "test-secret")

		raw, err := svc.Generate(ctx, userID, PurposeEmailVerification)
		require.NoError(t, err)

		_, err = svc.Validate(ctx, raw, PurposePasswordReset)
		assert.ErrorIs(t, err, ErrPurposeMismatch)
		store.AssertNotCalled(t, "FindVerificationToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wrong signing secret", func(t *testing.T) {
		t.Parallel()

		store := new(MockTokenStore)
		store.On("CreateVerificationToken", ctx, mock.Anything).Return(nil)

		raw, err := NewVerificationService(store, "secret-a").Generate(ctx, userID, PurposeEmailVerification)
		require.NoError(t, err)

		_, err = NewVerificationService(store, "secret-b").Validate(ctx, raw, PurposeEmailVerification)
		assert.ErrorIs(t, err, ErrBadToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()

		svc := NewVerificationService(new(MockTokenStore), "test-secret")

		_, err := svc.Validate(ctx, "garbage", PurposeEmailVerification)
		assert.ErrorIs(t, err, ErrBadToken)
	})

	t.Run("record gone or expired", func(t *testing.T) {
		t.Parallel()

		store := new(MockTokenStore)
		store.On("CreateVerificationToken", ctx, mock.Anything).Return(nil)
		svc := NewVerificationService(store, "test-secret")

		raw, err := svc.Generate(ctx, userID, PurposeEmailVerification)
		require.NoError(t, err)

		store.On("FindVerificationToken", ctx, userID, hashToken(raw), PurposeEmailVerification).
			Return(nil, ErrTokenExpired)

		_, err = svc.Validate(ctx, raw, PurposeEmailVerification)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("stored record outlives the exp claim", func(t *testing.T) {
		t.Parallel()

		// The record decides expiry; a token whose own exp claim has
		// passed still validates while the record is alive.
		store := new(MockTokenStore)
		store.On("CreateVerificationToken", ctx, mock.Anything).Return(nil)
		svc := NewVerificationService(store, "test-secret", WithVerificationTTL(-time.Minute))

		raw, err := svc.Generate(ctx, userID, PurposeEmailVerification)
		require.NoError(t, err)

		store.On("FindVerificationToken", ctx, userID, hashToken(raw), PurposeEmailVerification).
			Return(&VerificationToken{UserID: userID, Purpose: PurposeEmailVerification}, nil)

		claims, err := svc.Validate(ctx, raw, PurposeEmailVerification)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})
}

func TestVerificationService_Consume(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	store := new(MockTokenStore)
	store.On("DeleteVerificationTokens", ctx, userID, PurposePasswordReset).Return(nil)

	svc := NewVerificationService(store, "test-secret")
	require.NoError(t, svc.Consume(ctx, userID, PurposePasswordReset))
	store.AssertExpectations(t)
}

func TestVerificationService_Sweep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	store := new(MockTokenStore)
	store.On("DeleteExpiredVerificationTokens", ctx, mock.AnythingOfType("time.Time")).
		Return(int64(3), nil)

	svc := NewVerificationService(store, "test-secret")
	deleted, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}

func TestVerificationService_RunSweeper(t *testing.T) {
	t.Parallel()

	store := new(MockTokenStore)
	store.On("DeleteExpiredVerificationTokens", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(int64(0), nil)

	svc := NewVerificationService(store, "test-secret")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		svc.RunSweeper(ctx, 10*time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
	store.AssertCalled(t, "DeleteExpiredVerificationTokens", mock.Anything, mock.AnythingOfType("time.Time"))
}
