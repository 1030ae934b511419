package auth

import "errors"

// General authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Token-related errors. ErrInvalidToken deliberately covers both bad
// signatures and expired tokens so callers cannot tell which check
// failed. ErrBadToken means the token was not even parseable.
var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrBadToken        = errors.New("malformed token")
	ErrPurposeMismatch = errors.New("token purpose mismatch")
	ErrTokenExpired    = errors.New("token has expired")
)

// OAuth-specific errors
var (
	ErrStateMismatch          = errors.New("oauth state mismatch")
	ErrStateNotFound          = errors.New("oauth state not found or expired")
	ErrProviderExchangeFailed = errors.New("provider code exchange failed")
	ErrNoVerifiedEmail        = errors.New("no verified email from provider")
	ErrProviderLinked         = errors.New("provider identity already linked to another account")
	ErrUnsupportedProvider    = errors.New("unsupported identity provider")
)

// Account state errors
var (
	ErrAccountNotFound      = errors.New("linked account not found")
	ErrAccountExists        = errors.New("linked account already exists")
	ErrEmailAlreadyVerified = errors.New("email is already verified")
)
