package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// DefaultAccessTokenTTL keeps access tokens short-lived.
	DefaultAccessTokenTTL = time.Hour
	// DefaultRefreshTokenTTL gives refresh tokens a week.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// sessionClaims is the payload of access and refresh tokens. Both carry
// only the user id; tokens are stateless and verified by signature and
// expiry alone.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// TokenIssuer mints and verifies the signed access/refresh token pair.
// Revocation is not supported per token; rotating the signing secret is
// the only kill switch.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// IssuerOption configures a TokenIssuer.
type IssuerOption func(*TokenIssuer)

// WithAccessTokenTTL overrides the access token lifetime.
func WithAccessTokenTTL(ttl time.Duration) IssuerOption {
	return func(i *TokenIssuer) {
		i.accessTTL = ttl
	}
}

// WithRefreshTokenTTL overrides the refresh token lifetime.
func WithRefreshTokenTTL(ttl time.Duration) IssuerOption {
	return func(i *TokenIssuer) {
		i.refreshTTL = ttl
	}
}

// NewTokenIssuer creates an issuer signing with the given secret.
func NewTokenIssuer(secret string, opts ...IssuerOption) *TokenIssuer {
	i := &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  DefaultAccessTokenTTL,
		refreshTTL: DefaultRefreshTokenTTL,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// IssuePair mints a fresh access/refresh pair for the user.
func (i *TokenIssuer) IssuePair(userID uuid.UUID) (TokenPair, error) {
	access, err := i.sign(userID, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.sign(userID, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *TokenIssuer) sign(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID.String(),
	})
	return token.SignedString(i.secret)
}

// Verify checks signature and expiry and returns the embedded user id.
// Every failure mode collapses into ErrInvalidToken so the caller
// cannot distinguish a forged token from an expired one.
func (i *TokenIssuer) Verify(tokenString string) (uuid.UUID, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}
