package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
)

const stateCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateVerifier produces a PKCE code verifier: 32 cryptographically
// random bytes, hex-encoded.
func GenerateVerifier() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate pkce verifier: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Challenge derives the S256 code challenge for a verifier:
// base64url(SHA-256(verifier)) with padding stripped. Deterministic by
// construction so the provider can re-derive it at exchange time.
func Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// GenerateState produces a random alphanumeric state string of the
// given length for CSRF protection on the OAuth callback. Each value is
// single-use and bound to one authorization attempt.
func GenerateState(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(stateCharset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate state: %w", err)
		}
		out[i] = stateCharset[n.Int64()]
	}
	return string(out), nil
}
