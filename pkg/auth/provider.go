package auth

import "context"

// ProviderToken is the result of exchanging an authorization code. Some
// providers (VK) return the account email in the token response rather
// than the profile API; adapters carry it here.
type ProviderToken struct {
	AccessToken string
	Email       string
}

// ProviderAdapter hides the provider-specific parts of an OAuth flow:
// building the authorization URL, exchanging the code, and normalizing
// the profile. The core service stays provider-agnostic.
type ProviderAdapter interface {
	Provider() Provider

	// RequiresPKCE reports whether the provider demands an
	// authorization-code-with-PKCE flow.
	RequiresPKCE() bool

	// AuthCodeURL builds the authorization URL. verifier is empty for
	// providers without PKCE.
	AuthCodeURL(state, verifier string) string

	// Exchange trades the authorization code for a provider access
	// token. Returns ErrProviderExchangeFailed on rejection.
	Exchange(ctx context.Context, code, verifier string) (*ProviderToken, error)

	// FetchProfile loads the normalized profile for the token. Returns
	// ErrNoVerifiedEmail when the provider cannot vouch for an address.
	FetchProfile(ctx context.Context, token *ProviderToken) (ProviderProfile, error)
}
