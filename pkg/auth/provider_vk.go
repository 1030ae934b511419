package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/vk"
)

// VKOAuthConfig holds configuration for the VK OAuth provider. VK
// requires the authorization-code-with-PKCE flow.
type VKOAuthConfig struct {
	ClientID     string `env:"VK_CLIENT_ID,required"`
	ClientSecret string `env:"VK_CLIENT_SECRET,required"`
	RedirectURL  string `env:"VK_REDIRECT_URL,required"`
	APIVersion   string `env:"VK_API_VERSION" envDefault:"5.131"`
}

type vkAdapter struct {
	conf       *oauth2.Config
	apiVersion string
	httpClient *http.Client
}

// NewVKAdapter creates a VK provider adapter.
func NewVKAdapter(cfg VKOAuthConfig) ProviderAdapter {
	return &vkAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"email"},
			Endpoint:     vk.Endpoint,
		},
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *vkAdapter) Provider() Provider { return ProviderVK }

func (a *vkAdapter) RequiresPKCE() bool { return true }

// AuthCodeURL binds the authorization request to the S256 challenge
// derived from the flow's verifier.
func (a *vkAdapter) AuthCodeURL(state, verifier string) string {
	return a.conf.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", Challenge(verifier)),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Exchange trades the code for a token, presenting the PKCE verifier.
// VK returns the account email in the token response, not the API.
func (a *vkAdapter) Exchange(ctx context.Context, code, verifier string) (*ProviderToken, error) {
	tok, err := a.conf.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", verifier),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderExchangeFailed, err)
	}

	email, _ := tok.Extra("email").(string)

	return &ProviderToken{AccessToken: tok.AccessToken, Email: email}, nil
}

// FetchProfile loads the VK user via users.get. The email from the
// token response is trusted as verified; VK confirms addresses before
// exposing them.
func (a *vkAdapter) FetchProfile(ctx context.Context, token *ProviderToken) (ProviderProfile, error) {
	if token.Email == "" {
		return ProviderProfile{}, ErrNoVerifiedEmail
	}

	q := url.Values{}
	q.Set("fields", "photo_200")
	q.Set("v", a.apiVersion)
	q.Set("access_token", token.AccessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://api.vk.com/method/users.get?"+q.Encode(), nil)
	if err != nil {
		return ProviderProfile{}, err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return ProviderProfile{}, fmt.Errorf("fetch vk profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ProviderProfile{}, fmt.Errorf("vk api returned status %d", resp.StatusCode)
	}

	var body vkUsersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ProviderProfile{}, fmt.Errorf("decode vk profile: %w", err)
	}
	if len(body.Response) == 0 {
		return ProviderProfile{}, fmt.Errorf("vk api returned empty users.get response")
	}

	u := body.Response[0]
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)

	return ProviderProfile{
		ProviderAccountID: strconv.FormatInt(u.ID, 10),
		Email:             token.Email,
		EmailVerified:     true,
		Name:              name,
		AvatarURL:         u.Photo200,
	}, nil
}

type vkUsersResponse struct {
	Response []vkUser `json:"response"`
}

type vkUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Photo200  string `json:"photo_200"`
}

var _ ProviderAdapter = (*vkAdapter)(nil)
