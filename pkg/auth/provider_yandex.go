package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/yandex"
)

// YandexOAuthConfig holds configuration for the Yandex OAuth provider.
type YandexOAuthConfig struct {
	ClientID     string `env:"YANDEX_CLIENT_ID,required"`
	ClientSecret string `env:"YANDEX_CLIENT_SECRET,required"`
	RedirectURL  string `env:"YANDEX_REDIRECT_URL,required"`
}

type yandexAdapter struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewYandexAdapter creates a Yandex provider adapter.
func NewYandexAdapter(cfg YandexOAuthConfig) ProviderAdapter {
	return &yandexAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     yandex.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *yandexAdapter) Provider() Provider { return ProviderYandex }

func (a *yandexAdapter) RequiresPKCE() bool { return false }

func (a *yandexAdapter) AuthCodeURL(state, _ string) string {
	return a.conf.AuthCodeURL(state)
}

func (a *yandexAdapter) Exchange(ctx context.Context, code, _ string) (*ProviderToken, error) {
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderExchangeFailed, err)
	}
	return &ProviderToken{AccessToken: tok.AccessToken}, nil
}

// FetchProfile loads the Yandex passport info. default_email is a real
// mailbox on the Yandex side, so it counts as verified.
func (a *yandexAdapter) FetchProfile(ctx context.Context, token *ProviderToken) (ProviderProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://login.yandex.ru/info?format=json", nil)
	if err != nil {
		return ProviderProfile{}, err
	}
	req.Header.Set("Authorization", "OAuth "+token.AccessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return ProviderProfile{}, fmt.Errorf("fetch yandex profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ProviderProfile{}, fmt.Errorf("yandex api returned status %d", resp.StatusCode)
	}

	var info yandexInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return ProviderProfile{}, fmt.Errorf("decode yandex profile: %w", err)
	}

	if info.DefaultEmail == "" {
		return ProviderProfile{}, ErrNoVerifiedEmail
	}

	name := info.RealName
	if name == "" {
		name = info.DisplayName
	}

	var avatar string
	if info.DefaultAvatarID != "" && !info.IsAvatarEmpty {
		avatar = fmt.Sprintf("https://avatars.yandex.net/get-yapic/%s/islands-200", info.DefaultAvatarID)
	}

	return ProviderProfile{
		ProviderAccountID: info.ID,
		Email:             info.DefaultEmail,
		EmailVerified:     true,
		Name:              name,
		AvatarURL:         avatar,
	}, nil
}

type yandexInfo struct {
	ID              string `json:"id"`
	DefaultEmail    string `json:"default_email"`
	RealName        string `json:"real_name"`
	DisplayName     string `json:"display_name"`
	DefaultAvatarID string `json:"default_avatar_id"`
	IsAvatarEmpty   bool   `json:"is_avatar_empty"`
}

var _ ProviderAdapter = (*yandexAdapter)(nil)
