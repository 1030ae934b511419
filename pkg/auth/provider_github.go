package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GithubOAuthConfig holds configuration for the GitHub OAuth provider.
type GithubOAuthConfig struct {
	ClientID     string   `env:"GITHUB_CLIENT_ID,required"`
	ClientSecret string   `env:"GITHUB_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GITHUB_REDIRECT_URL,required"`
	Scopes       []string `env:"GITHUB_SCOPES" envSeparator:"," envDefault:"user:email"`
}

type githubAdapter struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewGithubAdapter creates a GitHub provider adapter.
func NewGithubAdapter(cfg GithubOAuthConfig) ProviderAdapter {
	return &githubAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     github.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *githubAdapter) Provider() Provider { return ProviderGithub }

func (a *githubAdapter) RequiresPKCE() bool { return false }

func (a *githubAdapter) AuthCodeURL(state, _ string) string {
	return a.conf.AuthCodeURL(state)
}

func (a *githubAdapter) Exchange(ctx context.Context, code, _ string) (*ProviderToken, error) {
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderExchangeFailed, err)
	}
	return &ProviderToken{AccessToken: tok.AccessToken}, nil
}

// FetchProfile loads the GitHub user and the emails endpoint; the
// /user payload alone does not carry verification status.
func (a *githubAdapter) FetchProfile(ctx context.Context, token *ProviderToken) (ProviderProfile, error) {
	var user ghUser
	if err := a.getJSON(ctx, "https://api.github.com/user", token.AccessToken, &user); err != nil {
		return ProviderProfile{}, fmt.Errorf("fetch github user: %w", err)
	}

	var emails []ghEmail
	if err := a.getJSON(ctx, "https://api.github.com/user/emails", token.AccessToken, &emails); err != nil {
		return ProviderProfile{}, fmt.Errorf("fetch github emails: %w", err)
	}

	var email string

	// Prefer the primary verified address, fall back to any verified one.
	for _, e := range emails {
		if e.Primary && e.Verified {
			email = e.Email
			break
		}
	}
	if email == "" {
		for _, e := range emails {
			if e.Verified {
				email = e.Email
				break
			}
		}
	}

	if email == "" {
		return ProviderProfile{}, ErrNoVerifiedEmail
	}

	return ProviderProfile{
		ProviderAccountID: strconv.FormatInt(user.ID, 10),
		Email:             email,
		EmailVerified:     true,
		Name:              user.Name,
		AvatarURL:         user.AvatarURL,
	}, nil
}

func (a *githubAdapter) getJSON(ctx context.Context, url, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type ghUser struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type ghEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

var _ ProviderAdapter = (*githubAdapter)(nil)
