// Package handler exposes the auth service over HTTP. Routes are
// mounted under /auth; the refresh token travels in an HttpOnly cookie
// while access tokens stay in response bodies.
package handler

import (
	"io"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vabase/identity/pkg/auth"
)

// Config holds the HTTP boundary settings.
type Config struct {
	// OAuthSuccessURL receives the browser after a completed provider
	// flow, with the access token attached as a query parameter.
	OAuthSuccessURL string `env:"OAUTH_SUCCESS_URL,required"`
	// CookieSecure should be true everywhere except local development.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`
	// RefreshCookieTTL matches the refresh token lifetime.
	RefreshCookieTTL time.Duration `env:"REFRESH_COOKIE_TTL" envDefault:"168h"`
}

// Handler wires the auth service into chi routes.
type Handler struct {
	svc    *auth.Service
	cfg    Config
	logger *slog.Logger
}

// New creates the HTTP handler around an auth service.
func New(svc *auth.Service, cfg Config, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{svc: svc, cfg: cfg, logger: log}
}

// Router builds the full route tree.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/login/access-token", h.refresh)
		r.Post("/logout", h.logout)

		r.Get("/oauth/{provider}", h.oauthStart)
		r.Get("/callback/{provider}", h.oauthCallback)

		r.Post("/verify-email", h.verifyEmail)
		r.Post("/password/forgot", h.forgotPassword)
		r.Post("/password/reset", h.resetPassword)
	})

	return r
}
