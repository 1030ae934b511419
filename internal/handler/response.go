package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/vabase/identity/pkg/auth"
	"github.com/vabase/identity/pkg/logger"
	"github.com/vabase/identity/pkg/validator"
)

const refreshCookieName = "refresh_token"

type userResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

type errorResponse struct {
	Error  string                      `json:"error"`
	Fields []validator.ValidationError `json:"fields,omitempty"`
}

func newTokenResponse(user *auth.User, pair auth.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "Bearer",
		User: userResponse{
			ID:            user.ID.String(),
			Email:         user.Email,
			Name:          user.Name,
			AvatarURL:     user.AvatarURL,
			EmailVerified: user.EmailVerified,
		},
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", logger.Error(err), logger.Component("handler"))
	}
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// writeError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as an opaque 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "validation failed",
			Fields: verrs,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailAlreadyExists),
		errors.Is(err, auth.ErrEmailAlreadyVerified),
		errors.Is(err, auth.ErrProviderLinked):
		status = http.StatusConflict
	case errors.Is(err, auth.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, auth.ErrUnsupportedProvider):
		status = http.StatusNotFound
	case errors.Is(err, auth.ErrBadToken),
		errors.Is(err, auth.ErrPurposeMismatch),
		errors.Is(err, auth.ErrStateMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrTokenExpired):
		status = http.StatusGone
	case errors.Is(err, auth.ErrNoVerifiedEmail):
		status = http.StatusForbidden
	case errors.Is(err, auth.ErrProviderExchangeFailed):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			logger.Error(err),
			logger.Component("handler"),
		)
		h.writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}

	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/auth",
		MaxAge:   int(h.cfg.RefreshCookieTTL / time.Second),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
