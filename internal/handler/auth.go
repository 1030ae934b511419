package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/vabase/identity/pkg/auth"
	"github.com/vabase/identity/pkg/logger"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, pair, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	h.writeJSON(w, http.StatusCreated, newTokenResponse(user, pair))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, pair, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	h.writeJSON(w, http.StatusOK, newTokenResponse(user, pair))
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		h.writeError(w, r, auth.ErrInvalidToken)
		return
	}

	user, pair, err := h.svc.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.clearRefreshCookie(w)
		h.writeError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	h.writeJSON(w, http.StatusOK, newTokenResponse(user, pair))
}

func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	// Tokens are stateless; logout only clears the client's cookie.
	h.clearRefreshCookie(w)
	h.writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) oauthStart(w http.ResponseWriter, r *http.Request) {
	provider := auth.Provider(chi.URLParam(r, "provider"))

	authURL, err := h.svc.AuthURL(r.Context(), provider)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

func (h *Handler) oauthCallback(w http.ResponseWriter, r *http.Request) {
	provider := auth.Provider(chi.URLParam(r, "provider"))
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		h.writeError(w, r, auth.ErrStateMismatch)
		return
	}

	user, pair, err := h.svc.ProviderCallback(r.Context(), provider, code, state)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "oauth callback completed",
		logger.Provider(string(provider)),
		logger.UserID(user.ID.String()),
		logger.Component("handler"),
	)

	h.setRefreshCookie(w, pair.RefreshToken)

	dest, err := url.Parse(h.cfg.OAuthSuccessURL)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := dest.Query()
	q.Set("access_token", pair.AccessToken)
	dest.RawQuery = q.Encode()

	http.Redirect(w, r, dest.String(), http.StatusTemporaryRedirect)
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.VerifyEmail(r.Context(), req.Token)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, userResponse{
		ID:            user.ID.String(),
		Email:         user.Email,
		Name:          user.Name,
		AvatarURL:     user.AvatarURL,
		EmailVerified: user.EmailVerified,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	// The response is identical whether or not the account exists, so
	// the endpoint cannot be used to probe registered emails.
	if err := h.svc.RequestPasswordReset(r.Context(), req.Email); err != nil &&
		!errors.Is(err, auth.ErrUserNotFound) {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "if the account exists, a reset link has been sent",
	})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, pair, err := h.resetAndLogin(r, req.Token, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	h.writeJSON(w, http.StatusOK, newTokenResponse(user, pair))
}

// resetAndLogin completes a password reset and signs the user in with a
// fresh pair so the client does not need a second round trip.
func (h *Handler) resetAndLogin(r *http.Request, token, password string) (*auth.User, auth.TokenPair, error) {
	user, err := h.svc.ResetPassword(r.Context(), token, password)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	pair, err := h.svc.Issuer().IssuePair(user.ID)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return user, pair, nil
}
