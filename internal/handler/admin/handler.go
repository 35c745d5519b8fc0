// Package admin serves admin login, logout and session checks.
package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fmckeffi/healthdesk/backend/internal/middleware"
	"github.com/fmckeffi/healthdesk/backend/internal/service/auth"
	"github.com/fmckeffi/healthdesk/backend/internal/service/session"
	"github.com/fmckeffi/healthdesk/backend/pkg/utils"
)

// Authenticator is the subset of auth.Service used by the handler.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (session.Session, error)
	Logout(ctx context.Context, token string) error
	Check(ctx context.Context, token string) (session.Session, error)
}

// Handler serves the admin session endpoints.
type Handler struct {
	auth         Authenticator
	cookieName   string
	secureCookie bool
}

func New(authSvc Authenticator, cookieName string, secureCookie bool) *Handler {
	return &Handler{auth: authSvc, cookieName: cookieName, secureCookie: secureCookie}
}

// RegisterRoutes mounts /login, /logout and /session on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/session", h.handleSession)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSON(w, r, 16<<10, &payload); err != nil {
		utils.RespondFailure(w, http.StatusBadRequest, "Invalid JSON input")
		return
	}

	sess, err := h.auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		var loginErr *auth.LoginError
		if errors.As(err, &loginErr) {
			status := http.StatusBadRequest
			if loginErr.Code == auth.CodeIncorrectEmail || loginErr.Code == auth.CodeIncorrectPassword {
				status = http.StatusUnauthorized
			}
			utils.RespondJSON(w, status, map[string]any{
				"success":      false,
				"message":      loginErr.Message,
				"login_status": false,
				"error":        loginErr.Code,
			})
			return
		}
		log.Error().Err(err).Str("component", "admin").Msg("login failed")
		utils.RespondFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	utils.RespondSuccess(w, http.StatusOK, "Login successful", map[string]any{
		"admin_logged_in": true,
		"login_status":    true,
		"admin_id":        sess.AdminID,
		"email":           sess.Email,
		"token":           sess.Token,
		"expires_at":      sess.ExpiresAt,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r, h.cookieName)
	if err := h.auth.Logout(r.Context(), token); err != nil {
		log.Error().Err(err).Str("component", "admin").Msg("logout failed")
		utils.RespondFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	utils.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.auth.Check(r.Context(), middleware.TokenFromRequest(r, h.cookieName))
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Warn().Err(err).Str("component", "admin").Msg("session check failed")
		}
		utils.RespondSuccess(w, http.StatusOK, "Admin is not logged in", map[string]any{"logged_in": false})
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "Admin is logged in", map[string]any{
		"logged_in": true,
		"admin_id":  sess.AdminID,
		"email":     sess.Email,
	})
}
