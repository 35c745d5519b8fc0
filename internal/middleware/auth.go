package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fmckeffi/healthdesk/backend/internal/service/session"
	"github.com/fmckeffi/healthdesk/backend/pkg/utils"
)

// SessionChecker resolves a session token.
type SessionChecker interface {
	Check(ctx context.Context, token string) (session.Session, error)
}

type sessionKey struct{}

// TokenFromRequest reads the bearer token, falling back to the named cookie.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookieName != "" {
		if cookie, err := r.Cookie(cookieName); err == nil {
			return cookie.Value
		}
	}
	return ""
}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session placed by RequireAdmin.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(session.Session)
	return s, ok
}

// RequireAdmin rejects requests without a live admin session.
func RequireAdmin(checker SessionChecker, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r, cookieName)
			if token == "" {
				utils.RespondError(w, http.StatusUnauthorized, "Admin authentication required")
				return
			}

			s, err := checker.Check(r.Context(), token)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "Admin authentication required")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}
