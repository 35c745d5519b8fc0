package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fmckeffi/healthdesk/backend/internal/handler/admin"
	"github.com/fmckeffi/healthdesk/backend/internal/handler/chat"
	"github.com/fmckeffi/healthdesk/backend/internal/handler/professional"
	"github.com/fmckeffi/healthdesk/backend/internal/middleware"
	professionalModel "github.com/fmckeffi/healthdesk/backend/internal/model/professional"
	"github.com/fmckeffi/healthdesk/backend/pkg/utils"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies groups everything the router wires together.
type Dependencies struct {
	Chat           chat.Processor
	Auth           admin.Authenticator
	Professionals  professionalModel.Store
	DB             HealthChecker
	AllowedOrigins []string
	SessionCookie  string
	SecureCookie   bool
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(deps.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readiness(deps.DB))

	r.Route("/api", func(api chi.Router) {
		chat.New(deps.Chat, deps.AllowedOrigins).RegisterRoutes(api)

		api.Route("/admin", func(ar chi.Router) {
			admin.New(deps.Auth, deps.SessionCookie, deps.SecureCookie).RegisterRoutes(ar)

			ar.Group(func(protected chi.Router) {
				protected.Use(middleware.RequireAdmin(deps.Auth, deps.SessionCookie))
				professional.New(deps.Professionals).RegisterRoutes(protected)
			})
		})
	})

	return r
}

func readiness(db HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			utils.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"db":     "unhealthy: " + err.Error(),
			})
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok", "db": "ok"})
	}
}
