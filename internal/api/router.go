package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/donamatch/internal/model"
	"github.com/erazemk/donamatch/internal/service"
)

// Options configures the router beyond the service itself.
type Options struct {
	// AllowedOrigins enables CORS for browser clients. Empty disables it.
	AllowedOrigins []string
	// Gatherer backs GET /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(svc.Metrics))
	r.Use(middleware.Recoverer)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodDelete,
				http.MethodOptions,
			},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", RequestIDHeader},
			ExposedHeaders: []string{RequestIDHeader},
			MaxAge:         300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DB.PingContext(r.Context()); err != nil {
			jsonError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	authHandler := &AuthHandler{Svc: svc}
	usersHandler := &UsersHandler{Svc: svc}
	donationsHandler := &DonationsHandler{Svc: svc}
	needsHandler := &NeedsHandler{Svc: svc}
	matchesHandler := &MatchesHandler{Svc: svc}
	reportsHandler := &ReportsHandler{Svc: svc}

	requireAdmin := RequireRole(model.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		// Public.
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Authenticated. Ownership rules are checked by the service.
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(svc))

			r.Post("/auth/logout", authHandler.Logout)
			r.Put("/auth/password", authHandler.ChangePassword)
			r.Get("/me", authHandler.Me)

			// Role gates run before body validation.
			r.With(RequireRole(model.RoleDonor)).Post("/donations", donationsHandler.Create)
			r.Get("/donations/search", donationsHandler.Search)
			r.Get("/donations/mine", donationsHandler.Mine)
			r.Get("/donations/{id}", donationsHandler.Get)
			r.Put("/donations/{id}", donationsHandler.Update)
			r.Delete("/donations/{id}", donationsHandler.Delete)
			r.Post("/donations/{id}/reports", donationsHandler.Report)
			r.Get("/donations/{id}/media", donationsHandler.ListMedia)
			r.Post("/donations/{id}/media", donationsHandler.UploadMedia)
			r.Get("/media/{id}", donationsHandler.GetMedia)

			r.Get("/needs", needsHandler.List)
			r.With(RequireRole(model.RoleRecipient)).Post("/needs", needsHandler.Create)
			r.Get("/needs/mine", needsHandler.Mine)
			r.Get("/needs/{id}", needsHandler.Get)
			r.Put("/needs/{id}", needsHandler.Update)
			r.Delete("/needs/{id}", needsHandler.Delete)

			// Admin only.
			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)

				r.Get("/donations", donationsHandler.List)
				r.Get("/donations/unmatched", donationsHandler.Unmatched)
				r.Post("/donations/{id}/toggle", donationsHandler.Toggle)
				r.Put("/donations/{id}/matched", donationsHandler.SetMatched)

				r.Get("/needs/unfulfilled", needsHandler.Unfulfilled)
				r.Post("/needs/{id}/toggle", needsHandler.Toggle)
				r.Put("/needs/{id}/status", needsHandler.SetStatus)

				r.Get("/matches", matchesHandler.List)
				r.Post("/matches", matchesHandler.Create)
				r.Get("/matches/{id}", matchesHandler.Get)

				r.Get("/reports", reportsHandler.List)
				r.Delete("/reports/{id}", reportsHandler.Resolve)

				r.Get("/admin/dashboard", matchesHandler.Dashboard)

				r.Get("/users", usersHandler.List)
				r.Get("/users/{id}", usersHandler.Get)
				r.Put("/users/{id}", usersHandler.Update)
				r.Put("/users/{id}/password", usersHandler.ResetPassword)
				r.Delete("/users/{id}", usersHandler.Delete)
			})
		})
	})

	return r
}
