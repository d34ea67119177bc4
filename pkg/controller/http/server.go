package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
	"github.com/umbrella-sec/umbrella/pkg/frontend"
	"github.com/umbrella-sec/umbrella/pkg/metrics"
	"github.com/umbrella-sec/umbrella/pkg/usecase"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates a new HTTP server wiring the dashboard routes
func NewServer(
	ctx context.Context,
	addr string,
	authUC usecase.AuthUseCase,
	alertsUC usecase.AlertsUseCase,
	dashboardCfg *model.DashboardConfig,
	mtr *metrics.Metrics,
) (*Server, error) {
	router := chi.NewRouter()
	authMiddleware := NewMiddleware(authUC)

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(mtr.Middleware)
	router.Use(middleware.Recoverer)

	renderer, err := frontend.New()
	if err != nil {
		return nil, err
	}

	authHandler := NewAuthHandler(authUC, mtr)
	alertsHandler := NewAlertsHandler(alertsUC, mtr)
	dashboardHandler := NewDashboardHandler(alertsUC, dashboardCfg, renderer)

	// Health check
	router.Get("/health", handleHealth)

	// Prometheus metrics
	router.Handle("/metrics", mtr.Handler())

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/refresh", authHandler.HandleRefresh)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAuth)
				r.Get("/me", authHandler.HandleMe)
			})
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Use(authMiddleware.RequireRole(types.RoleSupervisor))
			r.Get("/", alertsHandler.HandleList)
			r.Get("/stats", alertsHandler.HandleStats)
		})
	})

	// Ingestion webhook for the upstream pipeline
	router.Route("/hooks", func(r chi.Router) {
		r.Post("/alert", alertsHandler.HandleIngestHook)
	})

	// Server-rendered dashboard. It shows the same aggregates as the
	// stats API and carries the same access requirements.
	router.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Use(authMiddleware.RequireRole(types.RoleSupervisor))
		r.Get("/", dashboardHandler.HandleDashboard)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}

	return server, nil
}

// Router exposes the chi router for tests
func (s *Server) Router() chi.Router {
	return s.router
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "umbrella",
	})
}

// writeJSON writes a JSON response with the given status
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
	}
}

// writeError writes an error response with a status derived from the
// domain sentinel errors
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrInvalidAlert):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrInvalidCredentials), errors.Is(err, model.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, model.ErrAccountDeactivated):
		status = http.StatusForbidden
	case errors.Is(err, model.ErrUserNotFound), errors.Is(err, model.ErrAlertNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		ctxlog.From(ctx).Error("Request failed", "error", err)
	}

	writeJSON(ctx, w, status, map[string]string{
		"error": err.Error(),
	})
}
