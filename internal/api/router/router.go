package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/resolvepay/resolvepay-platform/internal/http/handlers"
	httpmiddleware "github.com/resolvepay/resolvepay-platform/internal/http/middleware"
	"github.com/resolvepay/resolvepay-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	Outreach        *handlers.OutreachHandler
	EventStream     http.Handler
	MetricsHandler  http.Handler
	AdminAuthSecret string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.Outreach.HealthCheck)
		if cfg.MetricsHandler != nil {
			public.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
		}
		if cfg.EventStream != nil {
			public.Method(http.MethodGet, "/ws/events", cfg.EventStream)
		}
	})

	// Operator endpoints, JWT-guarded
	r.Route("/api/outreach", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		admin.Post("/refresh", cfg.Outreach.Refresh)
		admin.Post("/start", cfg.Outreach.Start)
		admin.Post("/stop", cfg.Outreach.Stop)
		admin.Get("/status", cfg.Outreach.Status)
		admin.Patch("/config", cfg.Outreach.UpdateConfig)
		admin.Delete("/queue/{customerID}", cfg.Outreach.RemoveCustomer)
		admin.Post("/sessions/{sessionID}/complete", cfg.Outreach.CompleteSession)
	})

	return r
}
