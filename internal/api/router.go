package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ricirt/accounts-api/internal/api/handler"
	apimw "github.com/ricirt/accounts-api/internal/api/middleware"
	"github.com/ricirt/accounts-api/internal/domain"
	"github.com/ricirt/accounts-api/internal/metrics"
	"github.com/ricirt/accounts-api/internal/service"
)

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
//
// Routes are split into a public group and an authenticated group; a route
// is exempt from authentication only by being registered in the public one.
func NewRouter(
	checker handler.HealthChecker,
	svc *service.UserService,
	limiter apimw.ClientLimiter,
	m *metrics.Metrics,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)           // recover panics, return 500
	r.Use(chimw.RealIP)              // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1 << 20)) // 1 MB max request body
	r.Use(apimw.CorrelationID)       // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(logger, m.ObserveRequest, "/health", "/metrics"))

	// --- handler instances ---
	hh := handler.NewHealthHandler(checker)
	uh := handler.NewUserHandler(svc, logger)

	// --- public routes: probes and scrapes must work without credentials ---
	r.Group(func(r chi.Router) {
		r.Get("/health", hh.Health)
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	})

	// --- authenticated routes ---
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apimw.RateLimit(limiter))
		r.Use(apimw.Authenticate(svc, logger, m.ObserveAuthFailure))

		r.Get("/me", uh.Me)

		r.With(apimw.RequireRole(domain.RoleAdmin)).Get("/users", uh.List)
	})

	return r
}
