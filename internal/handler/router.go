package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/shopverse/shopverse/internal/middleware"
)

// RouterConfig wires handlers and middleware into the HTTP router.
type RouterConfig struct {
	Logger  *slog.Logger
	Root    *Handler
	Health  *HealthHandler
	Auth    *AuthHandler
	Profile *ProfileHandler
	Orders  *OrderHandler
	// Metrics is optional; nil leaves /metrics unrouted.
	Metrics *MetricsHandler

	Session   middleware.SessionConfig
	RateLimit middleware.RateLimitConfig
	Security  middleware.SecurityConfig
	CORS      middleware.CORSConfig

	// TrustForwardedHeaders takes the client address from X-Forwarded-For
	// or X-Real-IP. Leave it off unless a proxy in front rewrites them.
	TrustForwardedHeaders bool
}

// NewRouter configures the chi router with all routes and middleware.
// Every API route is also reachable under its legacy ".php" path.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	if cfg.TrustForwardedHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger, cfg.Session.Cookie))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.Security.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.Security.MaxRequestBodySize))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	if cfg.Metrics != nil {
		r.Get("/metrics", cfg.Metrics.Metrics)
	}

	r.Get("/", cfg.Root.Index)

	rateLimit := middleware.RateLimitAuth(cfg.RateLimit)
	for _, path := range []string{"/auth", "/auth.php"} {
		r.With(rateLimit).Post(path, cfg.Auth.Post)
		r.Get(path, cfg.Auth.Get)
	}

	// Session-protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(cfg.Session))

		for _, path := range []string{"/profile", "/profile.php"} {
			r.Get(path, cfg.Profile.Get)
			r.Put(path, cfg.Profile.Update)
		}
		for _, path := range []string{"/order-history", "/order-history.php"} {
			r.Get(path, cfg.Orders.Get)
		}
	})

	// 404 and 405 handlers
	r.NotFound(cfg.Root.NotFound)
	r.MethodNotAllowed(cfg.Root.MethodNotAllowed)

	return r
}
