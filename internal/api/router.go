// Package api provides the HTTP API for the commute planner.
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/takemehome/takemehome/internal/api/handler"
	"github.com/takemehome/takemehome/internal/api/middleware"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	Env         string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	Planner     handler.Planner
	CacheTTL    time.Duration
	RateLimit   middleware.RateLimitConfig
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "takemehome-api"
	}

	rateLimit := cfg.RateLimit
	if rateLimit.RequestLimit == 0 {
		rateLimit = middleware.DefaultRateLimit
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.ContentTypeJSON)

	healthHandler := handler.NewHealthHandler(cfg.Version, cfg.Env, cfg.CacheTTL)
	routesHandler := handler.NewRoutesHandler(cfg.Planner, cfg.Logger)

	ipRateLimit := middleware.RateLimitByIP(rateLimit)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.HealthCheck)
		r.With(ipRateLimit).Get("/routes", routesHandler.GetRoutes)
	})

	return r
}
