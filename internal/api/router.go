// Package api provides the HTTP API for SailWatch.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sailwatch/sailwatch/internal/api/handler"
	"github.com/sailwatch/sailwatch/internal/api/middleware"
	"github.com/sailwatch/sailwatch/internal/forecast"
	"github.com/sailwatch/sailwatch/internal/monitor"
	"github.com/sailwatch/sailwatch/internal/nav"
	"github.com/sailwatch/sailwatch/internal/polar"
	"github.com/sailwatch/sailwatch/internal/route"
	"github.com/sailwatch/sailwatch/internal/sail"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// DB is pinged by readiness and status checks; nil when running without
	// a database.
	DB handler.Pinger

	Polar      *polar.Model
	Advisor    *sail.Advisor
	Tracker    *route.Tracker
	RouteStore route.Store
	Nav        *nav.Service
	Monitor    *monitor.Service
	Forecast   *forecast.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "sailwatch-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB)
	adviceHandler := handler.NewAdviceHandler(cfg.Advisor, cfg.Polar)
	navHandler := handler.NewNavigationHandler(cfg.Nav, cfg.Tracker, cfg.RouteStore)
	routesHandler := handler.NewRoutesHandler(cfg.RouteStore)
	monitorHandler := handler.NewMonitorHandler(cfg.Monitor, cfg.Tracker, cfg.RouteStore)
	forecastHandler := handler.NewForecastHandler(cfg.Forecast)

	// Rate limit middleware per endpoint category
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (unthrottled, probed by orchestration)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Sail advice and polar queries
		r.With(standardRateLimit).Post("/advice", adviceHandler.Recommend)
		r.Route("/polar", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/speed", adviceHandler.PolarSpeed)
			r.Get("/targets", adviceHandler.PolarTargets)
		})

		// Live navigation
		r.Route("/navigation", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Post("/guidance", navHandler.Guidance)
			r.Post("/position", navHandler.UpdatePosition)
			r.Get("/progress", navHandler.Progress)
			r.Get("/route", navHandler.ActiveRoute)
			r.Put("/route", navHandler.ActivateRoute)
		})

		// Stored routes
		r.Route("/routes", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", routesHandler.ListRoutes)
			r.Get("/{routeId}", routesHandler.GetRoute)
		})

		// Route monitoring
		r.Route("/monitor", func(r chi.Router) {
			// Start runs a synchronous forecast cycle against the provider.
			r.With(expensiveRateLimit).Post("/start", monitorHandler.Start)
			r.With(standardRateLimit).Post("/stop", monitorHandler.Stop)
			r.With(standardRateLimit).Get("/status", monitorHandler.Status)
			r.With(standardRateLimit).Get("/alerts", monitorHandler.Alerts)
			r.With(standardRateLimit).Get("/history", monitorHandler.History)
			r.With(standardRateLimit).Get("/config", monitorHandler.GetConfig)
			r.With(standardRateLimit).Put("/config", monitorHandler.UpdateConfig)
			r.With(standardRateLimit).Post("/observations", monitorHandler.RecordObservation)
			r.With(standardRateLimit).Get("/accuracy", monitorHandler.Accuracy)
		})

		// Direct forecast queries - provider fan-out, strict rate limiting
		r.With(expensiveRateLimit).Get("/forecast", forecastHandler.Forecast)
	})

	return r
}
