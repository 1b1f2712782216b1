// Package main provides the entrypoint for the SailWatch API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/sailwatch/sailwatch/internal/api"
	"github.com/sailwatch/sailwatch/internal/api/handler"
	"github.com/sailwatch/sailwatch/internal/api/middleware"
	"github.com/sailwatch/sailwatch/internal/database"
	"github.com/sailwatch/sailwatch/internal/forecast"
	"github.com/sailwatch/sailwatch/internal/forecast/stormglass"
	"github.com/sailwatch/sailwatch/internal/monitor"
	"github.com/sailwatch/sailwatch/internal/nav"
	"github.com/sailwatch/sailwatch/internal/notify/pubsub"
	"github.com/sailwatch/sailwatch/internal/polar"
	"github.com/sailwatch/sailwatch/internal/route"
	"github.com/sailwatch/sailwatch/internal/sail"
	"github.com/sailwatch/sailwatch/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "sailwatch-api"

	// .env is for local development; absence is not an error.
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SailWatch API")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Polar model: file when configured, built-in defaults otherwise.
	model := polar.DefaultModel()
	if path := os.Getenv("POLAR_FILE"); path != "" {
		model, err = polar.LoadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("failed to load polar file")
		}
		log.Info().Str("path", path).Msg("polar model loaded")
	}
	advisor := sail.NewAdvisor(model)

	// Route store: postgres when DB_ENABLED=true, in-memory otherwise.
	var store route.Store
	var pool *pgxpool.Pool
	if os.Getenv("DB_ENABLED") == "true" {
		dbConfig := database.ConfigFromEnv()
		pool, err = database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")

		store = route.NewPostgresStore(pool)
	} else {
		store = route.NewInMemoryStore()
		log.Warn().Msg("DB_ENABLED not set - using in-memory route store")
	}

	tracker := route.NewTracker()

	forecastSvc := forecast.NewService(forecast.ServiceConfig{
		Provider: stormglass.NewClient(stormglass.ClientConfig{
			APIKey: os.Getenv("STORMGLASS_API_KEY"),
			Logger: log,
		}),
		Logger: log,
	})

	navSvc := nav.NewService(nav.ServiceConfig{
		Tracker: tracker,
		Advisor: advisor,
		Logger:  log,
	})

	// Alert dispatchers: Pub/Sub topics per channel when configured.
	var push, sms monitor.Dispatcher
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		pushPub, err := pubsub.NewPublisher(ctx, pubsub.PublisherConfig{
			ProjectID: projectID,
			TopicName: envOrDefault("PUBSUB_PUSH_TOPIC", "sailwatch-alerts-push"),
			Channel:   "push",
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create push publisher")
		}
		defer pushPub.Close()

		smsPub, err := pubsub.NewPublisher(ctx, pubsub.PublisherConfig{
			ProjectID: projectID,
			TopicName: envOrDefault("PUBSUB_SMS_TOPIC", "sailwatch-alerts-sms"),
			Channel:   "sms",
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create sms publisher")
		}
		defer smsPub.Close()

		push, sms = pushPub, smsPub
		log.Info().Str("project", projectID).Msg("alert publishers initialized")
	} else {
		log.Warn().Msg("PUBSUB_PROJECT_ID not set - alerts will not be dispatched")
	}

	monitorSvc, err := monitor.NewService(monitor.ServiceConfig{
		Tracker:  tracker,
		Forecast: forecastSvc,
		Push:     push,
		SMS:      sms,
		Logger:   log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create monitoring service")
	}
	defer monitorSvc.Stop()

	var pinger handler.Pinger
	if pool != nil {
		pinger = pool
	}

	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		DB:          pinger,
		Polar:       model,
		Advisor:     advisor,
		Tracker:     tracker,
		RouteStore:  store,
		Nav:         navSvc,
		Monitor:     monitorSvc,
		Forecast:    forecastSvc,
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
