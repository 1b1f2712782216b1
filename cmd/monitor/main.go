// Package main provides the standalone SailWatch monitoring daemon. It
// watches one route headlessly, without the API server, and exposes only a
// health endpoint for orchestration.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/sailwatch/sailwatch/internal/database"
	"github.com/sailwatch/sailwatch/internal/forecast"
	"github.com/sailwatch/sailwatch/internal/forecast/stormglass"
	"github.com/sailwatch/sailwatch/internal/monitor"
	"github.com/sailwatch/sailwatch/internal/notify/pubsub"
	"github.com/sailwatch/sailwatch/internal/route"
	"github.com/sailwatch/sailwatch/pkg/geo"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "sailwatch-monitor"

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SailWatch monitor")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	lat, err := strconv.ParseFloat(os.Getenv("VESSEL_LAT"), 64)
	if err != nil {
		log.Fatal().Msg("VESSEL_LAT must be set to the vessel's latitude")
	}
	lon, err := strconv.ParseFloat(os.Getenv("VESSEL_LON"), 64)
	if err != nil {
		log.Fatal().Msg("VESSEL_LON must be set to the vessel's longitude")
	}
	startPos := geo.Position{Lat: lat, Lon: lon}

	ctx := context.Background()
	tracker := route.NewTracker()

	// Load the watched route from postgres when one is configured.
	if routeID := os.Getenv("MONITOR_ROUTE_ID"); routeID != "" {
		pool, err := database.Connect(ctx, database.ConfigFromEnv())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()

		rt, err := route.NewPostgresStore(pool).GetRoute(ctx, routeID)
		if err != nil {
			log.Fatal().Err(err).Str("route_id", routeID).Msg("failed to load route")
		}
		tracker.SetRoute(rt)
		log.Info().
			Str("route_id", rt.ID).
			Str("route", rt.Name).
			Int("waypoints", len(rt.Waypoints)).
			Msg("route loaded")
	} else {
		log.Warn().Msg("MONITOR_ROUTE_ID not set - monitoring vessel position only")
	}

	forecastSvc := forecast.NewService(forecast.ServiceConfig{
		Provider: stormglass.NewClient(stormglass.ClientConfig{
			APIKey: os.Getenv("STORMGLASS_API_KEY"),
			Logger: log,
		}),
		Logger: log,
	})

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
	} else {
		log.Warn().Msg("PUBSUB_PROJECT_ID not set - alerts will not be dispatched")
	}

	cfg := monitor.DefaultConfig()
	if raw := os.Getenv("MONITOR_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal().Err(err).Msg("MONITOR_INTERVAL must be a duration like 6h or 30m")
		}
		cfg.Interval = interval
	}

	monitorSvc, err := monitor.NewService(monitor.ServiceConfig{
		Tracker:  tracker,
		Forecast: forecastSvc,
		Push:     push,
		SMS:      sms,
		Config:   cfg,
		Logger:   log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create monitoring service")
	}

	if err := monitorSvc.Start(ctx, startPos); err != nil {
		log.Fatal().Err(err).Msg("failed to start monitoring")
	}
	log.Info().
		Float64("lat", startPos.Lat).
		Float64("lon", startPos.Lon).
		Dur("interval", cfg.Interval).
		Msg("monitoring started")

	// Health endpoint for orchestration probes.
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"OK","version":%q,"running":%t}`, Version, monitorSvc.Running())
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down monitor")
	monitorSvc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("monitor stopped")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
