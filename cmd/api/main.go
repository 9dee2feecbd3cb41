// Package main provides the entrypoint for the take-me-home API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/takemehome/takemehome/internal/api"
	"github.com/takemehome/takemehome/internal/api/middleware"
	"github.com/takemehome/takemehome/internal/commute"
	"github.com/takemehome/takemehome/internal/config"
	"github.com/takemehome/takemehome/internal/drivetime"
	"github.com/takemehome/takemehome/internal/drivetime/googledirections"
	"github.com/takemehome/takemehome/internal/ferry"
	"github.com/takemehome/takemehome/internal/ferry/wsdot"
	"github.com/takemehome/takemehome/internal/provider/resilience"
	"github.com/takemehome/takemehome/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "takemehome-api"

	// Load .env if present, real environment wins
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting take-me-home API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
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

	planner := buildPlanner(cfg, log)
	log.Info().
		Bool("schedule_configured", cfg.WSDOTAccessCode != "").
		Bool("directions_configured", cfg.GoogleMapsAPIKey != "").
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("commute planner initialized")

	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		Env:         cfg.Env,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		Planner:     planner,
		CacheTTL:    cfg.CacheTTL,
		RateLimit: middleware.RateLimitConfig{
			RequestLimit: cfg.RateLimit,
			WindowLength: cfg.RateLimitWindow,
		},
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
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

// buildPlanner wires the provider clients, domain services and catalog
// into the route composer.
func buildPlanner(cfg config.Config, log zerolog.Logger) *commute.Service {
	wsdotHTTPConfig := resilience.DefaultClientConfig(wsdot.ProviderName)
	wsdotHTTPConfig.Timeout = cfg.RequestTimeout
	scheduleClient := wsdot.NewClient(wsdot.ClientConfig{
		AccessCode: cfg.WSDOTAccessCode,
		HTTPClient: resilience.NewClient(wsdotHTTPConfig),
		Logger:     log,
	})

	directionsHTTPConfig := resilience.DefaultClientConfig(googledirections.ProviderName)
	directionsHTTPConfig.Timeout = cfg.RequestTimeout
	directionsClient := googledirections.NewClient(googledirections.ClientConfig{
		APIKey:     cfg.GoogleMapsAPIKey,
		HTTPClient: resilience.NewClient(directionsHTTPConfig),
		Logger:     log,
	})

	ferryService := ferry.NewService(ferry.ServiceConfig{
		Client:   scheduleClient,
		Logger:   log,
		CacheTTL: cfg.CacheTTL,
	})

	driveTimeService := drivetime.NewService(drivetime.ServiceConfig{
		Provider: directionsClient,
		Logger:   log,
		CacheTTL: cfg.CacheTTL,
	})

	catalog := commute.NewCatalog(commute.CatalogConfig{
		Home:                 cfg.Home,
		Destination:          cfg.Destination,
		EdmondsTerminalID:    cfg.EdmondsTerminalID,
		KingstonTerminalID:   cfg.KingstonTerminalID,
		SeattleTerminalID:    cfg.SeattleTerminalID,
		BainbridgeTerminalID: cfg.BainbridgeTerminalID,
		EdmondsTerminal:      cfg.EdmondsTerminal,
		KingstonTerminal:     cfg.KingstonTerminal,
		SeattleTerminal:      cfg.SeattleTerminal,
		BainbridgeTerminal:   cfg.BainbridgeTerminal,
		GigHarborWaypoint:    cfg.GigHarborWaypoint,
	})

	return commute.NewService(commute.ServiceConfig{
		Catalog:    catalog,
		DriveTimes: driveTimeService,
		Ferries:    ferryService,
		Logger:     log,
	})
}
