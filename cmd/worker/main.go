// Package main provides the entrypoint for the cache refresh worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/takemehome/takemehome/internal/commute"
	"github.com/takemehome/takemehome/internal/config"
	"github.com/takemehome/takemehome/internal/drivetime"
	"github.com/takemehome/takemehome/internal/drivetime/googledirections"
	"github.com/takemehome/takemehome/internal/ferry"
	"github.com/takemehome/takemehome/internal/ferry/wsdot"
	"github.com/takemehome/takemehome/internal/provider/resilience"
	"github.com/takemehome/takemehome/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "takemehome-worker"

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting take-me-home worker")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	port := os.Getenv("WORKER_PORT")
	if port == "" {
		port = "3001"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Planner: buildPlanner(cfg, log),
		Logger:  log,
	})

	// Health endpoint so the worker can run behind the same probes as
	// the API.
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","version":%q}`, Version)
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

	go job.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
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
