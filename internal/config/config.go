// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/takemehome/takemehome/internal/drivetime"
)

// Config holds the full service configuration. It is loaded once at
// startup and passed down through constructors.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// Env is the deployment environment name.
	Env string

	// CacheTTL is the lifetime of schedule and drive-time cache entries.
	CacheTTL time.Duration

	// RequestTimeout bounds each upstream provider call.
	RequestTimeout time.Duration

	// RateLimit is the per-IP request allowance per RateLimitWindow.
	RateLimit int

	// RateLimitWindow is the rate limit window.
	RateLimitWindow time.Duration

	// WSDOTAccessCode is the ferry schedule API credential. Empty runs
	// the service in degraded mode.
	WSDOTAccessCode string

	// GoogleMapsAPIKey is the directions API credential. Empty disables
	// drive-time estimates.
	GoogleMapsAPIKey string

	EdmondsTerminalID    int
	KingstonTerminalID   int
	SeattleTerminalID    int
	BainbridgeTerminalID int

	// Home is the east-shore trip endpoint, Destination the one across
	// the sound.
	Home        drivetime.Coordinate
	Destination drivetime.Coordinate

	EdmondsTerminal    drivetime.Coordinate
	KingstonTerminal   drivetime.Coordinate
	SeattleTerminal    drivetime.Coordinate
	BainbridgeTerminal drivetime.Coordinate

	GigHarborWaypoint drivetime.Coordinate
}

// Load reads the configuration from environment variables, applying
// defaults for anything unset. Coordinate values are "lat,lon" strings.
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnvOrDefault("PORT", "3000"),
		Env:              getEnvOrDefault("APP_ENV", "development"),
		WSDOTAccessCode:  os.Getenv("WSDOT_ACCESS_CODE"),
		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
	}

	ttlSeconds, err := intEnv("CACHE_TTL_SECONDS", 300)
	if err != nil {
		return Config{}, err
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	timeoutMS, err := intEnv("REQUEST_TIMEOUT_MS", 8000)
	if err != nil {
		return Config{}, err
	}
	cfg.RequestTimeout = time.Duration(timeoutMS) * time.Millisecond

	if cfg.RateLimit, err = intEnv("RATE_LIMIT_PER_MINUTE", 60); err != nil {
		return Config{}, err
	}
	cfg.RateLimitWindow = time.Minute

	if cfg.EdmondsTerminalID, err = intEnv("EDMONDS_TERMINAL_ID", 8); err != nil {
		return Config{}, err
	}
	if cfg.KingstonTerminalID, err = intEnv("KINGSTON_TERMINAL_ID", 12); err != nil {
		return Config{}, err
	}
	if cfg.SeattleTerminalID, err = intEnv("SEATTLE_TERMINAL_ID", 7); err != nil {
		return Config{}, err
	}
	if cfg.BainbridgeTerminalID, err = intEnv("BAINBRIDGE_TERMINAL_ID", 3); err != nil {
		return Config{}, err
	}

	coords := []struct {
		name     string
		fallback string
		dst      *drivetime.Coordinate
	}{
		{"HOME_COORDS", "47.6097,-122.3331", &cfg.Home},
		{"DESTINATION_COORDS", "47.7557,-122.5992", &cfg.Destination},
		{"EDMONDS_TERMINAL_COORDS", "47.8127,-122.3827", &cfg.EdmondsTerminal},
		{"KINGSTON_TERMINAL_COORDS", "47.7962,-122.4966", &cfg.KingstonTerminal},
		{"SEATTLE_TERMINAL_COORDS", "47.6026,-122.3393", &cfg.SeattleTerminal},
		{"BAINBRIDGE_TERMINAL_COORDS", "47.6231,-122.5110", &cfg.BainbridgeTerminal},
		{"GIG_HARBOR_WAYPOINT_COORDS", "47.3293,-122.5780", &cfg.GigHarborWaypoint},
	}
	for _, c := range coords {
		coord, err := parseCoordinate(getEnvOrDefault(c.name, c.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", c.name, err)
		}
		*c.dst = coord
	}

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func parseCoordinate(raw string) (drivetime.Coordinate, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return drivetime.Coordinate{}, fmt.Errorf("coordinate %q: want \"lat,lon\"", raw)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return drivetime.Coordinate{}, fmt.Errorf("coordinate %q: %w", raw, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return drivetime.Coordinate{}, fmt.Errorf("coordinate %q: %w", raw, err)
	}
	return drivetime.Coordinate{Lat: lat, Lon: lon}, nil
}
