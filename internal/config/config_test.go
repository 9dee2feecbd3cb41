package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takemehome/takemehome/internal/config"
	"github.com/takemehome/takemehome/internal/drivetime"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 8*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)

	assert.Equal(t, 8, cfg.EdmondsTerminalID)
	assert.Equal(t, 12, cfg.KingstonTerminalID)
	assert.Equal(t, 7, cfg.SeattleTerminalID)
	assert.Equal(t, 3, cfg.BainbridgeTerminalID)

	assert.Equal(t, drivetime.Coordinate{Lat: 47.3293, Lon: -122.578}, cfg.GigHarborWaypoint)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("CACHE_TTL_SECONDS", "120")
	t.Setenv("REQUEST_TIMEOUT_MS", "2500")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")
	t.Setenv("WSDOT_ACCESS_CODE", "code-123")
	t.Setenv("GOOGLE_MAPS_API_KEY", "key-456")
	t.Setenv("EDMONDS_TERMINAL_ID", "80")
	t.Setenv("HOME_COORDS", "47.5, -122.5")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 2500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, "code-123", cfg.WSDOTAccessCode)
	assert.Equal(t, "key-456", cfg.GoogleMapsAPIKey)
	assert.Equal(t, 80, cfg.EdmondsTerminalID)
	assert.Equal(t, drivetime.Coordinate{Lat: 47.5, Lon: -122.5}, cfg.Home)
}

func TestLoad_InvalidInt(t *testing.T) {
	t.Setenv("CACHE_TTL_SECONDS", "five minutes")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL_SECONDS")
}

func TestLoad_InvalidCoordinate(t *testing.T) {
	t.Setenv("HOME_COORDS", "not-a-coordinate")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HOME_COORDS")
}
