package drivetime

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/takemehome/takemehome/internal/cache"
)

// ServiceConfig holds configuration for the drive-time service.
type ServiceConfig struct {
	// Provider is the directions provider. Nil disables estimation.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long estimates (including resolved "no answer")
	// are cached. Default: 5 minutes.
	CacheTTL time.Duration
}

// Service estimates drive durations with caching. An unknown duration is a
// nil result, never an error: a leg the provider cannot answer degrades to
// "unknown" without affecting anything else.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	cacheTTL time.Duration
	cache    *cache.Cache[string, *int]
}

// NewService creates a drive-time service with its own estimate cache.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		cacheTTL: cacheTTL,
		cache:    cache.New[string, *int](),
	}
}

// Estimate returns the drive duration for the leg in whole minutes, or nil
// if it is unknown. No network call is made when the provider is missing or
// unconfigured, or when either endpoint of the leg is absent.
//
// A provider answer with no usable duration is cached as nil for the full
// TTL so known-unanswerable legs do not hammer the provider. Provider
// errors and timeouts are logged, resolved as nil, and not cached.
func (s *Service) Estimate(ctx context.Context, req Request) *int {
	if s.provider == nil || !s.provider.Configured() {
		return nil
	}
	if req.Origin == nil || req.Destination == nil {
		return nil
	}

	key := cacheKey(req)
	if minutes, ok := s.cache.Get(key); ok {
		return minutes
	}

	est, err := s.provider.GetDriveTime(ctx, req)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("provider", s.provider.Name()).
			Str("origin", req.Origin.String()).
			Str("destination", req.Destination.String()).
			Msg("drive time lookup failed, treating leg as unknown")
		return nil
	}

	if est == nil || est.DurationSeconds <= 0 {
		s.cache.Set(key, nil, s.cacheTTL)
		return nil
	}

	minutes := roundToMinutes(est.DurationSeconds)
	s.cache.Set(key, &minutes, s.cacheTTL)
	return &minutes
}

// roundToMinutes converts seconds to the nearest whole minute.
func roundToMinutes(seconds int) int {
	return (seconds + 30) / 60
}
