package ferry

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/takemehome/takemehome/internal/cache"
)

// tripDateFormat is the provider's trip date path segment.
const tripDateFormat = "2006-01-02"

// ServiceConfig holds configuration for the schedule resolver.
type ServiceConfig struct {
	// Client is the schedule provider client. Nil behaves like an
	// unconfigured client.
	Client Client

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long schedule and route-details lookups are
	// cached. Default: 5 minutes.
	CacheTTL time.Duration
}

// Service resolves next-sailing data for ferry routes. The schedule and
// route-details lookups are cached independently.
type Service struct {
	client   Client
	logger   zerolog.Logger
	cacheTTL time.Duration

	scheduleCache *cache.Cache[scheduleKey, []Sailing]
	detailsCache  *cache.Cache[detailsKey, *RouteDetails]
}

type scheduleKey struct {
	departingTerminalID int
	arrivingTerminalID  int
	onlyRemaining       bool
}

type detailsKey struct {
	tripDate            string
	departingTerminalID int
	arrivingTerminalID  int
}

// NewService creates a schedule resolver with its own lookup caches.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	return &Service{
		client:        cfg.Client,
		logger:        cfg.Logger,
		cacheTTL:      cacheTTL,
		scheduleCache: cache.New[scheduleKey, []Sailing](),
		detailsCache:  cache.New[detailsKey, *RouteDetails](),
	}
}

// RouteDataRequest describes one resolver lookup.
type RouteDataRequest struct {
	// Route is the canonical route definition.
	Route Route

	// Reverse swaps the departing and arriving terminals for the lookup
	// without touching the canonical definition.
	Reverse bool

	// DepartAt anchors the trip date and is the fallback reference
	// instant.
	DepartAt time.Time

	// TerminalArrival, when known, is the instant the driver reaches the
	// terminal; the next sailing is chosen relative to it.
	TerminalArrival *time.Time
}

// RouteData resolves the next sailing for the requested route and
// direction.
//
// With no credential configured it short-circuits to a degraded result
// carrying only the route identity — no network calls, no error. Provider
// failures on either lookup propagate to the caller.
func (s *Service) RouteData(ctx context.Context, req RouteDataRequest) (*Result, error) {
	route := req.Route
	if req.Reverse {
		route = route.Reversed()
	}

	if s.client == nil || !s.client.Configured() {
		s.logger.Info().
			Str("route", route.ID).
			Msg("schedule provider credential missing, returning degraded result")
		return &Result{Route: route, DataStatus: DataStatusMissingAccessCode}, nil
	}

	sailings, err := s.scheduleToday(ctx, route, true)
	if err != nil {
		return nil, err
	}

	details, err := s.routeDetails(ctx, req.DepartAt.Format(tripDateFormat), route)
	if err != nil {
		return nil, err
	}

	count := len(sailings)
	result := &Result{
		Route:        route,
		SailingCount: &count,
	}

	// The provider's scheduled crossing time; a zero means it did not
	// really answer.
	if details != nil && details.CrossingTimeMinutes != nil && *details.CrossingTimeMinutes > 0 {
		crossing := *details.CrossingTimeMinutes
		result.CrossingMinutes = &crossing
	}

	reference := req.DepartAt
	if req.TerminalArrival != nil {
		reference = *req.TerminalArrival
	}

	next := nextSailing(sailings, reference)
	if next == nil {
		return result, nil
	}

	wait := diffMinutes(reference, *next.Departure)
	if wait < 0 {
		wait = 0
	}
	result.WaitMinutes = &wait
	result.NextSailingDeparture = next.Departure
	result.NextSailingArrival = next.Arrival

	if result.CrossingMinutes == nil && next.Arrival != nil {
		crossing := diffMinutes(*next.Departure, *next.Arrival)
		result.CrossingMinutes = &crossing
	}

	return result, nil
}

func (s *Service) scheduleToday(ctx context.Context, route Route, onlyRemaining bool) ([]Sailing, error) {
	key := scheduleKey{
		departingTerminalID: route.DepartingTerminalID,
		arrivingTerminalID:  route.ArrivingTerminalID,
		onlyRemaining:       onlyRemaining,
	}
	if sailings, ok := s.scheduleCache.Get(key); ok {
		return sailings, nil
	}

	sailings, err := s.client.ScheduleToday(ctx, route.DepartingTerminalID, route.ArrivingTerminalID, onlyRemaining)
	if err != nil {
		return nil, err
	}

	s.scheduleCache.Set(key, sailings, s.cacheTTL)
	return sailings, nil
}

func (s *Service) routeDetails(ctx context.Context, tripDate string, route Route) (*RouteDetails, error) {
	key := detailsKey{
		tripDate:            tripDate,
		departingTerminalID: route.DepartingTerminalID,
		arrivingTerminalID:  route.ArrivingTerminalID,
	}
	if details, ok := s.detailsCache.Get(key); ok {
		return details, nil
	}

	details, err := s.client.RouteDetails(ctx, tripDate, route.DepartingTerminalID, route.ArrivingTerminalID)
	if err != nil {
		return nil, err
	}

	s.detailsCache.Set(key, details, s.cacheTTL)
	return details, nil
}
