package commute

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/takemehome/takemehome/internal/drivetime"
	"github.com/takemehome/takemehome/internal/ferry"
)

// DriveTimeEstimator estimates one drive leg in whole minutes, nil when
// no estimate could be produced.
type DriveTimeEstimator interface {
	Estimate(ctx context.Context, req drivetime.Request) *int
}

// FerryResolver resolves next-sailing data for a ferry route.
type FerryResolver interface {
	RouteData(ctx context.Context, req ferry.RouteDataRequest) (*ferry.Result, error)
}

// ServiceConfig holds configuration for the route composer.
type ServiceConfig struct {
	// Catalog is the set of route definitions to compose.
	Catalog []RouteDefinition

	// DriveTimes estimates drive legs.
	DriveTimes DriveTimeEstimator

	// Ferries resolves ferry sailings.
	Ferries FerryResolver

	// Logger for service operations.
	Logger zerolog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Service composes the full commute plan: every catalog route resolved
// concurrently, each route's own pipeline strictly in order.
type Service struct {
	catalog    []RouteDefinition
	driveTimes DriveTimeEstimator
	ferries    FerryResolver
	logger     zerolog.Logger
	now        func() time.Time
}

// NewService creates a route composer.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		catalog:    cfg.Catalog,
		driveTimes: cfg.DriveTimes,
		ferries:    cfg.Ferries,
		logger:     cfg.Logger,
		now:        now,
	}
}

// PlanRequest describes one composition request.
type PlanRequest struct {
	Direction Direction

	// DepartAt anchors the plan; nil means "leave now".
	DepartAt *time.Time
}

// Plan composes every catalog route for the requested direction. A
// schedule-provider failure on any route fails the whole plan; drive
// estimates degrade per leg instead. Ferry routes that resolve to no
// sailing data at all are left out of the result.
func (s *Service) Plan(ctx context.Context, req PlanRequest) (*Plan, error) {
	generatedAt := s.now()
	reference := generatedAt
	if req.DepartAt != nil {
		reference = *req.DepartAt
	}

	type outcome struct {
		route *ComposedRoute
		err   error
	}
	outcomes := make([]outcome, len(s.catalog))

	var wg sync.WaitGroup
	for i, def := range s.catalog {
		wg.Add(1)
		go func(i int, def RouteDefinition) {
			defer wg.Done()
			route, err := s.compose(ctx, def, req.Direction, req.DepartAt, reference)
			outcomes[i] = outcome{route: route, err: err}
		}(i, def)
	}
	wg.Wait()

	routes := make([]ComposedRoute, 0, len(s.catalog))
	for i, o := range outcomes {
		if o.err != nil {
			return nil, fmt.Errorf("compose route %s: %w", s.catalog[i].ID, o.err)
		}
		if o.route == nil {
			s.logger.Warn().
				Str("route", s.catalog[i].ID).
				Msg("route resolved to no sailing data, omitting")
			continue
		}
		routes = append(routes, *o.route)
	}

	return &Plan{
		GeneratedAt: generatedAt,
		DepartAt:    req.DepartAt,
		Direction:   req.Direction,
		Routes:      routes,
	}, nil
}

func (s *Service) compose(ctx context.Context, def RouteDefinition, dir Direction, departAt *time.Time, reference time.Time) (*ComposedRoute, error) {
	o := def.orient(dir)

	leg1 := s.driveTimes.Estimate(ctx, drivetime.Request{
		Origin:      &o.approach.Origin,
		Destination: &o.approach.Destination,
		DepartAt:    departAt,
		Waypoints:   o.approach.Waypoints,
		Avoid:       o.approach.Avoid,
	})

	route := &ComposedRoute{
		ID:         def.ID,
		Name:       def.Name,
		Mode:       def.Mode,
		Components: def.Components,
		Alerts:     []string{},
	}

	if def.DriveOnly() {
		route.Legs = []ComposedLeg{{Leg: o.approach, Minutes: leg1}}
		route.DriveTimeMinutes = leg1
		route.TotalETAMinutes = leg1
		return route, nil
	}

	var terminalArrival *time.Time
	if leg1 != nil {
		t := reference.Add(time.Duration(*leg1) * time.Minute)
		terminalArrival = &t
	}

	ferryData, err := s.ferries.RouteData(ctx, ferry.RouteDataRequest{
		Route:           *def.Ferry,
		Reverse:         o.reverseFerry,
		DepartAt:        reference,
		TerminalArrival: terminalArrival,
	})
	if err != nil {
		return nil, err
	}
	if ferryData == nil {
		return nil, nil
	}

	route.FerryWaitMinutes = ferryData.WaitMinutes
	route.FerryCrossingMinutes = ferryData.CrossingMinutes
	route.NextSailingDeparture = ferryData.NextSailingDeparture
	route.NextSailingArrival = ferryData.NextSailingArrival
	route.ScheduleCount = ferryData.SailingCount
	route.DataStatus = ferryData.DataStatus

	// The second leg departs once the boat lands; without the full
	// chain of durations the estimate falls back to current traffic.
	var leg2Depart *time.Time
	if leg1 != nil && ferryData.WaitMinutes != nil && ferryData.CrossingMinutes != nil {
		t := reference.Add(time.Duration(*leg1+*ferryData.WaitMinutes+*ferryData.CrossingMinutes) * time.Minute)
		leg2Depart = &t
	}

	leg2 := s.driveTimes.Estimate(ctx, drivetime.Request{
		Origin:      &o.final.Origin,
		Destination: &o.final.Destination,
		DepartAt:    leg2Depart,
		Waypoints:   o.final.Waypoints,
		Avoid:       o.final.Avoid,
	})

	route.Legs = []ComposedLeg{
		{Leg: o.approach, Minutes: leg1},
		{Leg: *o.final, Minutes: leg2},
	}
	if leg1 != nil && leg2 != nil {
		drive := *leg1 + *leg2
		route.DriveTimeMinutes = &drive
	}
	if route.DriveTimeMinutes != nil && ferryData.WaitMinutes != nil && ferryData.CrossingMinutes != nil {
		total := *route.DriveTimeMinutes + *ferryData.WaitMinutes + *ferryData.CrossingMinutes
		route.TotalETAMinutes = &total
	}

	return route, nil
}
