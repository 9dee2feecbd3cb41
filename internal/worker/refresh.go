// Package worker provides background cache pre-warming for the commute planner.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/takemehome/takemehome/internal/commute"
)

// Planner composes a commute plan.
type Planner interface {
	Plan(ctx context.Context, req commute.PlanRequest) (*commute.Plan, error)
}

// RefreshConfig holds configuration for the refresh job.
type RefreshConfig struct {
	// Interval between refresh runs. Default: 4 minutes, just inside
	// the default cache TTL so entries stay warm.
	Interval time.Duration

	// Timeout bounds each refresh run. Default: 30 seconds.
	Timeout time.Duration

	// Directions to pre-warm. Default: both.
	Directions []commute.Direction
}

// RefreshJob keeps the schedule and drive-time caches warm by composing
// the full plan for each direction on an interval.
type RefreshJob struct {
	config  RefreshConfig
	planner Planner
	logger  zerolog.Logger
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config  RefreshConfig
	Planner Planner
	Logger  zerolog.Logger
}

// NewRefreshJob creates a new refresh job.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	config := cfg.Config
	if config.Interval == 0 {
		config.Interval = 4 * time.Minute
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if len(config.Directions) == 0 {
		config.Directions = []commute.Direction{
			commute.DirectionEastWest,
			commute.DirectionWestEast,
		}
	}

	return &RefreshJob{
		config:  config,
		planner: cfg.Planner,
		logger:  cfg.Logger,
	}
}

// RefreshResult contains the outcome of one refresh run.
type RefreshResult struct {
	StartTime      time.Time
	Duration       time.Duration
	RoutesComposed int
	Errors         []RefreshError
}

// RefreshError records a failed direction within a run.
type RefreshError struct {
	Direction commute.Direction
	Error     string
}

// Run executes one refresh pass over all configured directions.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	result := &RefreshResult{StartTime: time.Now()}

	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	type outcome struct {
		direction commute.Direction
		routes    int
		err       error
	}
	outcomes := make([]outcome, len(j.config.Directions))

	var wg sync.WaitGroup
	for i, dir := range j.config.Directions {
		wg.Add(1)
		go func(i int, dir commute.Direction) {
			defer wg.Done()
			plan, err := j.planner.Plan(ctx, commute.PlanRequest{Direction: dir})
			o := outcome{direction: dir, err: err}
			if plan != nil {
				o.routes = len(plan.Routes)
			}
			outcomes[i] = o
		}(i, dir)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.err != nil {
			result.Errors = append(result.Errors, RefreshError{
				Direction: o.direction,
				Error:     o.err.Error(),
			})
			continue
		}
		result.RoutesComposed += o.routes
	}

	result.Duration = time.Since(result.StartTime)

	event := j.logger.Info()
	if len(result.Errors) > 0 {
		event = j.logger.Warn()
	}
	event.
		Int("routes_composed", result.RoutesComposed).
		Int("failed_directions", len(result.Errors)).
		Dur("duration", result.Duration).
		Msg("cache refresh run completed")

	return result
}

// Start runs the refresh loop until the context is cancelled. The first
// run fires immediately, the rest on the configured interval.
func (j *RefreshJob) Start(ctx context.Context) {
	j.Run(ctx)

	ticker := time.NewTicker(j.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("refresh loop stopped")
			return
		case <-ticker.C:
			j.Run(ctx)
		}
	}
}
