package models

import (
	"time"

	"github.com/takemehome/takemehome/internal/commute"
	"github.com/takemehome/takemehome/internal/drivetime"
)

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status          string `json:"status"`
	Version         string `json:"version"`
	Env             string `json:"env"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds"`
}

// RoutesResponse is the composed commute plan payload.
type RoutesResponse struct {
	GeneratedAt time.Time      `json:"generated_at"`
	DepartAt    *time.Time     `json:"depart_at"`
	Direction   string         `json:"direction"`
	Routes      []RouteSummary `json:"routes"`
}

// RouteSummary is one commute option in the plan. Nullable fields are
// durations that could not be determined.
type RouteSummary struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Mode                 string     `json:"mode"`
	Components           []string   `json:"components"`
	TotalETAMinutes      *int       `json:"total_eta_minutes"`
	DriveTimeMinutes     *int       `json:"drive_time_minutes"`
	Legs                 []RouteLeg `json:"legs"`
	FerryWaitMinutes     *int       `json:"ferry_wait_minutes,omitempty"`
	FerryCrossingMinutes *int       `json:"ferry_crossing_minutes,omitempty"`
	NextSailingDeparture *time.Time `json:"next_sailing_departure,omitempty"`
	NextSailingArrival   *time.Time `json:"next_sailing_arrival,omitempty"`
	ScheduleCount        *int       `json:"schedule_count,omitempty"`
	DataStatus           string     `json:"data_status,omitempty"`
	Alerts               []string   `json:"alerts"`
}

// RouteLeg is one drive segment of a route with its resolved duration.
type RouteLeg struct {
	Name        string                 `json:"name"`
	Minutes     *int                   `json:"minutes"`
	Origin      drivetime.Coordinate   `json:"origin"`
	Destination drivetime.Coordinate   `json:"destination"`
	Waypoints   []drivetime.Coordinate `json:"waypoints,omitempty"`
}

// NewRoutesResponse maps a composed plan to the wire format.
func NewRoutesResponse(plan *commute.Plan) RoutesResponse {
	routes := make([]RouteSummary, 0, len(plan.Routes))
	for _, r := range plan.Routes {
		legs := make([]RouteLeg, 0, len(r.Legs))
		for _, l := range r.Legs {
			legs = append(legs, RouteLeg{
				Name:        l.Name,
				Minutes:     l.Minutes,
				Origin:      l.Origin,
				Destination: l.Destination,
				Waypoints:   l.Waypoints,
			})
		}
		alerts := r.Alerts
		if alerts == nil {
			alerts = []string{}
		}
		routes = append(routes, RouteSummary{
			ID:                   r.ID,
			Name:                 r.Name,
			Mode:                 string(r.Mode),
			Components:           r.Components,
			TotalETAMinutes:      r.TotalETAMinutes,
			DriveTimeMinutes:     r.DriveTimeMinutes,
			Legs:                 legs,
			FerryWaitMinutes:     r.FerryWaitMinutes,
			FerryCrossingMinutes: r.FerryCrossingMinutes,
			NextSailingDeparture: r.NextSailingDeparture,
			NextSailingArrival:   r.NextSailingArrival,
			ScheduleCount:        r.ScheduleCount,
			DataStatus:           r.DataStatus,
			Alerts:               alerts,
		})
	}
	return RoutesResponse{
		GeneratedAt: plan.GeneratedAt,
		DepartAt:    plan.DepartAt,
		Direction:   string(plan.Direction),
		Routes:      routes,
	}
}
