// Package drivetime estimates road-leg driving durations via an external
// directions provider.
package drivetime

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Coordinate is a geographic point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// String renders the coordinate as "lat,lon", the form the directions
// provider and the cache key both use.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// Request describes one drive leg to estimate.
type Request struct {
	// Origin and Destination are required; a nil value means the leg is
	// unconfigured and the estimate is unknown.
	Origin      *Coordinate
	Destination *Coordinate

	// DepartAt is the intended departure instant. Nil means "now".
	DepartAt *time.Time

	// Waypoints are optional via-points the route must pass through.
	Waypoints []Coordinate

	// Avoid lists road features to route around (e.g. "ferries").
	Avoid []string
}

// Estimate is a provider's answer for one leg. DurationSeconds is the
// traffic-adjusted duration when the provider reports one, otherwise the
// scheduled duration.
type Estimate struct {
	DurationSeconds int
}

// Provider fetches drive durations from a directions service.
type Provider interface {
	// GetDriveTime returns the estimated duration for the requested leg.
	// A nil Estimate with nil error means the provider answered but had
	// no usable duration.
	GetDriveTime(ctx context.Context, req Request) (*Estimate, error)
	// Configured reports whether the provider has a credential and can
	// make network calls.
	Configured() bool
	// Name identifies the provider for logging.
	Name() string
}

// cacheKey buckets a request for the estimate cache. A nil departure is the
// literal bucket "now" rather than the current wall time, so back-to-back
// "leave now" requests share an entry.
func cacheKey(req Request) string {
	var b strings.Builder
	b.WriteString(req.Origin.String())
	b.WriteByte('|')
	b.WriteString(req.Destination.String())
	for _, wp := range req.Waypoints {
		b.WriteString("|wp=")
		b.WriteString(wp.String())
	}
	for _, a := range req.Avoid {
		b.WriteString("|avoid=")
		b.WriteString(a)
	}
	b.WriteString("|dep=")
	if req.DepartAt != nil {
		b.WriteString(strconv.FormatInt(req.DepartAt.Unix(), 10))
	} else {
		b.WriteString("now")
	}
	return b.String()
}
