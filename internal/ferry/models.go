// Package ferry resolves ferry schedule data: which sailing to catch next
// and how long the wait and crossing will be.
package ferry

import (
	"context"
	"math"
	"sort"
	"time"
)

// DataStatusMissingAccessCode marks a result produced without contacting
// the schedule provider because no credential is configured.
const DataStatusMissingAccessCode = "missing_access_code"

// Route is a canonical ferry crossing between two terminals. The stored
// terminal assignment is never mutated; direction reversal produces a new
// value.
type Route struct {
	// ID is the stable route key, e.g. "edmonds-kingston".
	ID string

	// Name is the human-readable route name.
	Name string

	// RouteID is the schedule provider's numeric route identifier.
	RouteID int

	// DepartingTerminalID and ArrivingTerminalID are the provider's
	// terminal identifiers in the canonical direction.
	DepartingTerminalID int
	ArrivingTerminalID  int
}

// Reversed returns the route with departing and arriving terminals swapped.
// Reversing twice yields the original assignment.
func (r Route) Reversed() Route {
	r.DepartingTerminalID, r.ArrivingTerminalID = r.ArrivingTerminalID, r.DepartingTerminalID
	return r
}

// Sailing is one scheduled ferry departure. Departure and arrival are
// individually optional; a sailing without a parseable departure is never
// selectable.
type Sailing struct {
	Departure *time.Time
	Arrival   *time.Time
	Cancelled bool
}

// RouteDetails is the provider's per-trip-date route description.
type RouteDetails struct {
	// CrossingTimeMinutes is the scheduled crossing duration, when the
	// provider reports one.
	CrossingTimeMinutes *int
}

// Result is the resolved ferry data for one route and direction. Numeric
// fields are nil when unknown, never zero-as-placeholder.
type Result struct {
	// Route is the directional route the lookup was made for.
	Route Route

	// WaitMinutes is the time from the reference instant to the next
	// sailing's departure, floored at zero.
	WaitMinutes *int

	// CrossingMinutes is the scheduled crossing duration.
	CrossingMinutes *int

	// NextSailingDeparture and NextSailingArrival are the selected
	// sailing's instants.
	NextSailingDeparture *time.Time
	NextSailingArrival   *time.Time

	// SailingCount is how many sailings were considered, including
	// cancelled and already-departed ones. Nil in degraded mode.
	SailingCount *int

	// DataStatus is set when the result is degraded.
	DataStatus string
}

// Client fetches raw schedule data from the provider.
type Client interface {
	// Configured reports whether the client holds a credential.
	Configured() bool

	// ScheduleToday returns today's sailings between two terminals.
	ScheduleToday(ctx context.Context, departingTerminalID, arrivingTerminalID int, onlyRemaining bool) ([]Sailing, error)

	// RouteDetails returns the route description for a trip date
	// (formatted YYYY-MM-DD).
	RouteDetails(ctx context.Context, tripDate string, departingTerminalID, arrivingTerminalID int) (*RouteDetails, error)
}

// nextSailing picks the earliest non-cancelled sailing departing at or
// after the reference instant, regardless of input order. Returns nil when
// no sailing qualifies.
func nextSailing(sailings []Sailing, reference time.Time) *Sailing {
	upcoming := make([]Sailing, 0, len(sailings))
	for _, s := range sailings {
		if s.Departure == nil || s.Cancelled {
			continue
		}
		if s.Departure.Before(reference) {
			continue
		}
		upcoming = append(upcoming, s)
	}
	if len(upcoming) == 0 {
		return nil
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].Departure.Before(*upcoming[j].Departure)
	})
	return &upcoming[0]
}

// diffMinutes is the rounded minute difference from earlier to later.
func diffMinutes(earlier, later time.Time) int {
	return int(math.Round(later.Sub(earlier).Minutes()))
}
