package commute

import (
	"errors"
	"fmt"
	"time"

	"github.com/takemehome/takemehome/internal/drivetime"
	"github.com/takemehome/takemehome/internal/ferry"
)

// Direction is the travel direction across the sound.
type Direction string

const (
	// DirectionEastWest is the homeward run and the default.
	DirectionEastWest Direction = "east_west"

	// DirectionWestEast is the return run.
	DirectionWestEast Direction = "west_east"
)

// Mode distinguishes ferry crossings from the drive-around alternative.
type Mode string

const (
	ModeFerry Mode = "ferry"
	ModeDrive Mode = "drive"
)

// ErrInvalidDirection is returned for direction values outside the two
// wire values.
var ErrInvalidDirection = errors.New("invalid direction")

// ParseDirection validates a wire direction value. Empty means the
// default, east_west.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(raw) {
	case "":
		return DirectionEastWest, nil
	case DirectionEastWest:
		return DirectionEastWest, nil
	case DirectionWestEast:
		return DirectionWestEast, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, raw)
	}
}

// Leg is one drive segment of a commute route.
type Leg struct {
	Name        string
	Origin      drivetime.Coordinate
	Destination drivetime.Coordinate
	Waypoints   []drivetime.Coordinate
	Avoid       []string
}

// RouteDefinition is one catalog entry, stored in the east_west
// orientation: Home sits on the east shore, Destination across the
// sound. Ferry routes carry the crossing as the schedule provider
// defines it plus the two terminal coordinates; drive-only routes carry
// waypoints instead.
type RouteDefinition struct {
	ID         string
	Name       string
	Mode       Mode
	Components []string

	// Ferry is the crossing as stored upstream, departing the
	// home-side terminal. Nil for drive mode.
	Ferry *ferry.Route

	// Home and Destination are the trip endpoints.
	Home        drivetime.Coordinate
	Destination drivetime.Coordinate

	// Terminal coordinates and display names, set for ferry routes.
	HomeTerminal            drivetime.Coordinate
	HomeTerminalName        string
	DestinationTerminal     drivetime.Coordinate
	DestinationTerminalName string

	// Waypoints for drive mode, in home-to-destination order.
	Waypoints []drivetime.Coordinate

	Avoid []string
}

// DriveOnly reports whether the route has no ferry crossing.
func (d RouteDefinition) DriveOnly() bool { return d.Mode == ModeDrive }

// orientation is a definition turned around for one travel direction.
type orientation struct {
	approach     Leg
	final        *Leg
	reverseFerry bool
}

// orient resolves the directional legs. The schedule lookup for the
// default east_west run departs the far terminal, mirroring how the
// upstream provider keys the homeward sailing board.
func (d RouteDefinition) orient(dir Direction) orientation {
	if d.DriveOnly() {
		leg := Leg{
			Name:        d.Name,
			Origin:      d.Home,
			Destination: d.Destination,
			Waypoints:   d.Waypoints,
			Avoid:       d.Avoid,
		}
		if dir == DirectionWestEast {
			leg.Origin, leg.Destination = leg.Destination, leg.Origin
			leg.Waypoints = reverseCoords(d.Waypoints)
		}
		return orientation{approach: leg}
	}

	if dir == DirectionEastWest {
		return orientation{
			approach: Leg{
				Name:        fmt.Sprintf("Drive to %s terminal", d.HomeTerminalName),
				Origin:      d.Home,
				Destination: d.HomeTerminal,
				Avoid:       d.Avoid,
			},
			final: &Leg{
				Name:        fmt.Sprintf("Drive from %s terminal", d.DestinationTerminalName),
				Origin:      d.DestinationTerminal,
				Destination: d.Destination,
				Avoid:       d.Avoid,
			},
			reverseFerry: true,
		}
	}
	return orientation{
		approach: Leg{
			Name:        fmt.Sprintf("Drive to %s terminal", d.DestinationTerminalName),
			Origin:      d.Destination,
			Destination: d.DestinationTerminal,
			Avoid:       d.Avoid,
		},
		final: &Leg{
			Name:        fmt.Sprintf("Drive from %s terminal", d.HomeTerminalName),
			Origin:      d.HomeTerminal,
			Destination: d.Home,
			Avoid:       d.Avoid,
		},
	}
}

func reverseCoords(coords []drivetime.Coordinate) []drivetime.Coordinate {
	if len(coords) == 0 {
		return nil
	}
	out := make([]drivetime.Coordinate, len(coords))
	for i, c := range coords {
		out[len(coords)-1-i] = c
	}
	return out
}

// ComposedLeg is a Leg with its resolved duration, nil when the
// estimator could not answer.
type ComposedLeg struct {
	Leg
	Minutes *int
}

// ComposedRoute is one fully composed commute option. Nil fields mean
// the corresponding duration could not be determined.
type ComposedRoute struct {
	ID         string
	Name       string
	Mode       Mode
	Components []string

	TotalETAMinutes  *int
	DriveTimeMinutes *int
	Legs             []ComposedLeg

	FerryWaitMinutes     *int
	FerryCrossingMinutes *int
	NextSailingDeparture *time.Time
	NextSailingArrival   *time.Time
	ScheduleCount        *int

	DataStatus string

	// Alerts is reserved for upstream advisories and is always empty
	// today. Degraded data is reported through DataStatus and nulls.
	Alerts []string
}

// Plan is a full set of composed routes for one request.
type Plan struct {
	GeneratedAt time.Time
	DepartAt    *time.Time
	Direction   Direction
	Routes      []ComposedRoute
}
