package commute

import (
	"github.com/takemehome/takemehome/internal/drivetime"
	"github.com/takemehome/takemehome/internal/ferry"
)

// CatalogConfig carries the coordinates and terminal IDs the route
// catalog is built from.
type CatalogConfig struct {
	// Home is the east-shore trip endpoint, Destination the one across
	// the sound.
	Home        drivetime.Coordinate
	Destination drivetime.Coordinate

	EdmondsTerminalID    int
	KingstonTerminalID   int
	SeattleTerminalID    int
	BainbridgeTerminalID int

	EdmondsTerminal    drivetime.Coordinate
	KingstonTerminal   drivetime.Coordinate
	SeattleTerminal    drivetime.Coordinate
	BainbridgeTerminal drivetime.Coordinate

	GigHarborWaypoint drivetime.Coordinate
}

// NewCatalog builds the three commute options: the two ferry crossings
// and the Tacoma Narrows drive-around. Ferry pairs are stored departing
// the home-side terminal, the orientation the schedule provider keys
// them by.
func NewCatalog(cfg CatalogConfig) []RouteDefinition {
	return []RouteDefinition{
		{
			ID:         "edmonds-kingston",
			Name:       "Edmonds / Kingston ferry",
			Mode:       ModeFerry,
			Components: []string{"Hood Canal Bridge", "Edmonds/Kingston Ferry"},
			Ferry: &ferry.Route{
				ID:                  "edmonds-kingston",
				Name:                "Edmonds / Kingston",
				RouteID:             6,
				DepartingTerminalID: cfg.EdmondsTerminalID,
				ArrivingTerminalID:  cfg.KingstonTerminalID,
			},
			Home:                    cfg.Home,
			Destination:             cfg.Destination,
			HomeTerminal:            cfg.EdmondsTerminal,
			HomeTerminalName:        "Edmonds",
			DestinationTerminal:     cfg.KingstonTerminal,
			DestinationTerminalName: "Kingston",
		},
		{
			ID:         "seattle-bainbridge",
			Name:       "Seattle / Bainbridge ferry",
			Mode:       ModeFerry,
			Components: []string{"Hood Canal Bridge", "Seattle/Bainbridge Ferry"},
			Ferry: &ferry.Route{
				ID:                  "seattle-bainbridge",
				Name:                "Seattle / Bainbridge",
				RouteID:             5,
				DepartingTerminalID: cfg.SeattleTerminalID,
				ArrivingTerminalID:  cfg.BainbridgeTerminalID,
			},
			Home:                    cfg.Home,
			Destination:             cfg.Destination,
			HomeTerminal:            cfg.SeattleTerminal,
			HomeTerminalName:        "Seattle",
			DestinationTerminal:     cfg.BainbridgeTerminal,
			DestinationTerminalName: "Bainbridge",
		},
		{
			ID:          "tacoma-narrows",
			Name:        "Tacoma Narrows drive",
			Mode:        ModeDrive,
			Components:  []string{"Tacoma Narrows Bridge", "Hood Canal Bridge"},
			Home:        cfg.Home,
			Destination: cfg.Destination,
			Waypoints:   []drivetime.Coordinate{cfg.GigHarborWaypoint},
			Avoid:       []string{"ferries"},
		},
	}
}
