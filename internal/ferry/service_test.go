package ferry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takemehome/takemehome/internal/ferry"
)

var edmondsKingston = ferry.Route{
	ID:                  "edmonds-kingston",
	Name:                "Edmonds ↔ Kingston Ferry",
	RouteID:             6,
	DepartingTerminalID: 8,
	ArrivingTerminalID:  12,
}

// mockClient is a scripted schedule client.
type mockClient struct {
	mu            sync.Mutex
	configured    bool
	sailings      []ferry.Sailing
	details       *ferry.RouteDetails
	scheduleErr   error
	detailsErr    error
	scheduleCalls int
	detailsCalls  int
	lastDeparting int
	lastArriving  int
}

func (m *mockClient) Configured() bool { return m.configured }

func (m *mockClient) ScheduleToday(_ context.Context, departingID, arrivingID int, _ bool) ([]ferry.Sailing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduleCalls++
	m.lastDeparting = departingID
	m.lastArriving = arrivingID
	if m.scheduleErr != nil {
		return nil, m.scheduleErr
	}
	return m.sailings, nil
}

func (m *mockClient) RouteDetails(_ context.Context, _ string, _, _ int) (*ferry.RouteDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailsCalls++
	if m.detailsErr != nil {
		return nil, m.detailsErr
	}
	return m.details, nil
}

func (m *mockClient) calls() (schedule, details int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scheduleCalls, m.detailsCalls
}

func newService(client ferry.Client) *ferry.Service {
	return ferry.NewService(ferry.ServiceConfig{
		Client:   client,
		Logger:   zerolog.Nop(),
		CacheTTL: time.Minute,
	})
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 1, hour, minute, 0, 0, time.UTC)
}

func tp(t time.Time) *time.Time { return &t }

func TestService_SelectsEarliestValidSailing(t *testing.T) {
	client := &mockClient{
		configured: true,
		sailings: []ferry.Sailing{
			{Departure: tp(at(9, 0))},
			{Departure: tp(at(9, 40)), Cancelled: true},
			{Departure: tp(at(10, 0))},
		},
		details: &ferry.RouteDetails{CrossingTimeMinutes: intPtr(30)},
	}
	svc := newService(client)

	result, err := svc.RouteData(context.Background(), ferry.RouteDataRequest{
		Route:           edmondsKingston,
		DepartAt:        at(8, 30),
		TerminalArrival: tp(at(9, 5)),
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	require.NotNil(t, result.NextSailingDeparture)
	assert.Equal(t, at(10, 0), result.NextSailingDeparture.UTC(), "09:00 already departed, 09:40 cancelled")
	require.NotNil(t, result.WaitMinutes)
	assert.Equal(t, 55, *result.WaitMinutes)
	require.NotNil(t, result.SailingCount)
	assert.Equal(t, 3, *result.SailingCount, "count includes past and cancelled sailings")
}

func TestService_SelectionIgnoresInputOrder(t *testing.T) {
	client := &mockClient{
		configured: true,
		sailings: []ferry.Sailing{
			{Departure: tp(at(17, 0))},
			{Departure: tp(at(15, 30))},
			{Departure: tp(at(16, 10))},
		},
	}
	svc := newService(client)

	result, err := svc.RouteData(context.Background(), ferry.RouteDataRequest{
		Route:    edmondsKingston,
		DepartAt: at(15, 0),
	})
	require.NoError(t, err)
	require.NotNil(t, result.NextSailingDeparture)
	assert.Equal(t, at(15, 30), result.NextSailingDeparture.UTC())
}

func TestService_SailingDepartingAtReferenceIsSelectable(t *testing.T) {
	client := &mockClient{
		configured: true,
		sailings:   []ferry.Sailing{{Departure: tp(at(15, 30))}},
	}
	svc := newService(client)

	result, err := svc.RouteData(context.Background(), ferry.RouteDataRequest{
		Route:           edmondsKingston,
		DepartAt:        at(15, 0),
		TerminalArrival: tp(at(15, 30)),
	})
	require.NoError(t, err)
	require.NotNil(t, result.WaitMinutes)
	assert.Equal(t, 0, *result.WaitMinutes)
}

func TestService_MissingCredentialShortCircuits(t *testing.T) {
	client := &mockClient{configured: false}
	svc := newService(client)

	result, err := svc.RouteData(context.Background(), ferry.RouteDataRequest{
		Route:    edmondsKingston,
		DepartAt: at(15, 0),
	})
	require.NoError(t, err, "missing credential is a degraded result, not a failure")
	require.NotNil(t, result)

	assert.Equal(t, ferry.DataStatusMissingAccessCode, result.DataStatus)
	assert.Nil(t, result.WaitMinutes)
	assert.Nil(t, result.CrossingMinutes)
	assert.Nil(t, result.NextSailingDeparture)
	assert.Nil(t, result.SailingCount)

	schedule, details := client.calls()
	assert.Equal(t, 0, schedule, "no network calls in degraded mode")
	assert.Equal(t, 0, details)
}

func TestService_ReverseSwapsTerminalsForLookupOnly(t *testing.T) {
	client := &mockClient{configured: true}
	svc := newService(client)

	_, err := svc.RouteData(context.Background(), ferry.RouteDataRequest{
		Route:    edmondsKingston,
		Reverse:  true,
		DepartAt: at(15, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, 12, client.lastDeparting)
	assert.Equal(t, 8, client.lastArriving)
	assert.Equal(t, 8, edmondsKingston.DepartingTerminalID, "canonical definition untouched")
}

func TestRoute_DoubleReversalIsIdentity(t *testing.T) {
	assert.Equal(t, edmondsKingston, edmondsKingston.Reversed().Reversed())
}

func TestService_CrossingPrefersRouteDetails(t *testing.T) {
	client := &mockClient{
		configured: true,
		sailings: []ferry.Sailing{
			{Departure: tp(at(15, 30)), Arrival: tp(at(16, 20))},
		},
		details: &ferry.RouteDetails{CrossingTimeMinutes: intPtr(30)},
	}
	svc := newService(client)

	result, err := svc.RouteData(context.Background(), ferry.RouteDataRequest{
		Route:    edmondsKingston,
		DepartAt: at(15, 0),
	})
	require.NoError(t, err)
	require.NotNil(t, result.CrossingMinutes)
	assert.Equal(t, 30, *result.CrossingMinutes)
}

func TestService_CrossingDerivedFromSailingWhenDetailsAbsent(t *testing.T) {
	client := &mockClient{
		configured: true,
		sailings: []ferry.Sailing{
			{Departure: tp(at(15, 30)), Arrival: tp(at(16, 2))},
		},
	}
	svc := newService(client)

	result, err := svc.RouteData(context.Background(), ferry.RouteDataRequest{
		Route:    edmondsKingston,
		DepartAt: at(15, 0),
	})
	require.NoError(t, err)
	require.NotNil(t, result.CrossingMinutes)
	assert.Equal(t, 32, *result.CrossingMinutes)
}

func TestService_ZeroCrossingTimeTreatedAsAbsent(t *testing.T) {
	client := &mockClient{
		configured: true,
		sailings: []ferry.Sailing{
			{Departure: tp(at(15, 30)), Arrival: tp(at(16, 5))},
		},
		details: &ferry.RouteDetails{CrossingTimeMinutes: intPtr(0)},
	}
	svc := newService(client)

	result, err := svc.RouteData(context.Background(), ferry.RouteDataRequest{
		Route:    edmondsKingston,
		DepartAt: at(15, 0),
	})
	require.NoError(t, err)
	require.NotNil(t, result.CrossingMinutes)
	assert.Equal(t, 35, *result.CrossingMinutes, "zero crossing falls back to the sailing's own span")
}

func TestService_NoRemainingSailings(t *testing.T) {
	client := &mockClient{
		configured: true,
		sailings: []ferry.Sailing{
			{Departure: tp(at(9, 0))},
			{Departure: tp(at(10, 0)), Cancelled: true},
		},
	}
	svc := newService(client)

	result, err := svc.RouteData(context.Background(), ferry.RouteDataRequest{
		Route:    edmondsKingston,
		DepartAt: at(23, 0),
	})
	require.NoError(t, err)

	assert.Nil(t, result.WaitMinutes)
	assert.Nil(t, result.CrossingMinutes)
	assert.Nil(t, result.NextSailingDeparture)
	require.NotNil(t, result.SailingCount)
	assert.Equal(t, 2, *result.SailingCount)
}

func TestService_SailingWithoutDepartureExcluded(t *testing.T) {
	client := &mockClient{
		configured: true,
		sailings: []ferry.Sailing{
			{Arrival: tp(at(16, 0))},
			{Departure: tp(at(16, 30))},
		},
	}
	svc := newService(client)

	result, err := svc.RouteData(context.Background(), ferry.RouteDataRequest{
		Route:    edmondsKingston,
		DepartAt: at(15, 0),
	})
	require.NoError(t, err)
	require.NotNil(t, result.NextSailingDeparture)
	assert.Equal(t, at(16, 30), result.NextSailingDeparture.UTC())
}

func TestService_LookupsAreCachedIndependently(t *testing.T) {
	client := &mockClient{
		configured: true,
		sailings:   []ferry.Sailing{{Departure: tp(at(16, 0))}},
	}
	svc := newService(client)

	req := ferry.RouteDataRequest{Route: edmondsKingston, DepartAt: at(15, 0)}

	_, err := svc.RouteData(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.RouteData(context.Background(), req)
	require.NoError(t, err)

	schedule, details := client.calls()
	assert.Equal(t, 1, schedule)
	assert.Equal(t, 1, details)
}

func TestService_DistinctTerminalPairsDoNotShareCacheEntries(t *testing.T) {
	client := &mockClient{
		configured: true,
		sailings:   []ferry.Sailing{{Departure: tp(at(16, 0))}},
	}
	svc := newService(client)

	seattleBainbridge := ferry.Route{ID: "seattle-bainbridge", RouteID: 5, DepartingTerminalID: 7, ArrivingTerminalID: 3}

	_, err := svc.RouteData(context.Background(), ferry.RouteDataRequest{Route: edmondsKingston, DepartAt: at(15, 0)})
	require.NoError(t, err)
	_, err = svc.RouteData(context.Background(), ferry.RouteDataRequest{Route: seattleBainbridge, DepartAt: at(15, 0)})
	require.NoError(t, err)

	schedule, _ := client.calls()
	assert.Equal(t, 2, schedule)
}

func TestService_ScheduleErrorPropagates(t *testing.T) {
	client := &mockClient{configured: true, scheduleErr: errors.New("upstream down")}
	svc := newService(client)

	_, err := svc.RouteData(context.Background(), ferry.RouteDataRequest{
		Route:    edmondsKingston,
		DepartAt: at(15, 0),
	})
	assert.Error(t, err)
}

func TestService_RouteDetailsErrorPropagates(t *testing.T) {
	client := &mockClient{configured: true, detailsErr: errors.New("upstream down")}
	svc := newService(client)

	_, err := svc.RouteData(context.Background(), ferry.RouteDataRequest{
		Route:    edmondsKingston,
		DepartAt: at(15, 0),
	})
	assert.Error(t, err)
}

func intPtr(v int) *int { return &v }
