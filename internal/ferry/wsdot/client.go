// Package wsdot implements the ferry schedule client against the WSDOT
// Ferries schedule API.
package wsdot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/takemehome/takemehome/internal/ferry"
	"github.com/takemehome/takemehome/internal/provider/resilience"
)

const (
	// ProviderName identifies this schedule provider.
	ProviderName = "wsdot"

	// DefaultBaseURL is the WSDOT Ferries schedule API base URL.
	DefaultBaseURL = "https://wsdot.wa.gov/Ferries/API/Schedule/rest"

	userAgent = "take-me-home/0.1"
)

// ClientConfig holds configuration for the WSDOT client.
type ClientConfig struct {
	// AccessCode is the WSDOT API access code. Empty means unconfigured.
	AccessCode string

	// BaseURL is the API base URL (optional, defaults to the public API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a single-attempt resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a WSDOT Ferries schedule API client.
type Client struct {
	accessCode string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new WSDOT client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		accessCode: cfg.AccessCode,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Configured reports whether an access code is present.
func (c *Client) Configured() bool {
	return c.accessCode != ""
}

// ScheduleToday fetches today's sailings between two terminals and
// normalizes whatever response shape the endpoint version returns.
func (c *Client) ScheduleToday(ctx context.Context, departingTerminalID, arrivingTerminalID int, onlyRemaining bool) ([]ferry.Sailing, error) {
	path := fmt.Sprintf("/scheduletoday/%d/%d/%t", departingTerminalID, arrivingTerminalID, onlyRemaining)

	payload, err := c.fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	sailings := extractSailings(payload)
	c.logger.Debug().
		Int("departing_terminal", departingTerminalID).
		Int("arriving_terminal", arrivingTerminalID).
		Int("sailings", len(sailings)).
		Msg("fetched schedule")

	return sailings, nil
}

// RouteDetails fetches the route description for a trip date. The endpoint
// may answer with a single object or a list; the first element wins.
func (c *Client) RouteDetails(ctx context.Context, tripDate string, departingTerminalID, arrivingTerminalID int) (*ferry.RouteDetails, error) {
	path := fmt.Sprintf("/routedetails/%s/%d/%d", tripDate, departingTerminalID, arrivingTerminalID)

	payload, err := c.fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	return toRouteDetails(payload), nil
}

// fetch performs one authenticated GET and returns the raw body.
func (c *Client) fetch(ctx context.Context, path string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("apiaccesscode", c.accessCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("schedule request failed (%d): %s", resp.StatusCode, body)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return payload, nil
}

// toRouteDetails extracts the crossing time from a route-details payload.
func toRouteDetails(payload json.RawMessage) *ferry.RouteDetails {
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err == nil {
		if len(items) == 0 {
			return nil
		}
		payload = items[0]
	}

	var detail struct {
		CrossingTime *crossingTime `json:"CrossingTime"`
	}
	if err := json.Unmarshal(payload, &detail); err != nil || detail.CrossingTime == nil {
		return nil
	}

	minutes := int(*detail.CrossingTime)
	return &ferry.RouteDetails{CrossingTimeMinutes: &minutes}
}

// crossingTime tolerates the provider encoding the value as either a
// number or a numeric string.
type crossingTime float64

func (ct *crossingTime) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*ct = crossingTime(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*ct = 0
		return nil
	}
	var parsed float64
	if _, err := fmt.Sscanf(s, "%f", &parsed); err != nil {
		return err
	}
	*ct = crossingTime(parsed)
	return nil
}
