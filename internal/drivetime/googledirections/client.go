// Package googledirections implements the drive-time provider against the
// Google Directions API.
package googledirections

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/takemehome/takemehome/internal/drivetime"
	"github.com/takemehome/takemehome/internal/provider/resilience"
)

const (
	// ProviderName identifies this directions provider.
	ProviderName = "google-directions"

	// DefaultBaseURL is the Google Directions API endpoint.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/directions/json"
)

// ClientConfig holds configuration for the Google Directions client.
type ClientConfig struct {
	// APIKey is the Google Maps API key. Empty means unconfigured.
	APIKey string

	// BaseURL is the API endpoint (optional, defaults to the public API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a single-attempt resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Directions API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Google Directions client.
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
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// GetDriveTime fetches the duration of one drive leg. The traffic-adjusted
// duration is preferred over the scheduled one when the response carries
// both. A response with no routes or no duration yields (nil, nil).
func (c *Client) GetDriveTime(ctx context.Context, dreq drivetime.Request) (*drivetime.Estimate, error) {
	params := url.Values{}
	params.Set("origin", dreq.Origin.String())
	params.Set("destination", dreq.Destination.String())
	params.Set("key", c.apiKey)

	if dreq.DepartAt != nil {
		params.Set("departure_time", strconv.FormatInt(dreq.DepartAt.Unix(), 10))
	} else {
		params.Set("departure_time", "now")
	}

	if len(dreq.Waypoints) > 0 {
		vias := make([]string, 0, len(dreq.Waypoints))
		for _, wp := range dreq.Waypoints {
			vias = append(vias, "via:"+wp.String())
		}
		params.Set("waypoints", strings.Join(vias, "|"))
	}
	if len(dreq.Avoid) > 0 {
		params.Set("avoid", strings.Join(dreq.Avoid, "|"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var dirResp directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dirResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return toEstimate(&dirResp), nil
}

// toEstimate extracts the first leg's duration from the response.
func toEstimate(resp *directionsResponse) *drivetime.Estimate {
	if len(resp.Routes) == 0 || len(resp.Routes[0].Legs) == 0 {
		return nil
	}

	leg := resp.Routes[0].Legs[0]
	seconds := 0
	if leg.DurationInTraffic != nil && leg.DurationInTraffic.Value > 0 {
		seconds = leg.DurationInTraffic.Value
	} else if leg.Duration != nil {
		seconds = leg.Duration.Value
	}

	if seconds <= 0 {
		return nil
	}
	return &drivetime.Estimate{DurationSeconds: seconds}
}

// Google Directions API response structures.

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Duration          *durationValue `json:"duration"`
			DurationInTraffic *durationValue `json:"duration_in_traffic"`
		} `json:"legs"`
	} `json:"routes"`
}

type durationValue struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}
