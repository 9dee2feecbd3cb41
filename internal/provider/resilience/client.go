// Package resilience wraps outbound HTTP calls to upstream providers with a
// per-call timeout and a circuit breaker. Retries are available but off by
// default: the planner resolves a failed upstream call immediately instead
// of re-attempting it.
package resilience

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the provider's circuit breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ClientConfig holds configuration for the provider HTTP client.
type ClientConfig struct {
	// Name identifies the provider for circuit breaker naming.
	Name string

	// Timeout bounds each individual HTTP call. Default: 8 seconds.
	Timeout time.Duration

	// MaxRetries is the number of re-attempts after the first call.
	// Zero means a single attempt, which is the planner's policy.
	MaxRetries uint64

	// InitialInterval is the first retry backoff interval when retries
	// are enabled. Default: 100ms.
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff interval. Default: 2 seconds.
	MaxInterval time.Duration

	// Breaker overrides the circuit breaker configuration.
	Breaker *BreakerConfig
}

// DefaultClientConfig returns the planner's standard provider client
// settings: one attempt per call, 8 second timeout.
func DefaultClientConfig(name string) ClientConfig {
	bc := DefaultBreakerConfig(name)
	return ClientConfig{
		Name:    name,
		Timeout: 8 * time.Second,
		Breaker: &bc,
	}
}

// Client is an HTTP client guarded by a circuit breaker.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     ClientConfig
}

// NewClient creates a provider HTTP client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 2 * time.Second
	}

	bc := cfg.Breaker
	if bc == nil {
		def := DefaultBreakerConfig(cfg.Name)
		bc = &def
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    NewBreaker[*http.Response](*bc), //nolint:bodyclose // type param, not a response
		config:     cfg,
	}
}

// Do executes the request through the circuit breaker. 5xx responses count
// as failures for the breaker but are still returned to the caller, who
// owns the response body. With MaxRetries zero the request is attempted
// exactly once.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.do(req.Context(), req)
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastResp *http.Response

	attempt := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= 500 {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				lastResp = resp
			}
			return err
		}

		lastResp = resp
		return nil
	}

	if c.config.MaxRetries == 0 {
		if err := attempt(); err != nil {
			if lastResp != nil {
				return lastResp, nil
			}
			if perm := new(backoff.PermanentError); errors.As(err, &perm) {
				return nil, perm.Unwrap()
			}
			return nil, err
		}
		return lastResp, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)
	if err := backoff.Retry(attempt, policy); err != nil {
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}
	return lastResp, nil
}

// ServerError represents an HTTP 5xx response from a provider.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}

// BreakerState returns the current circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}
