// Package mapbox talks to the Mapbox Tokens and Directions APIs.
package mapbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/observability"
	"github.com/JamesKof/ghana-health-connect-sub000/pkg/config"
)

const (
	defaultBaseURL     = "https://api.mapbox.com"
	defaultProfile     = "mapbox/driving"
	defaultHTTPTimeout = 8 * time.Second

	// Consecutive failures after which calls short-circuit.
	breakerTripAfter = 5
	breakerOpenFor   = 30 * time.Second
)

// Options configures the providers. Zero values fall back to defaults.
type Options struct {
	HTTPClient *http.Client
	Metrics    *observability.Metrics
	Logger     *zerolog.Logger
}

type client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

func newClient(name string, cfg *config.MapboxConfig, opts Options) *client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger = logger.With().Str("provider", name).Logger()

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: breakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripAfter
		},
		IsSuccessful: func(err error) bool {
			var statusErr *statusError
			return err == nil || (errors.As(err, &statusErr) && statusErr.Code < 500)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	})

	return &client{
		httpClient: httpClient,
		baseURL:    baseURL,
		breaker:    breaker,
		metrics:    opts.Metrics,
		logger:     logger,
	}
}

// do executes req through the breaker and returns the body of a 2xx response.
func (c *client) do(ctx context.Context, operation string, req *http.Request) ([]byte, error) {
	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", redactURL(err))
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return body, &statusError{Code: resp.StatusCode, Body: string(body)}
		}
		return body, nil
	})
	observability.RecordProviderCall(ctx, c.metrics, operation, err, time.Since(start))

	if err != nil {
		c.logger.Error().Err(err).Str("operation", operation).Msg("Mapbox API call failed")
		body, _ := out.([]byte)
		return body, err
	}
	return out.([]byte), nil
}

// redactURL drops the query string, which carries the access token, from a
// transport error.
func redactURL(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	redacted := "[redacted]"
	if u, parseErr := url.Parse(urlErr.URL); parseErr == nil {
		u.RawQuery = ""
		u.User = nil
		redacted = u.String()
	}
	return &url.Error{Op: urlErr.Op, URL: redacted, Err: urlErr.Err}
}

type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("mapbox API error: status %d, body: %s", e.Code, e.Body)
}
