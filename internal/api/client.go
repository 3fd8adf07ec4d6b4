// Package api communicates with the London Unified Prayer Times API.
//
// The provider is served from two hostnames; Client rotates through
// every candidate endpoint on each attempt and only fails a year once
// the whole attempt x endpoint matrix is exhausted. Beneath that loop,
// individual requests retry transient failures (429/5xx, connection
// errors) with capped exponential backoff.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"
)

// DefaultEndpoints lists the provider URLs in preference order. The
// apex domain serves the same API and acts as a mirror when www fails.
var DefaultEndpoints = []string{
	"https://www.londonprayertimes.com/api/times/",
	"https://londonprayertimes.com/api/times/",
}

const (
	defaultMaxAttempts = 3

	// Connect and read phases are bounded separately.
	connectTimeout = 10 * time.Second
	requestTimeout = 25 * time.Second

	// Transport-level retry beneath the endpoint/attempt loop: 3 tries
	// per request with capped exponential backoff.
	transportRetries = 2
	initialBackoff   = time.Second
	maxBackoff       = 8 * time.Second

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/123.0.0.0 Safari/537.36"
)

// Client fetches yearly prayer-time records from the provider.
type Client struct {
	httpClient *http.Client

	// Endpoints and MaxAttempts are exported for testing with httptest
	// and for flag overrides. A single-endpoint list degrades to a
	// plain attempt loop.
	Endpoints   []string
	MaxAttempts int

	// Backoff is the initial transport retry delay. Tests shrink it.
	Backoff time.Duration

	apiKey string
}

// NewClient creates a client with the default endpoints and limits.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
		Endpoints:   append([]string(nil), DefaultEndpoints...),
		MaxAttempts: defaultMaxAttempts,
		Backoff:     initialBackoff,
		apiKey:      apiKey,
	}
}

// FetchYear fetches a full calendar year of day records keyed by ISO
// date string. Every endpoint is tried in order before the attempt
// counter advances; the first valid response wins. Exhausting the whole
// matrix returns a FetchError wrapping the last underlying error.
func (c *Client) FetchYear(ctx context.Context, year int) (map[string]map[string]string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		for _, endpoint := range c.Endpoints {
			times, err := c.fetchOnce(ctx, endpoint, year)
			if err == nil {
				return times, nil
			}
			lastErr = err
			log.Warn().
				Int("attempt", attempt).
				Int("max_attempts", c.MaxAttempts).
				Str("endpoint", endpoint).
				Int("year", year).
				Err(err).
				Msg("fetch attempt failed")
		}
	}

	return nil, &FetchError{Year: year, Err: lastErr}
}

// FetchYears merges per-year fetches into one combined mapping. On
// failure it returns the years fetched so far alongside the error, so
// the caller can still apply stale fallback to the partial result.
func (c *Client) FetchYears(ctx context.Context, years []int) (map[string]map[string]string, error) {
	combined := make(map[string]map[string]string)
	for _, year := range years {
		times, err := c.FetchYear(ctx, year)
		if err != nil {
			return combined, err
		}
		for date, record := range times {
			combined[date] = record
		}
	}
	return combined, nil
}

// fetchOnce performs one logical request against one endpoint, with
// connection-level retry on retryable status classes underneath.
func (c *Client) fetchOnce(ctx context.Context, endpoint string, year int) (map[string]map[string]string, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("key", c.apiKey)
	params.Set("24hours", "true")
	params.Set("year", strconv.Itoa(year))
	reqURL := endpoint + "?" + params.Encode()

	backoff := retry.WithMaxRetries(transportRetries,
		retry.WithCappedDuration(maxBackoff, retry.NewExponential(c.Backoff)))

	var body []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if retryableStatus(resp.StatusCode) {
			return retry.RetryableError(fmt.Errorf("API returned status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("API returned status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var payload timesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}
	if payload.Times == nil {
		return nil, fmt.Errorf("API response for year %d does not include a valid 'times' object", year)
	}

	return payload.Times, nil
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
