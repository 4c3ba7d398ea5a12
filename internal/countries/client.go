// internal/countries/client.go
//
// REST Countries (v3.1) client.
// Responsibilities:
//   - Fetch every territory with name, cca3 and borders in one request.
//   - Look up a single territory's borders or name by code.
//   - Respect the API's rate limits with a token bucket and retry transient failures
//     (network errors, 429, 5xx) with linear backoff.
//
// Every failure surfaces as an error wrapping territory.ErrDataSource.

package countries

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/robalobadob/borders/apps/go-server/internal/territory"
)

// DefaultBaseURL is the public REST Countries endpoint.
const DefaultBaseURL = "https://restcountries.com/v3.1"

// Client talks to a REST Countries compatible API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retries int
	backoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) ClientOption { return func(c *Client) { c.http = h } }

// WithTimeout bounds each request attempt.
func WithTimeout(d time.Duration) ClientOption { return func(c *Client) { c.http.Timeout = d } }

// WithRateLimit allows perSec requests per second with the given burst.
// perSec <= 0 disables limiting.
func WithRateLimit(perSec float64, burst int) ClientOption {
	return func(c *Client) {
		if perSec <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
	}
}

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) ClientOption { return func(c *Client) { c.retries = max(n, 0) } }

// WithBackoff sets the base delay between retries; attempt k waits k*d.
func WithBackoff(d time.Duration) ClientOption { return func(c *Client) { c.backoff = d } }

// NewClient constructs a Client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(2), 1),
		retries: 3,
		backoff: 500 * time.Millisecond,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchAll returns every territory record.
func (c *Client) FetchAll(ctx context.Context) ([]territory.Record, error) {
	var recs []territory.Record
	if err := c.get(ctx, "/all?fields=name,cca3,borders", &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// FetchBorders returns the border codes of one territory.
func (c *Client) FetchBorders(ctx context.Context, code string) ([]string, error) {
	rec, err := c.fetchOne(ctx, code, "borders")
	if err != nil {
		return nil, err
	}
	if rec.Borders == nil {
		return []string{}, nil
	}
	return rec.Borders, nil
}

// FetchName returns the common name of one territory.
func (c *Client) FetchName(ctx context.Context, code string) (string, error) {
	rec, err := c.fetchOne(ctx, code, "name")
	if err != nil {
		return "", err
	}
	if rec.Name.Common == "" {
		return "", fmt.Errorf("%w: %s: %w", territory.ErrDataSource, code, territory.ErrMissingName)
	}
	return rec.Name.Common, nil
}

// fetchOne accepts both an object and a one-element array, the API returns either.
func (c *Client) fetchOne(ctx context.Context, code, fields string) (territory.Record, error) {
	var raw json.RawMessage
	path := "/alpha/" + url.PathEscape(code) + "?fields=" + fields
	if err := c.get(ctx, path, &raw); err != nil {
		return territory.Record{}, err
	}

	var rec territory.Record
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		var list []territory.Record
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return rec, fmt.Errorf("%w: decode %s: %w", territory.ErrDataSource, path, err)
		}
		if len(list) == 0 {
			return rec, fmt.Errorf("%w: %s: empty response", territory.ErrDataSource, path)
		}
		return list[0], nil
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("%w: decode %s: %w", territory.ErrDataSource, path, err)
	}
	return rec, nil
}

// get performs a rate-limited GET with retries and decodes the JSON body into v.
func (c *Client) get(ctx context.Context, path string, v any) error {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			log.Warn().Err(lastErr).Str("path", path).Int("attempt", attempt).Msg("retrying countries request")
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", territory.ErrDataSource, ctx.Err())
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %w", territory.ErrDataSource, err)
		}

		retry, err := c.do(ctx, path, v)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("%w: GET %s: %w", territory.ErrDataSource, path, lastErr)
}

// statusError is a non-2xx response.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// do runs one attempt and reports whether a failure is worth retrying.
func (c *Client) do(ctx context.Context, path string, v any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		serr := &statusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, serr
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return false, fmt.Errorf("decode: %w", err)
	}
	return false, nil
}
