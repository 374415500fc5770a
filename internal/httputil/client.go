// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the JSON HTTP client shared by profile sources.
package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultTimeout is the per-request timeout when none is configured.
const DefaultTimeout = 30 * time.Second

// maxErrorBody bounds how much of a non-200 body is quoted in errors.
const maxErrorBody = 512

// Cache stores raw response bodies by key. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte) error
}

// Client issues GET requests and decodes JSON responses. It applies a
// shared rate limit across goroutines and never retries: a failed request
// is returned to the caller as an error.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Header    http.Header

	limiter *rate.Limiter
	cache   Cache
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit limits outgoing requests to perSecond with the given burst.
// perSecond <= 0 leaves the client unlimited.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithCache enables response caching for requests made with GetJSONCached.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithLogger sets the logger for cache diagnostics. The default discards.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHeader adds a header sent on every request (e.g. an API key).
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if value != "" {
			c.Header.Set(key, value)
		}
	}
}

// NewClient returns a Client with the given timeout and User-Agent.
func NewClient(timeout time.Duration, userAgent string, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: userAgent,
		Header:    make(http.Header),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s returned HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s returned HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}

// GetJSON fetches url and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	return decode(url, body, v)
}

// GetJSONCached is GetJSON backed by the configured Cache. Without a cache it
// behaves like GetJSON. Cache read and write failures fall back to the network.
func (c *Client) GetJSONCached(ctx context.Context, url string, v any) error {
	if c.cache == nil {
		return c.GetJSON(ctx, url, v)
	}
	body, ok, err := c.cache.Get(ctx, url)
	switch {
	case err != nil:
		c.logger.Debug().Err(err).Str("url", url).Msg("cache read failed")
	case ok:
		if err := decode(url, body, v); err == nil {
			return nil
		}
		c.logger.Debug().Str("url", url).Msg("discarding undecodable cache entry")
	}
	body, err = c.get(ctx, url)
	if err != nil {
		return err
	}
	if err := decode(url, body, v); err != nil {
		return err
	}
	if err := c.cache.Put(ctx, url, body); err != nil {
		c.logger.Debug().Err(err).Str("url", url).Msg("cache write failed")
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vals := range c.Header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	return body, nil
}

func decode(url string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parsing response from %s: %w", url, err)
	}
	return nil
}
