package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/stovelib/stove/core/logger"
	"github.com/stovelib/stove/pkg/ratelimiter"
)

// Limiter blocks until a request may start.
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// DefaultLimiterKey is the bucket shared by all storefront API traffic.
const DefaultLimiterKey = "stove-api"

// Client sends rate-limited requests carrying the storefront identity headers.
type Client struct {
	http       *http.Client
	limiter    Limiter
	limiterKey string
	identity   Headers
	header     http.Header
	location   *time.Location
	now        func() time.Time
	logger     *slog.Logger
}

// New builds a Client. Without WithLimiter a private 10 requests per second
// fixed window is used.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		http:       &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone(), Timeout: 30 * time.Second},
		limiterKey: DefaultLimiterKey,
		identity:   DefaultHeaders(),
		now:        time.Now,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	header, err := c.identity.Build(c.now())
	if err != nil {
		return nil, err
	}
	// Build has validated the zone.
	c.location, _ = time.LoadLocation(c.identity.withDefaults().Timezone)
	header.Del(headerUTCOffset)
	c.header = header

	if c.limiter == nil {
		bucket, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
			Capacity:       10,
			RefillRate:     10,
			RefillInterval: time.Second,
		})
		if err != nil {
			return nil, err
		}
		c.limiter = bucket
	}

	return c, nil
}

// Send waits for a rate limit slot, fills in identity headers the request does
// not already carry and dispatches it. Limiter and transport errors are
// returned as they are.
func (c *Client) Send(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if err := c.limiter.Wait(ctx, c.limiterKey); err != nil {
		return nil, err
	}

	for name, values := range c.header {
		if req.Header.Get(name) == "" {
			req.Header[name] = values
		}
	}
	if req.Header.Get(headerUTCOffset) == "" {
		req.Header.Set(headerUTCOffset, utcOffset(c.now(), c.location))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "request failed",
			logger.Method(req.Method),
			logger.URL(req.URL.String()),
			logger.Elapsed(start),
			logger.Error(err),
		)
		return nil, err
	}

	c.logger.DebugContext(ctx, "request completed",
		logger.Method(req.Method),
		logger.URL(req.URL.String()),
		logger.StatusCode(resp.StatusCode),
		logger.Elapsed(start),
	)
	return resp, nil
}

// Get issues a GET. A non-empty token is sent as a bearer credential.
func (c *Client) Get(ctx context.Context, url, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.Send(req)
}

// GetJSON issues a GET and decodes a 2xx JSON body into dst. Other statuses
// yield a *StatusError.
func (c *Client) GetJSON(ctx context.Context, url, token string, dst any) error {
	resp, err := c.Get(ctx, url, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &StatusError{Code: resp.StatusCode, URL: url}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// Header returns a copy of the identity headers a request sent now would
// carry.
func (c *Client) Header() http.Header {
	h := c.header.Clone()
	h.Set(headerUTCOffset, utcOffset(c.now(), c.location))
	return h
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
