package transport

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithRoundTripper replaces the underlying HTTP transport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.http.Transport = rt
		}
	}
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLimiter sets the limiter every request waits on. Share one limiter
// between clients that must respect a common budget.
func WithLimiter(l Limiter) Option {
	return func(c *Client) {
		if l != nil {
			c.limiter = l
		}
	}
}

// WithLimiterKey sets the bucket key used with the limiter.
func WithLimiterKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.limiterKey = key
		}
	}
}

// WithHeaders sets the identity headers. Zero fields fall back to defaults.
func WithHeaders(h Headers) Option {
	return func(c *Client) {
		c.identity = h
	}
}

// WithClock sets the time source of the X-Utc-Offset header.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}
