package stove

import (
	"log/slog"
	"net/http"

	"github.com/stovelib/stove/core/session"
	"github.com/stovelib/stove/core/transport"
	"github.com/stovelib/stove/pkg/clock"
)

// Option configures a Client.
type Option func(*Client)

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces the time source of every delay and expiry check.
func WithClock(cl clock.Clock) Option {
	return func(c *Client) {
		if cl != nil {
			c.clock = cl
		}
	}
}

// WithLimiter shares a request budget between clients.
func WithLimiter(l transport.Limiter) Option {
	return func(c *Client) {
		if l != nil {
			c.limiter = l
		}
	}
}

// WithSessionBackend bypasses the configured backend selection.
func WithSessionBackend(b session.Backend) Option {
	return func(c *Client) {
		if b != nil {
			c.backend = b
		}
	}
}

// WithScopeKey replaces the OS user scope of session encryption.
func WithScopeKey(key []byte) Option {
	return func(c *Client) {
		if len(key) > 0 {
			c.scopeKey = key
		}
	}
}

// WithRoundTripper sets the HTTP transport of API calls.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.roundTripper = rt
		}
	}
}
