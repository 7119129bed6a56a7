package session

import (
	"log/slog"
	"time"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScopeKey overrides the user-scope key. Tests use it to simulate another
// user or machine.
func WithScopeKey(key []byte) Option {
	return func(s *Store) {
		if len(key) > 0 {
			s.scopeKey = key
		}
	}
}

// WithClock sets the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}
