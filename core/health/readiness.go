package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stovelib/stove/core/logger"
)

// ErrNotReady wraps every failed readiness check.
var ErrNotReady = errors.New("health: not ready")

// Check is a named dependency probe.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// Named pairs a probe with a name for logs and errors.
func Named(name string, fn func(context.Context) error) Check {
	return Check{Name: name, Fn: fn}
}

// Readiness runs every check and joins the failures. No checks means ready.
//
// Example:
//
//	err := health.Readiness(ctx, log,
//		health.Named("redis", redis.Healthcheck(client)),
//		health.Named("sqlite", sqlite.Healthcheck(db)),
//	)
func Readiness(ctx context.Context, log *slog.Logger, checks ...Check) error {
	if log == nil {
		log = logger.Discard()
	}

	var errs []error
	for _, c := range checks {
		if c.Fn == nil {
			continue
		}
		if err := c.Fn(ctx); err != nil {
			log.ErrorContext(ctx, "readiness check failed", slog.String("check", c.Name), logger.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrNotReady, errors.Join(errs...))
	}
	return nil
}
