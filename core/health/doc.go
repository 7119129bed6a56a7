// Package health runs dependency probes for the session backends.
//
// Probes follow the func(context.Context) error signature used by the
// database integrations:
//
//	err := health.Readiness(ctx, log,
//		health.Named("redis", redis.Healthcheck(client)),
//	)
//	if errors.Is(err, health.ErrNotReady) {
//		// at least one dependency is down
//	}
package health
