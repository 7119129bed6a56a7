// Package redis connects go-redis clients with retry and exposes a health check.
//
//	client, err := redis.Connect(ctx, redis.Config{
//		ConnectionURL: "redis://localhost:6379/0",
//		RetryAttempts: 3,
//		RetryInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Connect pings the server with exponential backoff (sethvargo/go-retry) and
// only returns a client that answered. Both redis:// and rediss:// URLs are
// accepted.
//
// # Error Handling
//
//   - ErrEmptyConnectionURL: no URL configured
//   - ErrFailedToParseRedisConnString: malformed URL
//   - ErrRedisNotReady: no successful ping within the attempts or timeout
//   - ErrHealthcheckFailed: ping failed in Healthcheck
package redis
