// Package ratelimiter provides token bucket rate limiting with pluggable storage
// and blocking waits for outbound clients.
//
// A bucket holds at most Capacity tokens and gains RefillRate tokens every
// RefillInterval. Setting Capacity equal to RefillRate turns the bucket into a
// fixed window: no more than Capacity requests start within one interval.
//
// # Usage
//
//	store := ratelimiter.NewMemoryStore()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       10,
//		RefillRate:     10,
//		RefillInterval: time.Second,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Non-blocking check:
//
//	result, err := limiter.Allow(ctx, "api")
//	if err == nil && !result.Allowed() {
//		log.Printf("retry after %s", result.RetryAfter())
//	}
//
// Blocking acquisition, as used by HTTP transports:
//
//	if err := limiter.Wait(ctx, "api"); err != nil {
//		return err // ctx cancelled or deadline exceeded
//	}
//
// Wait admits concurrent callers one at a time in arrival order, so requests
// are not reordered beyond what throttling requires.
//
// # Error Handling
//
//   - ErrInvalidConfig: non-positive capacity, rate or interval
//   - ErrInvalidTokenCount: n <= 0 or larger than capacity
//
// Context errors from Wait are returned unchanged.
package ratelimiter
