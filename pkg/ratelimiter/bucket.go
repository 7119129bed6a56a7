package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// Config defines a bucket: Capacity tokens at most, RefillRate tokens added
// every RefillInterval. Capacity == RefillRate gives a fixed window of
// Capacity requests per interval.
type Config struct {
	Capacity       int
	RefillRate     int
	RefillInterval time.Duration
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %s", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// Store persists bucket state.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// RateLimiter is the non-blocking contract.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
	AllowN(ctx context.Context, key string, n int) (*Result, error)
}

// Result describes the outcome of a token request.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
	now       time.Time
}

// Allowed reports whether the tokens were granted.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is the time until the next refill window.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(r.now), 0)
}

// Bucket implements RateLimiter on top of a Store and adds blocking waits.
type Bucket struct {
	store  Store
	config Config
	now    func() time.Time
	// turn admits one waiter at a time; goroutines blocked on a channel send
	// are released in arrival order.
	turn chan struct{}
}

// NewBucket creates a token bucket limiter.
func NewBucket(store Store, config Config) (*Bucket, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Bucket{
		store:  store,
		config: config,
		now:    time.Now,
		turn:   make(chan struct{}, 1),
	}, nil
}

// Allow consumes a single token.
func (b *Bucket) Allow(ctx context.Context, key string) (*Result, error) {
	return b.AllowN(ctx, key, 1)
}

// AllowN consumes n tokens if available.
func (b *Bucket) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	if n <= 0 || n > b.config.Capacity {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTokenCount, n)
	}

	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, n, b.config)
	if err != nil {
		return nil, err
	}

	return &Result{
		Limit:     b.config.Capacity,
		Remaining: remaining,
		ResetAt:   resetAt,
		now:       b.now(),
	}, nil
}

// Reset restores full capacity for key.
func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}

// Wait blocks until a token for key is granted or ctx is done.
func (b *Bucket) Wait(ctx context.Context, key string) error {
	return b.WaitN(ctx, key, 1)
}

// WaitN blocks until n tokens for key are granted or ctx is done.
// Concurrent waiters are served one at a time in arrival order.
func (b *Bucket) WaitN(ctx context.Context, key string, n int) error {
	select {
	case b.turn <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-b.turn }()

	for {
		result, err := b.AllowN(ctx, key, n)
		if err != nil {
			return err
		}
		if result.Allowed() {
			return nil
		}

		wait := result.RetryAfter()
		if wait <= 0 {
			wait = time.Millisecond
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Config returns the bucket configuration.
func (b *Bucket) Config() Config {
	return b.config
}
