package ratelimiter

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// bucket represents a token bucket state.
type bucket struct {
	tokens     int
	lastRefill time.Time
}

// MemoryStore implements Store using in-memory storage.
// It is meant to live for the whole process and be shared by every caller
// that must respect the same budget.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
	logger  *slog.Logger

	// Observability metrics
	consumed atomic.Int64
	denied   atomic.Int64
}

// MemoryStoreStats provides observability metrics for monitoring and debugging.
type MemoryStoreStats struct {
	Consumed      int64 // Total number of tokens handed out
	Denied        int64 // Total number of requests that found the bucket short
	ActiveBuckets int   // Current number of buckets
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryStoreLogger sets the logger for internal operations.
func WithMemoryStoreLogger(logger *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

// WithMemoryStoreClock overrides the time source used for refills.
func WithMemoryStoreClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(ms)
	}

	return ms
}

// ConsumeTokens attempts to take tokens from the bucket identified by key.
// When the bucket holds fewer tokens than requested nothing is taken and the
// returned remaining value is negative: the shortfall against the request.
// resetAt is the start of the next refill window.
func (ms *MemoryStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error) {
	if err := ctx.Err(); err != nil {
		return 0, time.Time{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	b, exists := ms.buckets[key]
	if !exists {
		b = &bucket{
			tokens:     config.Capacity,
			lastRefill: now,
		}
		ms.buckets[key] = b
	}

	// Whole windows since the last refill each add RefillRate tokens. The window
	// start advances by whole intervals so boundaries stay fixed over time.
	elapsed := now.Sub(b.lastRefill)
	maxIntervals := int64(config.Capacity/config.RefillRate + 1)
	intervalsElapsed := min(int64(elapsed/config.RefillInterval), maxIntervals)

	if intervalsElapsed > 0 {
		b.tokens = min(b.tokens+int(intervalsElapsed)*config.RefillRate, config.Capacity)
		if intervalsElapsed == maxIntervals {
			b.lastRefill = now
		} else {
			b.lastRefill = b.lastRefill.Add(time.Duration(intervalsElapsed) * config.RefillInterval)
		}
	}

	resetAt = b.lastRefill.Add(config.RefillInterval)

	if b.tokens < tokens {
		ms.denied.Add(1)
		return b.tokens - tokens, resetAt, nil
	}

	b.tokens -= tokens
	ms.consumed.Add(int64(tokens))

	return b.tokens, resetAt, nil
}

// Reset drops the bucket for key so the next request starts at full capacity.
func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.buckets, key)
	ms.logger.DebugContext(ctx, "rate limit bucket reset", slog.String("key", key))
	return nil
}

// Stats returns current memory store statistics.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.Lock()
	active := len(ms.buckets)
	ms.mu.Unlock()

	return MemoryStoreStats{
		Consumed:      ms.consumed.Load(),
		Denied:        ms.denied.Load(),
		ActiveBuckets: active,
	}
}
