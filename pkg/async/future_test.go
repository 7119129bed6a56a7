package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stovelib/stove/pkg/async"
)

func TestAsyncReturnsValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	future := async.Async(ctx, 21, func(ctx context.Context, n int) (int, error) {
		time.Sleep(20 * time.Millisecond)
		return n * 2, nil
	})

	v, err := future.Await()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v != 42 {
		t.Errorf("Expected 42, got %d", v)
	}
	if !future.IsComplete() {
		t.Error("Expected future to be complete after Await")
	}
}

func TestAsyncErrorPropagation(t *testing.T) {
	t.Parallel()
	expectedErr := errors.New("lookup failed")

	future := async.Async(context.Background(), "id", func(ctx context.Context, _ string) (string, error) {
		return "", expectedErr
	})

	if _, err := future.Await(); !errors.Is(err, expectedErr) {
		t.Errorf("Expected error '%v', got: %v", expectedErr, err)
	}
}

func TestAsyncCancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	future := async.Async(ctx, 1, func(ctx context.Context, _ int) (int, error) {
		called = true
		return 1, nil
	})

	if _, err := future.Await(); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if called {
		t.Error("Function must not run with a cancelled context")
	}
}

func TestAwaitWithTimeout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	slow := async.Async(ctx, 200*time.Millisecond, func(ctx context.Context, d time.Duration) (bool, error) {
		time.Sleep(d)
		return true, nil
	})

	if _, err := slow.AwaitWithTimeout(20 * time.Millisecond); !errors.Is(err, async.ErrTimeout) {
		t.Errorf("Expected ErrTimeout, got: %v", err)
	}
}

func TestWaitAllRunsConcurrently(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sleep := func(ctx context.Context, d time.Duration) (time.Duration, error) {
		time.Sleep(d)
		return d, nil
	}

	start := time.Now()
	values, err := async.WaitAll(
		async.Async(ctx, 100*time.Millisecond, sleep),
		async.Async(ctx, 50*time.Millisecond, sleep),
		async.Async(ctx, 70*time.Millisecond, sleep),
	)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if values[0] != 100*time.Millisecond || values[1] != 50*time.Millisecond || values[2] != 70*time.Millisecond {
		t.Errorf("Values out of order: %v", values)
	}
	if elapsed >= 200*time.Millisecond {
		t.Errorf("Expected concurrent execution, took %v", elapsed)
	}
}

func TestWaitAllKeepsOtherValues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	expectedErr := errors.New("second failed")

	values, err := async.WaitAll(
		async.Async(ctx, "a", func(ctx context.Context, s string) (string, error) { return s, nil }),
		async.Async(ctx, "b", func(ctx context.Context, s string) (string, error) { return "", expectedErr }),
		async.Async(ctx, "c", func(ctx context.Context, s string) (string, error) { return s, nil }),
	)

	if !errors.Is(err, expectedErr) {
		t.Errorf("Expected error '%v', got: %v", expectedErr, err)
	}
	if values[0] != "a" || values[2] != "c" {
		t.Errorf("Expected successful values kept, got %v", values)
	}
}

func TestWaitAny(t *testing.T) {
	t.Parallel()

	if _, _, err := async.WaitAny[int](); !errors.Is(err, async.ErrNoFutures) {
		t.Errorf("Expected ErrNoFutures, got: %v", err)
	}

	ctx := context.Background()
	sleep := func(ctx context.Context, ms int) (int, error) {
		time.Sleep(time.Duration(ms) * time.Millisecond)
		return ms, nil
	}

	index, v, err := async.WaitAny(
		async.Async(ctx, 150, sleep),
		async.Async(ctx, 10, sleep),
	)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if index != 1 || v != 10 {
		t.Errorf("Expected fastest future (1, 10), got (%d, %d)", index, v)
	}
}
