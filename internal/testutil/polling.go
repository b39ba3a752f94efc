// Package testutil holds helpers shared by the nutri tests: polling for
// asynchronous state, channel receives with deadlines, platform checks and
// unique fixture names.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// Poll repeatedly checks a condition until it becomes true or timeout expires.
// Returns an error if timeout expires before condition becomes true.
func Poll(ctx context.Context, condition func() bool, timeout time.Duration, interval time.Duration) error {
	start := time.Now()
	for {
		if condition() {
			return nil
		}

		if time.Since(start) >= timeout {
			return fmt.Errorf("timeout waiting for condition (threshold: %v)", timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// WaitForState waits until getter returns a value that satisfies predicate,
// or timeout expires.
//
// Example usage:
//
//	snap, err := WaitForState(ctx, store.Snapshot,
//		func(s state.State) bool { return !s.Auth.IsLoading },
//		WaitTimeout, PollingInterval)
func WaitForState[T any](ctx context.Context, getter func() T, predicate func(T) bool, timeout time.Duration, interval time.Duration) (T, error) {
	start := time.Now()
	for {
		state := getter()

		if predicate(state) {
			return state, nil
		}

		if time.Since(start) >= timeout {
			var zero T
			return zero, fmt.Errorf("timeout waiting for target state (type %T, threshold: %v)", *new(T), timeout)
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Receive returns the next value from ch, failing the test if none arrives
// within timeout or ch is closed.
func Receive[T any](t testing.TB, ch <-chan T, timeout time.Duration) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed while waiting for %T", v)
		}
		return v
	case <-time.After(timeout):
		var zero T
		t.Fatalf("timeout waiting for %T (threshold: %v)", zero, timeout)
		return zero
	}
}

// AssertNoReceive fails the test if ch yields a value within wait.
func AssertNoReceive[T any](t testing.TB, ch <-chan T, wait time.Duration) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected receive: %+v", v)
	case <-time.After(wait):
	}
}
