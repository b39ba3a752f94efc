package testutil

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoll(t *testing.T) {
	t.Run("condition becomes true", func(t *testing.T) {
		calls := 0
		err := Poll(context.Background(), func() bool {
			calls++
			return calls >= 3
		}, time.Second, time.Millisecond)
		require.NoError(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("timeout", func(t *testing.T) {
		err := Poll(context.Background(), func() bool { return false }, 30*time.Millisecond, 5*time.Millisecond)
		require.Error(t, err)
	})

	t.Run("context cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Poll(ctx, func() bool { return false }, time.Second, 5*time.Millisecond)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestWaitForState(t *testing.T) {
	var n atomic.Int32
	go func() {
		for i := 0; i < 5; i++ {
			n.Add(1)
			time.Sleep(time.Millisecond)
		}
	}()

	got, err := WaitForState(context.Background(), n.Load,
		func(v int32) bool { return v == 5 }, WaitTimeout, PollingInterval)
	require.NoError(t, err)
	require.Equal(t, int32(5), got)

	got, err = WaitForState(context.Background(), func() int32 { return 1 },
		func(v int32) bool { return v == 2 }, 30*time.Millisecond, 5*time.Millisecond)
	require.Error(t, err)
	require.Zero(t, got, "zero value on timeout")
}
