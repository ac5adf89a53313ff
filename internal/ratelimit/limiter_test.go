package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForHostAppliesDelayPerCall(t *testing.T) {
	l := NewLimiter(Config{
		RequestsPerSecond: 1000,
		BurstSize:         1000,
		RequestDelay:      50 * time.Millisecond,
	})

	start := time.Now()
	require.NoError(t, l.WaitForHost(context.Background(), "example.com"))
	require.NoError(t, l.WaitForHost(context.Background(), "example.com"))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond,
		"each call pays the delay, not each host")
}

func TestWaitForHostNoDelay(t *testing.T) {
	l := NewLimiter(Config{RequestsPerSecond: 1000, BurstSize: 1000})

	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, l.WaitForHost(context.Background(), "example.com"))
	}

	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestWaitForHostEnforcesHostGap(t *testing.T) {
	l := NewLimiter(Config{
		RequestsPerSecond: 1000,
		BurstSize:         1000,
		MinHostDelay:      60 * time.Millisecond,
	})

	start := time.Now()
	require.NoError(t, l.WaitForHost(context.Background(), "example.com"))
	require.NoError(t, l.WaitForHost(context.Background(), "example.com"))

	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond,
		"consecutive calls to one host keep the minimum gap")
}

func TestWaitForHostGapIsPerHost(t *testing.T) {
	l := NewLimiter(Config{
		RequestsPerSecond: 1000,
		BurstSize:         1000,
		MinHostDelay:      500 * time.Millisecond,
	})

	start := time.Now()
	require.NoError(t, l.WaitForHost(context.Background(), "crt.sh"))
	require.NoError(t, l.WaitForHost(context.Background(), "ip-api.com"))
	require.NoError(t, l.WaitForHost(context.Background(), "ipapi.co"))

	assert.Less(t, time.Since(start), 400*time.Millisecond,
		"distinct hosts never wait on each other's gap")
}

func TestWaitForHostGapResets(t *testing.T) {
	l := NewLimiter(Config{
		RequestsPerSecond: 1000,
		BurstSize:         1000,
		MinHostDelay:      500 * time.Millisecond,
	})

	require.NoError(t, l.WaitForHost(context.Background(), "example.com"))
	l.Reset()

	start := time.Now()
	require.NoError(t, l.WaitForHost(context.Background(), "example.com"))
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestWaitForHostCancelledDuringDelay(t *testing.T) {
	l := NewLimiter(Config{
		RequestsPerSecond: 1000,
		BurstSize:         1000,
		RequestDelay:      10 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := l.WaitForHost(ctx, "example.com")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitRespectsGlobalBudget(t *testing.T) {
	// 10 rps with burst 1: the second request must wait ~100ms.
	l := NewLimiter(Config{RequestsPerSecond: 10, BurstSize: 1})

	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	require.NoError(t, l.Wait(context.Background()))

	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestNewLimiterDefaultsInvalidConfig(t *testing.T) {
	l := NewLimiter(Config{RequestsPerSecond: -1, BurstSize: -1})

	require.NoError(t, l.Wait(context.Background()))
	assert.Equal(t, time.Duration(0), l.Delay())
}

func TestReset(t *testing.T) {
	l := NewLimiter(DefaultConfig())
	require.NoError(t, l.WaitForHost(context.Background(), "example.com"))

	l.Reset()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.lastRequest)
}
