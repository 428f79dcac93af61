package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitEnforcesMinimumInterval(t *testing.T) {
	interval := 100 * time.Millisecond
	l := New(interval)

	start := time.Now()
	require.NoError(t, l.Wait(context.Background(), "example.com"))
	require.NoError(t, l.Wait(context.Background(), "example.com"))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, interval)
}

func TestDistinctDomainsDoNotBlockEachOther(t *testing.T) {
	l := New(500 * time.Millisecond)

	start := time.Now()
	require.NoError(t, l.Wait(context.Background(), "example.com"))
	require.NoError(t, l.Wait(context.Background(), "example.org"))
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 250*time.Millisecond)
}

func TestConcurrentWaitsAreSerialized(t *testing.T) {
	interval := 50 * time.Millisecond
	l := New(interval)

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Wait(context.Background(), "example.com")
		}()
	}
	wg.Wait()

	// Three requests to the same domain require at least two full intervals.
	assert.GreaterOrEqual(t, time.Since(start), 2*interval)
}

func TestWaitRespectsContextCancellation(t *testing.T) {
	l := New(time.Hour)
	require.NoError(t, l.Wait(context.Background(), "example.com"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, "example.com"))
}
