package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalescerSharesOneFetch(t *testing.T) {
	c := NewCoalescer()

	var fetches int64
	release := make(chan struct{})
	fetch := func() (any, error) {
		atomic.AddInt64(&fetches, 1)
		<-release
		return "shared", nil
	}

	const callers = 5
	var wg sync.WaitGroup
	results := make([]any, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Do(context.Background(), "k", fetch)
		}(i)
	}

	// Wait for the initiator to start and the rest to queue up
	require.Eventually(t, func() bool {
		return c.Stats().TotalRequests == callers
	}, time.Second, time.Millisecond)

	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&fetches))
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared", results[i])
	}

	stats := c.Stats()
	assert.Equal(t, int64(callers), stats.TotalRequests)
	assert.Equal(t, int64(callers-1), stats.CoalescedRequests)
	assert.Equal(t, 0, stats.InFlight)
}

func TestCoalescerErrorSharedThenCleared(t *testing.T) {
	c := NewCoalescer()
	boom := errors.New("offline")

	release := make(chan struct{})
	fetch := func() (any, error) {
		<-release
		return nil, boom
	}

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Do(context.Background(), "k", fetch)
		}(i)
	}

	require.Eventually(t, func() bool {
		return c.Stats().TotalRequests == 3
	}, time.Second, time.Millisecond)

	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, boom)
	}

	// The failed record is gone, so the next call fetches fresh
	v, err := c.Do(context.Background(), "k", func() (any, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 0, c.Stats().InFlight)
}

func TestCoalescerDistinctKeysRunIndependently(t *testing.T) {
	c := NewCoalescer()

	var fetches int64
	fetch := func() (any, error) {
		atomic.AddInt64(&fetches, 1)
		return "v", nil
	}

	_, err := c.Do(context.Background(), "a", fetch)
	require.NoError(t, err)
	_, err = c.Do(context.Background(), "b", fetch)
	require.NoError(t, err)

	assert.Equal(t, int64(2), fetches)
	assert.Equal(t, int64(0), c.Stats().CoalescedRequests)
}

func TestCoalescerWaiterHonorsContext(t *testing.T) {
	c := NewCoalescer()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		c.Do(context.Background(), "k", func() (any, error) {
			close(started)
			<-release
			return "late", nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Do(ctx, "k", func() (any, error) { return nil, nil })
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
}

func TestCoalescerPanicClearsRecordAndFailsWaiters(t *testing.T) {
	c := NewCoalescer()

	armed := make(chan struct{})
	boom := make(chan struct{})

	initiatorDone := make(chan struct{})
	go func() {
		defer close(initiatorDone)
		defer func() { recover() }()
		c.Do(context.Background(), "k", func() (any, error) {
			close(armed)
			<-boom
			panic("fetch blew up")
		})
	}()
	<-armed

	var waiterErr error
	waiterDone := make(chan struct{})
	go func() {
		defer close(waiterDone)
		_, waiterErr = c.Do(context.Background(), "k", func() (any, error) { return "unused", nil })
	}()

	// The waiter must join the in-flight record before the panic fires
	require.Eventually(t, func() bool {
		return c.Stats().CoalescedRequests == 1
	}, time.Second, time.Millisecond)

	close(boom)
	<-initiatorDone
	<-waiterDone

	require.Error(t, waiterErr)

	// The record is gone, so the key is usable again
	assert.Equal(t, 0, c.Stats().InFlight)
	v, err := c.Do(context.Background(), "k", func() (any, error) { return "fresh", nil })
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestCoalescerResetStats(t *testing.T) {
	c := NewCoalescer()

	_, err := c.Do(context.Background(), "k", func() (any, error) { return "v", nil })
	require.NoError(t, err)
	require.Equal(t, int64(1), c.Stats().TotalRequests)

	c.ResetStats()
	stats := c.Stats()
	assert.Equal(t, int64(0), stats.TotalRequests)
	assert.Equal(t, int64(0), stats.CoalescedRequests)
}
