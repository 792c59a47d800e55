package service

import (
	"context"
	"errors"
	"sync"
)

// errFetchAborted is what waiters receive when the shared fetch
// terminated without producing a result.
var errFetchAborted = errors.New("shared fetch aborted")

// flight is one shared in-flight fetch. val and err are written once,
// before done is closed.
type flight struct {
	done chan struct{}
	val  any
	err  error
}

// CoalescerStats are operational counters with no behavioral effect.
type CoalescerStats struct {
	TotalRequests     int64 // All Do calls
	CoalescedRequests int64 // Calls that waited on an existing record
	InFlight          int   // Fetches currently running
}

// Coalescer collapses concurrent calls sharing a key into a single
// fetch. Every waiter observes the one outcome, value or error alike.
// The in-flight record is removed unconditionally when the fetch
// settles, so a failed fetch never poisons its key.
type Coalescer struct {
	mu       sync.Mutex
	inflight map[string]*flight

	totalRequests     int64
	coalescedRequests int64
}

// NewCoalescer creates an empty coalescer.
func NewCoalescer() *Coalescer {
	return &Coalescer{inflight: make(map[string]*flight)}
}

// Do returns the result of fetch for key, sharing one execution among
// concurrent callers. A waiter whose context is cancelled unblocks with
// the context error; the underlying fetch still completes once and
// clears its record.
func (c *Coalescer) Do(ctx context.Context, key string, fetch func() (any, error)) (any, error) {
	c.mu.Lock()
	c.totalRequests++
	if f, ok := c.inflight[key]; ok {
		c.coalescedRequests++
		c.mu.Unlock()
		select {
		case <-f.done:
			return f.val, f.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f := &flight{done: make(chan struct{})}
	c.inflight[key] = f
	c.mu.Unlock()

	// Cleanup is deferred so a panicking fetch still releases its
	// waiters and clears the record instead of poisoning the key.
	defer func() {
		close(f.done)
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
	}()

	// Pre-set so waiters observe a failure when fetch panics and the
	// assignment below never runs.
	f.err = errFetchAborted
	f.val, f.err = fetch()

	return f.val, f.err
}

// Stats returns a snapshot of the counters.
func (c *Coalescer) Stats() CoalescerStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CoalescerStats{
		TotalRequests:     c.totalRequests,
		CoalescedRequests: c.coalescedRequests,
		InFlight:          len(c.inflight),
	}
}

// ResetStats zeroes the counters without touching in-flight records.
func (c *Coalescer) ResetStats() {
	c.mu.Lock()
	c.totalRequests = 0
	c.coalescedRequests = 0
	c.mu.Unlock()
}
