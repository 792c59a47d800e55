package service

import (
	"sync"
	"time"
)

// DefaultTTL is how long a cached endpoint response stays fresh.
const DefaultTTL = 10 * time.Second

// memoEntry stores one cached payload with its fetch timestamp.
type memoEntry struct {
	value     any
	fetchedAt time.Time
}

// Memo is a keyed memoizer with a fixed TTL. Staleness is purely
// time-based: entries are never explicitly invalidated, an entry older
// than the TTL is simply treated as absent. Failed fetches leave no
// entry, so the next caller retries instead of replaying a stale error.
type Memo struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]memoEntry
}

// NewMemo creates a memoizer with the given TTL (DefaultTTL when zero).
func NewMemo(ttl time.Duration) *Memo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memo{
		ttl:     ttl,
		entries: make(map[string]memoEntry),
	}
}

// Get returns the cached value for key when a fresh entry exists and
// forceRefresh is false; otherwise it calls fetch, stores the result,
// and returns it. The fetch runs outside the lock; pair Memo with a
// Coalescer when concurrent misses for the same key must share one
// fetch.
func (m *Memo) Get(key string, forceRefresh bool, fetch func() (any, error)) (any, error) {
	if !forceRefresh {
		m.mu.Lock()
		entry, ok := m.entries[key]
		m.mu.Unlock()
		if ok && time.Since(entry.fetchedAt) < m.ttl {
			return entry.value, nil
		}
	}

	value, err := fetch()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.entries[key] = memoEntry{value: value, fetchedAt: time.Now()}
	m.mu.Unlock()

	return value, nil
}

// Clear drops every entry.
func (m *Memo) Clear() {
	m.mu.Lock()
	m.entries = make(map[string]memoEntry)
	m.mu.Unlock()
}

// Len returns the current entry count.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
