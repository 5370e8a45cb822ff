package query

import (
	"context"
	"sync"
)

// Mutation runs a single write operation, tracks its lifecycle, and on
// success invalidates a declared set of cache key prefixes. Concurrent
// Run calls are independent; there is no de-duplication, so callers
// disable repeated submission while IsPending reports true. Failures
// are retained and surfaced; nothing retries automatically.
type Mutation struct {
	cache       *Cache
	invalidates []string

	mu      sync.Mutex
	pending int
	err     error
	success bool
}

// NewMutation creates a mutation whose successful runs invalidate the
// given cache key prefixes.
func NewMutation(cache *Cache, invalidates ...string) *Mutation {
	return &Mutation{cache: cache, invalidates: invalidates}
}

// Run invokes exactly one write call. On success the declared prefixes
// are invalidated; on failure the cache is left untouched and the error
// is retained for display.
func (m *Mutation) Run(
	ctx context.Context,
	write func(ctx context.Context) error,
) error {
	m.mu.Lock()
	m.pending++
	m.mu.Unlock()

	err := write(ctx)

	m.mu.Lock()
	m.pending--
	if err != nil {
		m.err = err
		m.success = false
	} else {
		m.err = nil
		m.success = true
	}
	m.mu.Unlock()

	if err == nil {
		for _, prefix := range m.invalidates {
			m.cache.Invalidate(prefix)
		}
	}
	return err
}

// IsPending reports whether any run is currently in flight.
func (m *Mutation) IsPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending > 0
}

// IsSuccess reports whether the most recent run succeeded.
func (m *Mutation) IsSuccess() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.success
}

// IsError reports whether the most recent run failed.
func (m *Mutation) IsError() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err != nil
}

// Err returns the retained error from the most recent failed run.
func (m *Mutation) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Reset clears the retained lifecycle state, e.g. when a form reopens.
func (m *Mutation) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = nil
	m.success = false
}
