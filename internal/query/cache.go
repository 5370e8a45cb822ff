package query

import (
	"context"
	"sync"
	"time"
)

// Fetcher loads the value for one cache slot. It is invoked at most once
// per slot per freshness window unless the slot is invalidated. No
// timeout is imposed here; the transport's own deadline applies.
type Fetcher func(ctx context.Context) (interface{}, error)

// Options tune the freshness behaviour of a slot.
type Options struct {
	// StaleTime is how long a cached value stays fresh. Observing a
	// slot older than this triggers a background refetch. Zero means
	// every new observation refetches.
	StaleTime time.Duration

	// RefetchInterval re-issues the fetch on a fixed period while the
	// slot has at least one observer. Zero disables interval refetch.
	RefetchInterval time.Duration
}

// Result is a point-in-time snapshot of a cache slot.
type Result struct {
	Key       Key
	Data      interface{}
	Err       error
	UpdatedAt time.Time

	hasData  bool
	fetching bool
}

// IsLoading reports that no data has arrived yet and a fetch is in
// flight. Once a slot has data it never reports loading again; errors
// and refetches surface alongside the stale value instead.
func (r Result) IsLoading() bool { return !r.hasData && r.fetching }

// IsSuccess reports that the slot holds a last known good value.
func (r Result) IsSuccess() bool { return r.hasData && r.Err == nil }

// IsError reports that the most recent fetch failed. Previously cached
// data, if any, remains available in Data.
func (r Result) IsError() bool { return r.Err != nil }

// IsFetching reports that a fetch is currently in flight.
func (r Result) IsFetching() bool { return r.fetching }

// Event announces that the slot for Key settled a fetch. Consumers read
// the new state with Cache.Get.
type Event struct {
	Key Key
}

// slot holds the cached state for one key.
type slot struct {
	key      Key
	fetcher  Fetcher
	opts     Options
	data     interface{}
	hasData  bool
	err      error
	updated  time.Time
	stale    bool
	fetching bool

	// seq numbers fetches by issuance. A completing fetch whose seq no
	// longer matches has been superseded and its result is discarded.
	seq uint64

	observers int
	stopTick  chan struct{}
}

// Cache is the process-wide, key-addressed store of asynchronous read
// results. All views share one instance; slot access is mutex-atomic so
// a reader never sees a torn mix of pre- and post-invalidation state.
type Cache struct {
	mu     sync.Mutex
	slots  map[Key]*slot
	events chan Event
	closed bool
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		slots:  make(map[Key]*slot),
		events: make(chan Event, 64),
	}
}

// Events exposes the settlement announcements for UI subscriptions.
func (c *Cache) Events() <-chan Event {
	return c.events
}

// Observe registers an active observer for key, wiring the fetcher and
// options on first use, and returns the current snapshot. A fetch is
// issued when the slot has no data, is stale, or its value has outlived
// StaleTime; if a fetch for the key is already in flight the observer
// attaches to it instead of issuing a duplicate call.
func (c *Cache) Observe(key Key, fetcher Fetcher, opts Options) Result {
	c.mu.Lock()

	s, ok := c.slots[key]
	if !ok {
		s = &slot{key: key, fetcher: fetcher, opts: opts}
		c.slots[key] = s
	} else {
		// Latest registration wins for fetcher and options.
		s.fetcher = fetcher
		s.opts = opts
	}
	s.observers++

	if !s.fetching && c.needsFetch(s) {
		c.startFetchLocked(s)
	}

	if s.observers == 1 && s.opts.RefetchInterval > 0 {
		s.stopTick = make(chan struct{})
		go c.tickLoop(key, s.opts.RefetchInterval, s.stopTick)
	}

	snapshot := s.snapshot()
	c.mu.Unlock()
	return snapshot
}

// Unobserve drops one active observer for key. The slot and its value
// stay cached; only interval refetching stops when the last observer
// leaves. An in-flight fetch is not cancelled, its result simply lands
// in the cache for the next observer.
func (c *Cache) Unobserve(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.slots[key]
	if !ok || s.observers == 0 {
		return
	}
	s.observers--
	if s.observers == 0 && s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
}

// Get returns the current snapshot for key without registering an
// observer or triggering a fetch.
func (c *Cache) Get(key Key) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.slots[key]
	if !ok {
		return Result{Key: key}
	}
	return s.snapshot()
}

// Invalidate marks every slot whose key starts with prefix as stale.
// Slots with an active observer refetch immediately (exactly once per
// slot); unobserved slots refetch lazily on their next observation.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.slots {
		if !s.key.HasPrefix(prefix) {
			continue
		}
		s.stale = true
		if s.observers > 0 {
			c.startFetchLocked(s)
		}
	}
}

// InvalidateAll marks every slot stale, refetching observed ones. Used
// when the realtime channel reconnects and events may have been missed.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.slots {
		s.stale = true
		if s.observers > 0 {
			c.startFetchLocked(s)
		}
	}
}

// Clear drops every slot. Used on logout so the next session starts
// from an empty cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.slots {
		// Invalidate the seq so in-flight results are discarded.
		s.seq++
		if s.stopTick != nil {
			close(s.stopTick)
			s.stopTick = nil
		}
	}
	c.slots = make(map[Key]*slot)
}

// needsFetch reports whether observing the slot should issue a fetch.
// Caller holds the mutex.
func (c *Cache) needsFetch(s *slot) bool {
	if !s.hasData || s.stale {
		return true
	}
	return time.Since(s.updated) >= s.opts.StaleTime
}

// startFetchLocked issues a fetch for the slot. Caller holds the mutex.
// The fetch runs in its own goroutine; when it settles, the result is
// kept only if no newer fetch was issued for the slot in the meantime
// (most recent request wins, by issuance).
func (c *Cache) startFetchLocked(s *slot) {
	s.seq++
	seq := s.seq
	s.fetching = true
	fetcher := s.fetcher
	key := s.key

	go func() {
		data, err := fetcher(context.Background())

		c.mu.Lock()
		cur, ok := c.slots[key]
		if !ok || cur.seq != seq {
			// Superseded by a newer fetch or cleared; discard.
			c.mu.Unlock()
			return
		}
		cur.fetching = false
		cur.stale = false
		if err != nil {
			// Keep the last known good value visible next to the error.
			cur.err = err
		} else {
			cur.err = nil
			cur.data = data
			cur.hasData = true
			cur.updated = time.Now()
		}
		c.mu.Unlock()

		c.emit(Event{Key: key})
	}()
}

// tickLoop drives RefetchInterval for one slot until stopped.
func (c *Cache) tickLoop(key Key, interval time.Duration, stop chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			s, ok := c.slots[key]
			if ok && s.observers > 0 && !s.fetching {
				c.startFetchLocked(s)
			}
			c.mu.Unlock()
		}
	}
}

// emit announces a settled fetch without blocking the fetch goroutine.
func (c *Cache) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		// Drop if the UI is not draining; it reads fresh state on the
		// next event anyway.
	}
}

// snapshot copies the slot state. Caller holds the mutex.
func (s *slot) snapshot() Result {
	return Result{
		Key:       s.key,
		Data:      s.data,
		Err:       s.err,
		UpdatedAt: s.updated,
		hasData:   s.hasData,
		fetching:  s.fetching,
	}
}
