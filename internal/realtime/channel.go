package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nhle/taskdeck/internal/query"
)

// Server-to-client event names. Events signal that something changed;
// they never carry the changed data, so the client re-fetches to learn
// the new state.
const (
	EventTaskCreated  = "task:created"
	EventTaskUpdated  = "task:updated"
	EventTaskDeleted  = "task:deleted"
	EventNotification = "notification"
)

// Invalidator is the part of the query cache the channel drives.
type Invalidator interface {
	Invalidate(prefix string)
	InvalidateAll()
}

// frame is the wire shape of a push event.
type frame struct {
	Event string `json:"event"`
}

// EventPrefixes maps a named event to the cache key prefixes it
// invalidates. Unknown events invalidate nothing.
func EventPrefixes(event string) []string {
	switch event {
	case EventTaskCreated, EventTaskUpdated, EventTaskDeleted:
		return []string{query.KeyTasks, query.KeyDashboard}
	case EventNotification:
		return []string{query.KeyNotifications}
	default:
		return nil
	}
}

// Channel maintains one long-lived websocket connection and turns
// received events into cache invalidations. Invalidation is
// at-least-once and idempotent, so redundant deliveries are harmless.
// The channel is injected wherever it is needed rather than held as
// package-level state; Connect is lazy and Close releases the
// connection so a later Connect starts fresh.
type Channel struct {
	url         string
	invalidator Invalidator

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

// New creates a channel for the given websocket URL. No connection is
// made until Connect.
func New(url string, invalidator Invalidator) *Channel {
	return &Channel{url: url, invalidator: invalidator}
}

// Connect starts the connection loop if it is not already running.
// Reconnection uses capped exponential backoff; after every reconnect
// the whole cache is invalidated, since events may have been missed
// while disconnected and a redundant refetch is harmless.
func (ch *Channel) Connect() {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch.cancel = cancel
	ch.running = true

	go ch.run(ctx)
}

// Close tears the connection down and clears the running state so a
// subsequent Connect re-establishes a fresh connection.
func (ch *Channel) Close() {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if !ch.running {
		return
	}
	ch.cancel()
	ch.cancel = nil
	ch.running = false
}

// run dials, reads, and reconnects until the context is cancelled.
func (ch *Channel) run(ctx context.Context) {
	attempt := 0
	first := true

	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, ch.url, nil)
		if err != nil {
			slog.Debug("realtime dial failed", "url", ch.url, "err", err)
			if !sleepCtx(ctx, backoff(attempt)) {
				return
			}
			attempt++
			continue
		}
		attempt = 0

		if !first {
			// Events may have been missed while disconnected.
			ch.invalidator.InvalidateAll()
		}
		first = false

		ch.readLoop(ctx, conn)
		conn.Close()
	}
}

// readLoop consumes frames until the connection drops or ctx ends.
func (ch *Channel) readLoop(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			slog.Debug("realtime read ended", "err", err)
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			slog.Debug("realtime frame skipped", "err", err)
			continue
		}
		ch.handle(f.Event)
	}
}

// handle applies the invalidations for one named event.
func (ch *Channel) handle(event string) {
	for _, prefix := range EventPrefixes(event) {
		ch.invalidator.Invalidate(prefix)
	}
}

// backoff computes the reconnect delay: 1s, 2s, 4s, ... capped at 30s.
func backoff(attempt int) time.Duration {
	if attempt > 5 {
		attempt = 5
	}
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

// sleepCtx waits for d or until ctx is cancelled. Reports whether the
// full duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
