package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskdeck/internal/query"
)

func TestEventPrefixes(t *testing.T) {
	taskPrefixes := []string{query.KeyTasks, query.KeyDashboard}

	require.Equal(t, taskPrefixes, EventPrefixes(EventTaskCreated))
	require.Equal(t, taskPrefixes, EventPrefixes(EventTaskUpdated))
	require.Equal(t, taskPrefixes, EventPrefixes(EventTaskDeleted))

	// Task events never touch the notifications prefix; the server
	// pushes a separate notification event for those.
	for _, ev := range []string{EventTaskCreated, EventTaskUpdated, EventTaskDeleted} {
		require.NotContains(t, EventPrefixes(ev), query.KeyNotifications)
	}

	require.Equal(
		t, []string{query.KeyNotifications}, EventPrefixes(EventNotification),
	)
	require.Nil(t, EventPrefixes("presence:changed"))
}

// recordingInvalidator captures invalidation calls for assertions.
type recordingInvalidator struct {
	mu       sync.Mutex
	prefixes []string
	all      int
	signal   chan struct{}
}

func newRecordingInvalidator() *recordingInvalidator {
	return &recordingInvalidator{signal: make(chan struct{}, 16)}
}

func (r *recordingInvalidator) Invalidate(prefix string) {
	r.mu.Lock()
	r.prefixes = append(r.prefixes, prefix)
	r.mu.Unlock()
	r.signal <- struct{}{}
}

func (r *recordingInvalidator) InvalidateAll() {
	r.mu.Lock()
	r.all++
	r.mu.Unlock()
	r.signal <- struct{}{}
}

func (r *recordingInvalidator) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.signal:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for invalidation %d of %d", i+1, n)
		}
	}
}

func (r *recordingInvalidator) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.prefixes...)
}

func TestChannelTurnsEventsIntoInvalidations(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			require.NoError(t, err)
			defer conn.Close()

			frames := []string{
				`{"event":"task:created"}`,
				`{"event":"notification"}`,
				`not json`,
				`{"event":"task:deleted"}`,
			}
			for _, f := range frames {
				err := conn.WriteMessage(websocket.TextMessage, []byte(f))
				require.NoError(t, err)
			}

			// Keep the connection open until the client closes it.
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		},
	))
	defer srv.Close()

	inv := newRecordingInvalidator()
	ch := New("ws"+strings.TrimPrefix(srv.URL, "http"), inv)
	ch.Connect()
	defer ch.Close()

	// task:created and task:deleted invalidate two prefixes each, the
	// notification event one; the malformed frame is skipped.
	inv.wait(t, 5)
	require.Equal(t, []string{
		query.KeyTasks, query.KeyDashboard,
		query.KeyNotifications,
		query.KeyTasks, query.KeyDashboard,
	}, inv.recorded())
}

func TestChannelConnectIsIdempotent(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var mu sync.Mutex
	dials := 0
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			dials++
			mu.Unlock()
			conn, err := upgrader.Upgrade(w, r, nil)
			require.NoError(t, err)
			defer conn.Close()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		},
	))
	defer srv.Close()

	inv := newRecordingInvalidator()
	ch := New("ws"+strings.TrimPrefix(srv.URL, "http"), inv)
	ch.Connect()
	ch.Connect()
	ch.Connect()

	time.Sleep(200 * time.Millisecond)
	ch.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, dials)
}

func TestBackoffIsCapped(t *testing.T) {
	require.Equal(t, time.Second, backoff(0))
	require.Equal(t, 2*time.Second, backoff(1))
	require.Equal(t, 4*time.Second, backoff(2))
	require.Equal(t, 30*time.Second, backoff(5))
	require.Equal(t, 30*time.Second, backoff(50))
}
