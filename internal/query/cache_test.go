package query

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// waitEvent blocks for the next settled fetch or fails the test.
func waitEvent(t *testing.T, c *Cache) Event {
	t.Helper()
	select {
	case ev := <-c.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for cache event")
		return Event{}
	}
}

func TestObserveFetchesAndCaches(t *testing.T) {
	c := NewCache()
	var calls int32
	fetch := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "value", nil
	}
	k := NewKey("me", nil)

	res := c.Observe(k, fetch, Options{StaleTime: time.Minute})
	require.True(t, res.IsLoading())

	ev := waitEvent(t, c)
	require.Equal(t, k, ev.Key)

	got := c.Get(k)
	require.True(t, got.IsSuccess())
	require.Equal(t, "value", got.Data)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// Fresh value: re-observing within StaleTime issues no new fetch.
	again := c.Observe(k, fetch, Options{StaleTime: time.Minute})
	require.True(t, again.IsSuccess())
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestObserveDeduplicatesInFlightFetch(t *testing.T) {
	c := NewCache()
	var calls int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "value", nil
	}
	k := NewKey("users", nil)

	first := c.Observe(k, fetch, Options{})
	require.True(t, first.IsFetching())

	// Second observer attaches to the in-flight fetch.
	second := c.Observe(k, fetch, Options{})
	require.True(t, second.IsFetching())

	close(release)
	waitEvent(t, c)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestInvalidateRefetchesObservedSlotOnce(t *testing.T) {
	c := NewCache()
	var calls int32
	fetch := func(ctx context.Context) (interface{}, error) {
		return atomic.AddInt32(&calls, 1), nil
	}
	k := NewKey("tasks", map[string]string{"status": "TODO"})

	c.Observe(k, fetch, Options{StaleTime: time.Minute})
	waitEvent(t, c)

	c.Invalidate("tasks")
	waitEvent(t, c)

	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
	require.Equal(t, int32(2), c.Get(k).Data)
}

func TestInvalidateUnobservedSlotRefetchesLazily(t *testing.T) {
	c := NewCache()
	var calls int32
	fetch := func(ctx context.Context) (interface{}, error) {
		return atomic.AddInt32(&calls, 1), nil
	}
	k := NewKey("dashboard", nil)

	c.Observe(k, fetch, Options{StaleTime: time.Minute})
	waitEvent(t, c)
	c.Unobserve(k)

	// No observer: marking stale must not fetch.
	c.Invalidate("dashboard")
	time.Sleep(50 * time.Millisecond)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// The next observation sees the stale mark and refetches.
	c.Observe(k, fetch, Options{StaleTime: time.Minute})
	waitEvent(t, c)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestInvalidateDoesNotTouchOtherPrefixes(t *testing.T) {
	c := NewCache()
	var taskCalls, meCalls int32
	kTasks := NewKey("tasks", nil)
	kMe := NewKey("me", nil)

	c.Observe(kTasks, func(ctx context.Context) (interface{}, error) {
		return atomic.AddInt32(&taskCalls, 1), nil
	}, Options{StaleTime: time.Minute})
	waitEvent(t, c)

	c.Observe(kMe, func(ctx context.Context) (interface{}, error) {
		return atomic.AddInt32(&meCalls, 1), nil
	}, Options{StaleTime: time.Minute})
	waitEvent(t, c)

	c.Invalidate("tasks")
	waitEvent(t, c)

	require.EqualValues(t, 2, atomic.LoadInt32(&taskCalls))
	require.EqualValues(t, 1, atomic.LoadInt32(&meCalls))
}

func TestLatestIssuedFetchWins(t *testing.T) {
	c := NewCache()
	var calls int32
	entered := make(chan struct{})
	blockFirst := make(chan struct{})
	fetch := func(ctx context.Context) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(entered)
			<-blockFirst
			return "old", nil
		}
		return "new", nil
	}
	k := NewKey("tasks", nil)

	c.Observe(k, fetch, Options{})
	<-entered

	// Supersede the in-flight fetch while it is still blocked.
	c.Invalidate("tasks")
	waitEvent(t, c)
	require.Equal(t, "new", c.Get(k).Data)

	// The superseded fetch settles late; its result is discarded.
	close(blockFirst)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, "new", c.Get(k).Data)
}

func TestFailedRefetchKeepsLastKnownValue(t *testing.T) {
	c := NewCache()
	var calls int32
	fetch := func(ctx context.Context) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "good", nil
		}
		return nil, errors.New("server unavailable")
	}
	k := NewKey("notifications", nil)

	c.Observe(k, fetch, Options{StaleTime: time.Minute})
	waitEvent(t, c)

	c.Invalidate("notifications")
	waitEvent(t, c)

	got := c.Get(k)
	require.True(t, got.IsError())
	require.EqualError(t, got.Err, "server unavailable")
	require.Equal(t, "good", got.Data)
	require.False(t, got.IsLoading())
}

func TestRefetchIntervalWhileObserved(t *testing.T) {
	c := NewCache()
	var calls int32
	fetch := func(ctx context.Context) (interface{}, error) {
		return atomic.AddInt32(&calls, 1), nil
	}
	k := NewKey("notifications", nil)

	c.Observe(k, fetch, Options{
		StaleTime:       time.Minute,
		RefetchInterval: 20 * time.Millisecond,
	})
	waitEvent(t, c)

	// The ticker keeps refetching while an observer is registered.
	waitEvent(t, c)
	require.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestClearDropsAllSlots(t *testing.T) {
	c := NewCache()
	fetch := func(ctx context.Context) (interface{}, error) {
		return "value", nil
	}
	k := NewKey("me", nil)

	c.Observe(k, fetch, Options{StaleTime: time.Minute})
	waitEvent(t, c)

	c.Clear()
	got := c.Get(k)
	require.Nil(t, got.Data)
	require.False(t, got.IsSuccess())
}
