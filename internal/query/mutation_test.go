package query

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMutationSuccessInvalidatesDeclaredPrefixes(t *testing.T) {
	c := NewCache()
	var taskCalls, meCalls int32
	kTasks := NewKey("tasks", map[string]string{"status": "TODO"})
	kMe := NewKey("me", nil)

	c.Observe(kTasks, func(ctx context.Context) (interface{}, error) {
		return atomic.AddInt32(&taskCalls, 1), nil
	}, Options{StaleTime: time.Minute})
	waitEvent(t, c)

	c.Observe(kMe, func(ctx context.Context) (interface{}, error) {
		return atomic.AddInt32(&meCalls, 1), nil
	}, Options{StaleTime: time.Minute})
	waitEvent(t, c)

	mut := NewMutation(c, "tasks", "dashboard")
	err := mut.Run(context.Background(), func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
	require.True(t, mut.IsSuccess())

	waitEvent(t, c)
	require.EqualValues(t, 2, atomic.LoadInt32(&taskCalls))
	require.EqualValues(t, 1, atomic.LoadInt32(&meCalls))
}

func TestMutationFailureLeavesCacheUntouched(t *testing.T) {
	c := NewCache()
	var calls int32
	k := NewKey("tasks", nil)

	c.Observe(k, func(ctx context.Context) (interface{}, error) {
		return atomic.AddInt32(&calls, 1), nil
	}, Options{StaleTime: time.Minute})
	waitEvent(t, c)

	mut := NewMutation(c, "tasks")
	boom := errors.New("validation failed")
	err := mut.Run(context.Background(), func(ctx context.Context) error {
		return boom
	})

	require.ErrorIs(t, err, boom)
	require.True(t, mut.IsError())
	require.False(t, mut.IsSuccess())
	require.Equal(t, boom, mut.Err())

	time.Sleep(50 * time.Millisecond)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestMutationLifecycle(t *testing.T) {
	c := NewCache()
	mut := NewMutation(c)

	require.False(t, mut.IsPending())

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- mut.Run(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	require.True(t, mut.IsPending())

	close(release)
	require.NoError(t, <-done)
	require.False(t, mut.IsPending())
	require.True(t, mut.IsSuccess())

	mut.Reset()
	require.False(t, mut.IsSuccess())
	require.NoError(t, mut.Err())
}
