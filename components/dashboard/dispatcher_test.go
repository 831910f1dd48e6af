package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDispatcherRunPendingPreservesOrder(t *testing.T) {
	d := NewDispatcher()
	var got []int
	d.Post(func() { got = append(got, 1) })
	d.Post(func() {
		got = append(got, 2)
		d.Post(func() { got = append(got, 4) })
	})
	d.Post(func() { got = append(got, 3) })

	ran := d.RunPending()
	assert.Equal(t, 4, ran)
	assert.Equal(t, []int{1, 2, 3, 4}, got)
	assert.Zero(t, d.Pending())
}

func TestDispatcherPostRejectsNil(t *testing.T) {
	d := NewDispatcher()
	assert.False(t, d.Post(nil))
	assert.Zero(t, d.Pending())
}

func TestDispatcherDoWaitsForTask(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	sentinel := errors.New("boom")
	var counter int32
	err := d.Do(context.Background(), func() error {
		atomic.AddInt32(&counter, 1)
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, int32(1), atomic.LoadInt32(&counter))

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.False(t, d.Post(func() {}), "post after stop must be rejected")
	require.ErrorIs(t, d.Do(context.Background(), func() error { return nil }), errDispatcherStopped)
}

func TestDispatcherDoHonoursContext(t *testing.T) {
	d := NewDispatcher()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := d.Do(ctx, func() error { return nil })
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDispatcherAfter(t *testing.T) {
	d := NewDispatcher()
	fired := make(chan struct{})
	d.After(5*time.Millisecond, func() { close(fired) })
	deadline := time.Now().Add(time.Second)
	for d.Pending() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	d.RunPending()
	select {
	case <-fired:
	default:
		t.Fatalf("expected delayed task to run")
	}
}

func TestDispatcherDoSkipsAbandonedTask(t *testing.T) {
	d := NewDispatcher()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	var ran int32
	err := d.Do(ctx, func() error {
		atomic.AddInt32(&ran, 1)
		return nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Equal(t, 1, d.RunPending())
	assert.Zero(t, atomic.LoadInt32(&ran), "a task whose caller gave up must not run")
}

func TestDispatcherDoRejectsDoneContext(t *testing.T) {
	d := NewDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Do(ctx, func() error { return nil })
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, d.Pending())
}
