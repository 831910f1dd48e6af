package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var errDispatcherStopped = errors.New("dashboard: dispatcher stopped")

const (
	taskQueued int32 = iota
	taskRunning
	taskAbandoned
)

// Dispatcher serializes every workspace mutation and render onto a single
// goroutine. Fetches run elsewhere and post their completions here.
type Dispatcher struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
}

// NewDispatcher builds an idle dispatcher; call Run to start draining.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{wake: make(chan struct{}, 1)}
}

// Post enqueues fn behind everything already queued. It never blocks and is
// safe to call from inside a running task.
func (d *Dispatcher) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return false
	}
	d.queue = append(d.queue, fn)
	d.mu.Unlock()
	select {
	case d.wake <- struct{}{}:
	default:
	}
	return true
}

// After posts fn once delay has elapsed.
func (d *Dispatcher) After(delay time.Duration, fn func()) *time.Timer {
	return time.AfterFunc(delay, func() { d.Post(fn) })
}

// Do posts fn and waits for it to run. Must not be called from a task.
// When ctx ends before fn starts, fn is skipped and ctx.Err() is returned;
// once fn has started, Do waits for its result.
func (d *Dispatcher) Do(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var state atomic.Int32
	done := make(chan error, 1)
	posted := d.Post(func() {
		if !state.CompareAndSwap(taskQueued, taskRunning) {
			return
		}
		done <- fn()
	})
	if !posted {
		return errDispatcherStopped
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if state.CompareAndSwap(taskQueued, taskAbandoned) {
			return ctx.Err()
		}
		return <-done
	}
}

// Run drains tasks until ctx is cancelled. Tasks queued at cancellation are
// dropped.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer func() {
		d.mu.Lock()
		d.stopped = true
		d.queue = nil
		d.mu.Unlock()
	}()
	for {
		d.RunPending()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.wake:
		}
	}
}

// RunPending runs queued tasks on the calling goroutine until the queue is
// empty, including tasks posted while draining.
func (d *Dispatcher) RunPending() int {
	ran := 0
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return ran
		}
		fn := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.mu.Unlock()
		fn()
		ran++
	}
}

// Pending reports the queue length.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}
