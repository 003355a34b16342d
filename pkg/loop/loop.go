// Package loop provides the single-goroutine event loop that image loaders
// are confined to.
//
// Loader state is never locked. Every call into a Loader happens on the loop
// goroutine, and asynchronous fetch completions reach it through Dispatch:
//
//	l := loop.New(loop.WithLogger(logger))
//	go l.Run()
//	defer l.Close()
//
//	l.Do(ctx, func() { ldr.Update(next) })
package loop

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// DefaultQueueSize is the dispatch queue capacity used when none is configured.
const DefaultQueueSize = 256

// ErrClosed is returned when work is submitted to a closed loop.
var ErrClosed = errors.New("loop: closed")

// Loop runs dispatched functions one at a time on a single goroutine.
type Loop struct {
	dispatchCh chan func()
	done       chan struct{}
	closed     atomic.Bool
	closeOnce  sync.Once
	logger     *slog.Logger

	// panics counts recovered panics, exposed for tests and metrics.
	panics atomic.Int64
}

// Option configures a Loop.
type Option func(*Loop)

// WithQueueSize sets the dispatch queue capacity.
func WithQueueSize(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.dispatchCh = make(chan func(), n)
		}
	}
}

// WithLogger sets the logger used for recovered panics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Loop. Call Run to start processing.
func New(opts ...Option) *Loop {
	l := &Loop{
		dispatchCh: make(chan func(), DefaultQueueSize),
		done:       make(chan struct{}),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes dispatched functions until Close is called.
func (l *Loop) Run() {
	for {
		select {
		case fn := <-l.dispatchCh:
			l.execute(fn)
		case <-l.done:
			return
		}
	}
}

// execute runs fn with panic recovery so one bad callback cannot stop the loop.
func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.panics.Add(1)
			l.logger.Error("dispatch panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Dispatch queues fn to run on the loop. It is safe to call from any
// goroutine. When the queue is full Dispatch waits for room; it returns
// false if the loop is closed and fn was discarded.
//
// Dispatch must not be called from the loop goroutine while the queue is
// full, since nothing would drain it.
func (l *Loop) Dispatch(fn func()) bool {
	if fn == nil || l.closed.Load() {
		return false
	}
	select {
	case l.dispatchCh <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	queued := l.Dispatch(func() {
		defer close(finished)
		fn()
	})
	if !queued {
		return ErrClosed
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	}
}

// Close stops the loop. Queued functions that have not started are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.done)
	})
}

// Done is closed when the loop is closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Panics returns the number of recovered panics.
func (l *Loop) Panics() int64 {
	return l.panics.Load()
}
