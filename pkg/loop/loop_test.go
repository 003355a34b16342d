package loop

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func newTestLoop(t *testing.T, opts ...Option) *Loop {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	l := New(opts...)
	go l.Run()
	t.Cleanup(l.Close)
	return l
}

func TestDispatchRunsInOrder(t *testing.T) {
	l := newTestLoop(t)

	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 10; i++ {
		i := i
		l.Dispatch(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	if err := l.Do(context.Background(), func() {}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 10 {
		t.Fatalf("ran %d functions, want 10", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("order = %v, want ascending", got)
		}
	}
}

func TestDoWaitsForCompletion(t *testing.T) {
	l := newTestLoop(t)

	ran := false
	if err := l.Do(context.Background(), func() { ran = true }); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !ran {
		t.Error("Do returned before fn ran")
	}
}

func TestDoContextCanceled(t *testing.T) {
	l := newTestLoop(t)

	release := make(chan struct{})
	l.Dispatch(func() { <-release })
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Do(ctx, func() {}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, want deadline exceeded", err)
	}
}

func TestPanicRecovered(t *testing.T) {
	l := newTestLoop(t)

	l.Dispatch(func() { panic("boom") })
	if err := l.Do(context.Background(), func() {}); err != nil {
		t.Fatalf("loop should survive a panic, Do() error = %v", err)
	}
	if l.Panics() != 1 {
		t.Errorf("Panics() = %d, want 1", l.Panics())
	}
}

func TestClosedLoopRejectsWork(t *testing.T) {
	l := New()
	l.Close()
	l.Close() // idempotent

	if l.Dispatch(func() {}) {
		t.Error("Dispatch on closed loop should return false")
	}
	if err := l.Do(context.Background(), func() {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Do() error = %v, want ErrClosed", err)
	}
	select {
	case <-l.Done():
	default:
		t.Error("Done should be closed")
	}
}

func TestDispatchNil(t *testing.T) {
	l := New(WithQueueSize(1))
	defer l.Close()
	if l.Dispatch(nil) {
		t.Error("Dispatch(nil) should return false")
	}
}
