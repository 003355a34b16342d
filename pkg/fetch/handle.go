package fetch

import (
	"context"
	"sync"
	"sync/atomic"
)

var handleSeq atomic.Uint64

// Handle is the ownership token for one in-flight image load.
//
// A handle delivers at most one completion, and none after Release.
// Release detaches both callbacks and cancels the transfer; it is
// idempotent.
type Handle struct {
	id uint64

	mu        sync.Mutex
	onSuccess func(Event)
	onFailure func(error)
	cancel    context.CancelFunc
	released  bool
	settled   bool
}

// NewHandle creates a handle with the two completion callbacks. cancel may
// be nil; it is called on Release to stop the underlying transfer.
func NewHandle(onSuccess func(Event), onFailure func(error), cancel context.CancelFunc) *Handle {
	return &Handle{
		id:        handleSeq.Add(1),
		onSuccess: onSuccess,
		onFailure: onFailure,
		cancel:    cancel,
	}
}

// ID returns a process-unique identifier, useful in logs.
func (h *Handle) ID() uint64 {
	return h.id
}

// Succeed delivers a success completion. It reports whether the callback
// ran; it does not after Release or a previous completion.
func (h *Handle) Succeed(ev Event) bool {
	h.mu.Lock()
	if h.released || h.settled {
		h.mu.Unlock()
		return false
	}
	h.settled = true
	fn := h.onSuccess
	h.mu.Unlock()

	if fn != nil {
		fn(ev)
	}
	return true
}

// Fail delivers a failure completion under the same rules as Succeed.
func (h *Handle) Fail(err error) bool {
	h.mu.Lock()
	if h.released || h.settled {
		h.mu.Unlock()
		return false
	}
	h.settled = true
	fn := h.onFailure
	h.mu.Unlock()

	if fn != nil {
		fn(err)
	}
	return true
}

// Release detaches the callbacks and cancels the transfer. It returns true
// only for the call that actually released the handle.
func (h *Handle) Release() bool {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return false
	}
	h.released = true
	h.onSuccess = nil
	h.onFailure = nil
	cancel := h.cancel
	h.cancel = nil
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return true
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Settled reports whether a completion was delivered.
func (h *Handle) Settled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settled
}
