package fetch

import (
	"errors"
	"testing"
)

func TestHandleDeliversOnce(t *testing.T) {
	var successes, failures int
	h := NewHandle(func(Event) { successes++ }, func(error) { failures++ }, nil)

	if !h.Succeed(Event{URL: "a.png"}) {
		t.Fatal("first Succeed should deliver")
	}
	if h.Succeed(Event{}) {
		t.Error("second Succeed should not deliver")
	}
	if h.Fail(errors.New("late")) {
		t.Error("Fail after Succeed should not deliver")
	}
	if successes != 1 || failures != 0 {
		t.Errorf("successes=%d failures=%d, want 1/0", successes, failures)
	}
	if !h.Settled() {
		t.Error("handle should be settled")
	}
}

func TestHandleReleaseDetaches(t *testing.T) {
	var delivered bool
	canceled := 0
	h := NewHandle(func(Event) { delivered = true }, func(error) { delivered = true }, func() { canceled++ })

	if !h.Release() {
		t.Fatal("first Release should report true")
	}
	if h.Release() {
		t.Error("second Release should report false")
	}
	if canceled != 1 {
		t.Errorf("cancel called %d times, want 1", canceled)
	}
	if h.Succeed(Event{}) || h.Fail(errors.New("x")) {
		t.Error("released handle must not deliver")
	}
	if delivered {
		t.Error("callback ran after release")
	}
	if !h.Released() {
		t.Error("Released() = false, want true")
	}
}

func TestHandleReleaseInsideCallback(t *testing.T) {
	var h *Handle
	h = NewHandle(func(Event) { h.Release() }, nil, nil)

	if !h.Succeed(Event{}) {
		t.Fatal("Succeed should deliver")
	}
	if !h.Released() {
		t.Error("release from inside the callback should take effect")
	}
}

func TestHandleIDsUnique(t *testing.T) {
	a := NewHandle(nil, nil, nil)
	b := NewHandle(nil, nil, nil)
	if a.ID() == b.ID() {
		t.Errorf("IDs should differ, both %d", a.ID())
	}
}

func TestLoadError(t *testing.T) {
	err := &LoadError{URL: "a.png", Candidate: "a@2x.png", Err: ErrNotImage}
	if !errors.Is(err, ErrNotImage) {
		t.Error("LoadError should unwrap to its cause")
	}
	if got := err.Error(); got != "load a.png (candidate a@2x.png): fetch: not an image" {
		t.Errorf("Error() = %q", got)
	}

	same := &LoadError{URL: "a.png", Candidate: "a.png", Err: ErrEmptyURL}
	if got := same.Error(); got != "load a.png: fetch: empty url" {
		t.Errorf("Error() = %q", got)
	}

	if !errors.Is(&StatusError{Code: 404}, ErrNotFound) {
		t.Error("404 should match ErrNotFound")
	}
	if errors.Is(&StatusError{Code: 500}, ErrNotFound) {
		t.Error("500 should not match ErrNotFound")
	}
}
