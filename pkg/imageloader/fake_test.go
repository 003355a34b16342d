package imageloader

import (
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/imageloader/pkg/fetch"
	"github.com/vango-dev/imageloader/pkg/vdom"
)

// fakeFetch is one load started on a fakeFetcher.
type fakeFetch struct {
	req       fetch.Request
	handle    *fetch.Handle
	onSuccess func(fetch.Event)
	onFailure func(error)
	releases  int
}

// succeed completes the load through its handle, honoring Release.
func (f *fakeFetch) succeed() bool {
	return f.handle.Succeed(fetch.Event{URL: f.req.URL, Candidate: f.req.URL, Format: "png", Width: 10, Height: 10})
}

// fail completes the load through its handle, honoring Release.
func (f *fakeFetch) fail(err error) bool {
	return f.handle.Fail(err)
}

// forceFail invokes the original failure callback directly, simulating a
// fetcher that fires after the handle was released.
func (f *fakeFetch) forceFail(err error) {
	f.onFailure(err)
}

// forceSucceed is forceFail for the success callback.
func (f *fakeFetch) forceSucceed() {
	f.onSuccess(fetch.Event{URL: f.req.URL})
}

// fakeFetcher records loads and completes them on demand.
type fakeFetcher struct {
	started []*fakeFetch
	byID    map[uint64]*fakeFetch

	// dropNext makes the next Start return a nil handle.
	dropNext bool

	// syncResult, when set, completes every load inside Start.
	syncResult func(f *fakeFetch)
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{byID: make(map[uint64]*fakeFetch)}
}

func (ff *fakeFetcher) Start(req fetch.Request, onSuccess func(fetch.Event), onFailure func(error)) *fetch.Handle {
	if ff.dropNext {
		ff.dropNext = false
		return nil
	}
	f := &fakeFetch{
		req:       req,
		handle:    fetch.NewHandle(onSuccess, onFailure, nil),
		onSuccess: onSuccess,
		onFailure: onFailure,
	}
	ff.started = append(ff.started, f)
	ff.byID[f.handle.ID()] = f
	if ff.syncResult != nil {
		ff.syncResult(f)
	}
	return f.handle
}

func (ff *fakeFetcher) Release(h *fetch.Handle) {
	if f, ok := ff.byID[h.ID()]; ok {
		f.releases++
	}
	h.Release()
}

// last returns the most recently started load.
func (ff *fakeFetcher) last() *fakeFetch {
	if len(ff.started) == 0 {
		return nil
	}
	return ff.started[len(ff.started)-1]
}

// owned counts loads that were started and never released.
func (ff *fakeFetcher) owned() int {
	n := 0
	for _, f := range ff.started {
		if f.releases == 0 {
			n++
		}
	}
	return n
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testChildren() []View {
	return Children(
		vdom.Img(vdom.Alt("photo")),
		vdom.Span(vdom.Class("error"), vdom.Text("failed")),
		vdom.Div(vdom.Class("spinner")),
	)
}

func newTestLoader(t *testing.T, ff *fakeFetcher, props Props) *Loader {
	t.Helper()
	if props.Children == nil {
		props.Children = testChildren()
	}
	l, err := New(props, WithFetcher(ff), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}
