package imageloader

import (
	"log/slog"
	"slices"

	"github.com/vango-dev/imageloader/pkg/fetch"
)

// Loader tracks the load status of one image source and owns at most one
// in-flight fetch.
type Loader struct {
	props   Props
	status  Status
	pending *fetch.Handle

	// gen identifies the fetch whose completion may still be applied.
	// Every release bumps it, so callbacks of older fetches are ignored
	// even if a fetcher delivers them after Release.
	gen uint64

	fetcher  fetch.Fetcher
	logger   *slog.Logger
	metrics  *Metrics
	disposed bool

	subs    []subscriber
	nextSub uint64
}

type subscriber struct {
	id uint64
	fn func(Status)
}

// Option configures a Loader.
type Option func(*Loader)

// WithFetcher sets the fetch collaborator. It is required.
func WithFetcher(f fetch.Fetcher) Option {
	return func(l *Loader) {
		l.fetcher = f
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMetrics records status metrics.
func WithMetrics(m *Metrics) Option {
	return func(l *Loader) {
		l.metrics = m
	}
}

// New creates a Loader. The status is loading when props.Src is set, in
// which case the fetch starts immediately, and pending otherwise.
//
// New returns a *ConfigurationError unless exactly three children are
// supplied.
func New(props Props, opts ...Option) (*Loader, error) {
	l := &Loader{
		props:  props,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := validateChildren(props.Children); err != nil {
		l.metrics.recordConfigError()
		return nil, err
	}
	if l.fetcher == nil {
		return nil, ErrNoFetcher
	}

	l.metrics.recordMount()
	if props.Src == "" {
		l.status = StatusPending
		l.metrics.recordTransition(StatusPending)
		return l, nil
	}
	l.enterLoading()
	return l, nil
}

// Status returns the current status.
func (l *Loader) Status() Status {
	return l.status
}

// Src returns the current source.
func (l *Loader) Src() string {
	return l.props.Src
}

// Props returns the current props.
func (l *Loader) Props() Props {
	return l.props
}

// Fetching reports whether a fetch handle is owned.
func (l *Loader) Fetching() bool {
	return l.pending != nil
}

// Disposed reports whether Dispose has been called.
func (l *Loader) Disposed() bool {
	return l.disposed
}

// Update adopts new props. A changed non-empty Src restarts loading; an
// empty Src releases any fetch and enters pending. An unchanged Src keeps
// the status.
//
// A *ConfigurationError leaves the loader untouched.
func (l *Loader) Update(next Props) error {
	if l.disposed {
		return ErrDisposed
	}
	if err := validateChildren(next.Children); err != nil {
		l.metrics.recordConfigError()
		return err
	}

	prevSrc := l.props.Src
	l.props = next

	if next.Src != prevSrc {
		if next.Src == "" {
			l.releaseFetch()
			l.setStatus(StatusPending)
		} else {
			l.enterLoading()
		}
	}

	l.EnsureFetch()
	return nil
}

// EnsureFetch starts a fetch when the loader is loading but owns none.
func (l *Loader) EnsureFetch() {
	if l.disposed || l.status != StatusLoading || l.pending != nil {
		return
	}
	l.logger.Debug("image loader restarting missing fetch", "src", l.props.Src)
	l.startFetch()
}

// Dispose releases the owned fetch, if any, and drops all subscribers.
// It is idempotent.
func (l *Loader) Dispose() {
	if l.disposed {
		return
	}
	l.disposed = true
	l.releaseFetch()
	l.subs = nil
	l.metrics.recordDispose()
	l.logger.Debug("image loader disposed", "src", l.props.Src, "status", l.status)
}

// Subscribe registers fn to be called with the new status on every status
// change. The returned function removes the subscription.
func (l *Loader) Subscribe(fn func(Status)) (unsubscribe func()) {
	if fn == nil || l.disposed {
		return func() {}
	}
	l.nextSub++
	id := l.nextSub
	l.subs = append(l.subs, subscriber{id: id, fn: fn})

	return func() {
		l.subs = slices.DeleteFunc(l.subs, func(s subscriber) bool {
			return s.id == id
		})
	}
}

// enterLoading moves to loading and starts a fetch for the current source.
// Subscribers are told about loading only if the fetch did not complete
// synchronously.
func (l *Loader) enterLoading() {
	prev := l.status
	l.status = StatusLoading
	l.startFetch()
	if l.status == StatusLoading && prev != StatusLoading {
		l.transitioned(prev, StatusLoading)
	}
}

// startFetch releases any owned fetch and starts a new one.
func (l *Loader) startFetch() {
	l.releaseFetch()
	gen := l.gen

	req := fetch.Request{URL: l.props.Src, SrcSet: l.props.SrcSet}
	h := l.fetcher.Start(req,
		func(ev fetch.Event) { l.complete(gen, ev, nil) },
		func(err error) { l.complete(gen, fetch.Event{}, err) },
	)

	if gen != l.gen || l.status != StatusLoading {
		// Completed (or superseded) before Start returned.
		if h != nil {
			l.fetcher.Release(h)
		}
		return
	}
	l.pending = h
	if h != nil {
		l.logger.Debug("image fetch started", "src", req.URL, "handle", h.ID())
	}
}

// releaseFetch detaches and releases the owned fetch.
func (l *Loader) releaseFetch() {
	l.gen++
	if l.pending == nil {
		return
	}
	h := l.pending
	l.pending = nil
	l.fetcher.Release(h)
	l.logger.Debug("image fetch released", "src", l.props.Src, "handle", h.ID())
}

func (l *Loader) complete(gen uint64, ev fetch.Event, err error) {
	if l.disposed || gen != l.gen {
		l.logger.Debug("stale image fetch completion ignored", "src", l.props.Src)
		return
	}
	l.releaseFetch()

	if err != nil {
		l.setStatus(StatusFailed)
		if l.props.OnError != nil {
			l.props.OnError(err)
		}
		return
	}

	l.setStatus(StatusLoaded)
	if l.props.OnLoad != nil {
		l.props.OnLoad(ev)
	}
}

func (l *Loader) setStatus(s Status) {
	if l.status == s {
		return
	}
	prev := l.status
	l.status = s
	l.transitioned(prev, s)
}

func (l *Loader) transitioned(from, to Status) {
	l.logger.Debug("image loader status changed", "src", l.props.Src, "from", from, "to", to)
	l.metrics.recordTransition(to)
	for _, s := range slices.Clone(l.subs) {
		s.fn(to)
	}
}
