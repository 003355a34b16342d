package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultTimeout bounds one transfer.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBytes is the largest payload accepted.
	DefaultMaxBytes = 20 << 20

	// tracerName is the instrumentation name for fetch spans.
	tracerName = "github.com/vango-dev/imageloader/pkg/fetch"
)

// Client is the default Fetcher. Each load runs on its own goroutine and
// its completion is handed to the Dispatcher.
type Client struct {
	dispatcher    Dispatcher
	sources       map[string]Source
	baseURL       *url.URL
	timeout       time.Duration
	maxBytes      int64
	dpr           float64
	viewportWidth int
	logger        *slog.Logger
	tracer        trace.Tracer
	metrics       *Metrics
	now           func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithSource registers a source for a URL scheme ("http", "s3", ...).
// A nil src removes the scheme, including the default ones.
func WithSource(scheme string, src Source) Option {
	return func(c *Client) {
		if src == nil {
			delete(c.sources, scheme)
			return
		}
		c.sources[scheme] = src
	}
}

// WithBaseURL resolves relative sources against base.
func WithBaseURL(base *url.URL) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithTimeout bounds each transfer; zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxBytes limits the payload size; zero disables the limit.
func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		c.maxBytes = n
	}
}

// WithDevicePixelRatio sets the display density used for srcset selection.
func WithDevicePixelRatio(dpr float64) Option {
	return func(c *Client) {
		c.dpr = dpr
	}
}

// WithViewportWidth sets the layout width used for width descriptors.
func WithViewportWidth(px int) Option {
	return func(c *Client) {
		c.viewportWidth = px
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracerProvider sets the tracer provider (default: the global one).
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithMetrics records fetch metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a Client delivering completions through d.
// HTTP(S) and file sources are registered by default.
func NewClient(d Dispatcher, opts ...Option) *Client {
	c := &Client{
		dispatcher: d,
		sources: map[string]Source{
			"http":  NewHTTPSource(nil, ""),
			"https": NewHTTPSource(nil, ""),
			"file":  NewFileSource(""),
		},
		timeout:  DefaultTimeout,
		maxBytes: DefaultMaxBytes,
		dpr:      1,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start implements Fetcher.
func (c *Client) Start(req Request, onSuccess func(Event), onFailure func(error)) *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHandle(onSuccess, onFailure, cancel)
	c.metrics.recordStart()

	candidate := c.candidate(req)
	go c.run(ctx, cancel, h, req, candidate)
	return h
}

// Release implements Fetcher.
func (c *Client) Release(h *Handle) {
	if h == nil {
		return
	}
	if h.Release() {
		c.metrics.recordRelease()
	}
}

// candidate picks the URL to load: a srcset candidate (srcset falls back
// to the plain URL) selected for the configured display.
func (c *Client) candidate(req Request) string {
	set := req.SrcSet
	if set == "" {
		set = req.URL
	}
	if chosen, ok := ParseSrcSet(set).Select(c.dpr, c.viewportWidth); ok {
		return chosen.URL
	}
	return req.URL
}

func (c *Client) run(ctx context.Context, cancel context.CancelFunc, h *Handle, req Request, candidate string) {
	defer cancel()

	start := c.now()
	ctx, span := c.tracer.Start(ctx, "imageloader.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("imageloader.src", req.URL),
			attribute.String("imageloader.candidate", candidate),
			attribute.Int64("imageloader.handle", int64(h.ID())),
		),
	)

	ev, err := c.load(ctx, candidate)
	elapsed := c.now().Sub(start)

	outcome := OutcomeSuccess
	switch {
	case err != nil && h.Released():
		outcome = OutcomeCanceled
		span.SetStatus(codes.Unset, "released")
	case err != nil:
		outcome = OutcomeFailure
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("image fetch failed", "src", req.URL, "candidate", candidate, "error", err)
	default:
		span.SetAttributes(
			attribute.String("imageloader.format", ev.Format),
			attribute.Int("imageloader.width", ev.Width),
			attribute.Int("imageloader.height", ev.Height),
			attribute.Int64("imageloader.bytes", ev.Bytes),
		)
	}
	span.End()
	c.metrics.recordDone(outcome, elapsed, ev.Bytes)

	if outcome == OutcomeCanceled {
		return
	}

	var deliver func()
	if err != nil {
		loadErr := &LoadError{URL: req.URL, Candidate: candidate, Err: err}
		deliver = func() { h.Fail(loadErr) }
	} else {
		ev.URL = req.URL
		ev.Elapsed = elapsed
		deliver = func() { h.Succeed(ev) }
	}
	if c.dispatcher == nil || !c.dispatcher.Dispatch(deliver) {
		c.logger.Debug("fetch completion dropped", "src", req.URL, "handle", h.ID())
	}
}

// load opens and validates one candidate.
func (c *Client) load(ctx context.Context, rawURL string) (Event, error) {
	if rawURL == "" {
		return Event{}, ErrEmptyURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Event{}, fmt.Errorf("parse url: %w", err)
	}
	if !u.IsAbs() {
		if c.baseURL == nil {
			u = &url.URL{Scheme: "file", Path: u.Path}
		} else {
			u = c.baseURL.ResolveReference(u)
		}
	}

	src, ok := c.sources[u.Scheme]
	if !ok {
		return Event{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	obj, err := src.Open(ctx, u)
	if err != nil {
		return Event{}, err
	}
	defer obj.Body.Close()

	if c.maxBytes > 0 && obj.Size > c.maxBytes {
		return Event{}, ErrTooLarge
	}

	cfg, format, n, err := probe(obj.Body, c.maxBytes)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ErrTooLarge) {
			return Event{}, ctxErr
		}
		return Event{}, err
	}

	return Event{
		Candidate:   rawURL,
		ContentType: obj.ContentType,
		Format:      format,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Bytes:       n,
	}, nil
}
