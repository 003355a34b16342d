package preview

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/vango-dev/imageloader/pkg/fetch"
	"github.com/vango-dev/imageloader/pkg/imageloader"
	"github.com/vango-dev/imageloader/pkg/loop"
	"github.com/vango-dev/imageloader/pkg/render"
	"github.com/vango-dev/imageloader/pkg/vdom"
)

// Frame is one message sent on /live.
type Frame struct {
	Status string `json:"status"`
	Src    string `json:"src"`
	HTML   string `json:"html"`
	Error  string `json:"error,omitempty"`
}

// Params are the loader props accepted from query strings and live
// updates.
type Params struct {
	Src    string `json:"src"`
	SrcSet string `json:"srcset"`
	Class  string `json:"class"`
	Alt    string `json:"alt"`
	Pure   bool   `json:"pure"`
}

// ParamsFromQuery reads Params from URL query values.
func ParamsFromQuery(q url.Values) Params {
	pure, _ := strconv.ParseBool(q.Get("pure"))
	return Params{
		Src:    q.Get("src"),
		SrcSet: q.Get("srcset"),
		Class:  q.Get("class"),
		Alt:    q.Get("alt"),
		Pure:   pure,
	}
}

// Views returns the default loaded, failed and pending views.
func Views(alt string) []imageloader.View {
	failed := vdom.Span(
		vdom.Class("imageloader-error"),
		vdom.Role("img"),
		vdom.Text("Image failed to load"),
	)
	if alt != "" {
		failed.Props["aria-label"] = alt
	}
	return imageloader.Children(
		vdom.Img(vdom.Alt(alt), vdom.Decoding("async")),
		failed,
		vdom.Span(vdom.Class("imageloader-spinner"), vdom.AriaBusy(true), vdom.AriaLive("polite")),
	)
}

// session owns one loader and the loop it runs on.
type session struct {
	loop     *loop.Loop
	loader   *imageloader.Loader
	renderer *render.Renderer
	logger   *slog.Logger

	// lastErr is the most recent load failure; loop goroutine only.
	lastErr error

	frames chan Frame
	closed chan struct{}
}

type sessionConfig struct {
	fetcher  func(fetch.Dispatcher) fetch.Fetcher
	metrics  *imageloader.Metrics
	renderer *render.Renderer
	logger   *slog.Logger
}

// openSession starts a loop and creates the loader on it.
func openSession(ctx context.Context, cfg sessionConfig, p Params) (*session, error) {
	lp := loop.New(loop.WithLogger(cfg.logger))
	go lp.Run()

	s := &session{
		loop:     lp,
		renderer: cfg.renderer,
		logger:   cfg.logger,
		frames:   make(chan Frame, 32),
		closed:   make(chan struct{}),
	}

	// Setup runs to completion even when ctx is already done, so the
	// loader never outlives a returned error without being disposed.
	var err error
	doErr := lp.Do(context.Background(), func() {
		props := s.props(p)
		props.Children = Views(p.Alt)
		s.loader, err = imageloader.New(props,
			imageloader.WithFetcher(cfg.fetcher(lp)),
			imageloader.WithLogger(cfg.logger),
			imageloader.WithMetrics(cfg.metrics),
		)
		if err != nil {
			return
		}
		s.loader.Subscribe(func(st imageloader.Status) {
			if st == imageloader.StatusFailed {
				// OnError pushes the failed frame once the cause is known.
				return
			}
			s.push(s.frame())
		})
	})
	if doErr != nil {
		lp.Close()
		return nil, doErr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if s.loader != nil {
			s.close()
		} else {
			lp.Close()
		}
		return nil, err
	}
	return s, nil
}

// props builds loader props from p, keeping the session's callbacks.
func (s *session) props(p Params) imageloader.Props {
	return imageloader.Props{
		Src:       p.Src,
		SrcSet:    p.SrcSet,
		ClassName: p.Class,
		Pure:      p.Pure,
		OnLoad: func(ev fetch.Event) {
			s.lastErr = nil
			s.logger.Debug("preview image loaded", "src", ev.URL, "format", ev.Format,
				"width", ev.Width, "height", ev.Height, "elapsed", ev.Elapsed)
		},
		OnError: func(err error) {
			s.lastErr = err
			if s.loader != nil {
				s.push(s.frame())
			}
		},
	}
}

// frame snapshots the loader. It must run on the loop.
func (s *session) frame() Frame {
	f := Frame{
		Status: s.loader.Status().String(),
		Src:    s.loader.Src(),
	}
	html, err := s.loader.RenderHTML(s.renderer)
	if err != nil {
		f.Error = err.Error()
		return f
	}
	f.HTML = html
	if s.loader.Status() == imageloader.StatusFailed && s.lastErr != nil {
		f.Error = s.lastErr.Error()
	}
	return f
}

// push queues f for the live writer without blocking the loop forever.
func (s *session) push(f Frame) {
	select {
	case s.frames <- f:
	case <-s.closed:
	}
}

// snapshot returns the current frame.
func (s *session) snapshot(ctx context.Context) (Frame, error) {
	var f Frame
	err := s.loop.Do(ctx, func() { f = s.frame() })
	return f, err
}

// update applies p to the loader, preserving its children.
func (s *session) update(ctx context.Context, p Params) error {
	var err error
	doErr := s.loop.Do(ctx, func() {
		props := s.props(p)
		props.Children = s.loader.Props().Children
		err = s.loader.Update(props)
	})
	if doErr != nil {
		return doErr
	}
	return err
}

// settle waits until the loader leaves loading or ctx is done, and
// returns the frame at that point.
func (s *session) settle(ctx context.Context) (Frame, error) {
	f, err := s.snapshot(ctx)
	if err != nil {
		return f, err
	}
	for f.Status == imageloader.StatusLoading.String() {
		select {
		case next := <-s.frames:
			f = next
		case <-ctx.Done():
			// Report where the loader stands when time runs out.
			return s.snapshot(context.Background())
		}
	}
	return f, nil
}

// close disposes the loader and stops the loop.
func (s *session) close() {
	close(s.closed)
	s.loop.Do(context.Background(), s.loader.Dispose)
	s.loop.Close()
}
