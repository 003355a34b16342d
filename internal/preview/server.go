package preview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/imageloader/pkg/fetch"
	"github.com/vango-dev/imageloader/pkg/imageloader"
	"github.com/vango-dev/imageloader/pkg/render"
)

// StatusHeader carries the loader status on /render responses.
const StatusHeader = "X-Imageloader-Status"

// Config configures the preview server.
type Config struct {
	// NewFetcher creates the fetcher for one loader. Completions must be
	// delivered through d. Default: fetch.NewClient(d).
	NewFetcher func(d fetch.Dispatcher) fetch.Fetcher

	// RenderTimeout bounds how long /render waits for a final status.
	// Default: 10s.
	RenderTimeout time.Duration

	// WriteTimeout bounds each websocket write. Default: 10s.
	WriteTimeout time.Duration

	// MaxMessageSize limits incoming websocket messages. Default: 4KB.
	MaxMessageSize int64

	// Pretty enables indented HTML output.
	Pretty bool

	// Gatherer serves /metrics. When nil the route is not mounted.
	Gatherer prometheus.Gatherer

	// Registerer receives the server's own collectors. When nil the
	// server records no metrics.
	Registerer prometheus.Registerer

	// Namespace prefixes the server's metrics. Default: "imageloader".
	Namespace string

	// CheckOrigin validates websocket origins. Default: same origin.
	CheckOrigin func(r *http.Request) bool

	// Logger is the structured logger. Default: slog.Default().
	Logger *slog.Logger
}

// Server is the preview HTTP server.
type Server struct {
	config   Config
	router   chi.Router
	renderer *render.Renderer
	upgrader websocket.Upgrader
	sessions sessionConfig
	logger   *slog.Logger
}

// New creates a Server.
func New(config Config) *Server {
	if config.NewFetcher == nil {
		config.NewFetcher = func(d fetch.Dispatcher) fetch.Fetcher {
			return fetch.NewClient(d)
		}
	}
	if config.RenderTimeout <= 0 {
		config.RenderTimeout = 10 * time.Second
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 10 * time.Second
	}
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = 4 << 10
	}
	if config.Namespace == "" {
		config.Namespace = "imageloader"
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := render.NewRenderer(render.RendererConfig{Pretty: config.Pretty})

	var loaderMetrics *imageloader.Metrics
	var httpMetrics *requestMetrics
	if config.Registerer != nil {
		loaderMetrics = imageloader.NewMetrics(config.Registerer, config.Namespace)
		httpMetrics = newRequestMetrics(config.Registerer, config.Namespace)
	}

	s := &Server{
		config:   config,
		renderer: renderer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		sessions: sessionConfig{
			fetcher:  config.NewFetcher,
			metrics:  loaderMetrics,
			renderer: renderer,
			logger:   logger,
		},
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(instrument(httpMetrics))

	r.Get("/healthz", s.handleHealth)
	r.Get("/render", s.handleRender)
	r.Get("/live", s.handleLive)
	if config.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	}

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router returns the chi router for mounting additional routes.
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	params := ParamsFromQuery(r.URL.Query())

	sess, err := openSession(r.Context(), s.sessions, params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer sess.close()

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RenderTimeout)
	defer cancel()

	frame, err := sess.settle(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set(StatusHeader, frame.Status)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if frame.Error != "" {
		w.Header().Set("X-Imageloader-Error", frame.Error)
	}

	if r.URL.Query().Get("page") != "1" {
		w.Write([]byte(frame.HTML))
		return
	}

	title := "Image preview"
	if params.Src != "" {
		title = params.Src
	}
	page := render.PageData{
		Title:  title,
		Body:   pageBody(frame),
		Styles: []string{previewCSS},
	}
	if err := s.renderer.RenderPage(w, page); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	params := ParamsFromQuery(r.URL.Query())

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.config.MaxMessageSize)

	sess, err := openSession(r.Context(), s.sessions, params)
	if err != nil {
		s.writeClose(conn, websocket.ClosePolicyViolation, err.Error())
		return
	}
	defer sess.close()

	first, err := sess.snapshot(r.Context())
	if err != nil || s.writeFrame(conn, first) != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.readUpdates(conn, sess)
	}()

	for {
		select {
		case f := <-sess.frames:
			if err := s.writeFrame(conn, f); err != nil {
				s.logger.Debug("live write failed", "error", err)
				return
			}
		case <-done:
			return
		}
	}
}

// readUpdates applies Params messages until the connection fails.
func (s *Server) readUpdates(conn *websocket.Conn, sess *session) {
	for {
		var p Params
		if err := conn.ReadJSON(&p); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("live read ended", "error", err)
			}
			return
		}
		updateErr := sess.update(context.Background(), p)
		f, err := sess.snapshot(context.Background())
		if err != nil {
			return
		}
		if updateErr != nil {
			s.logger.Debug("live update rejected", "error", updateErr)
			f.Error = updateErr.Error()
		}
		sess.push(f)
	}
}

func (s *Server) writeFrame(conn *websocket.Conn, f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) writeClose(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.config.WriteTimeout))
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, imageloader.ErrWrongChildCount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "request canceled", http.StatusServiceUnavailable)
	default:
		s.logger.Error("preview failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
