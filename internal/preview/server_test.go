package preview

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/imageloader/pkg/fetch"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// imageServer serves /ok.png, /slow.png (blocks until the client goes
// away) and 404 for anything else.
func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(buf.Bytes())
		case "/slow.png":
			<-r.Context().Done()
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	cfg.Logger = quietLogger()
	cfg.NewFetcher = func(d fetch.Dispatcher) fetch.Fetcher {
		return fetch.NewClient(d, fetch.WithLogger(quietLogger()))
	}
	return New(cfg)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := get(t, s, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestRender(t *testing.T) {
	images := imageServer(t)
	s := newTestServer(t, Config{RenderTimeout: 500 * time.Millisecond})

	tests := []struct {
		name       string
		query      url.Values
		wantStatus string
		contains   []string
		excludes   []string
	}{
		{
			name:       "loaded",
			query:      url.Values{"src": {images.URL + "/ok.png"}, "alt": {"logo"}, "class": {"hero"}},
			wantStatus: "loaded",
			contains: []string{
				`<div class="imageloader imageloader-loaded hero">`,
				`<img alt="logo" decoding="async" src="` + images.URL + `/ok.png">`,
			},
		},
		{
			name:       "failed",
			query:      url.Values{"src": {images.URL + "/missing.png"}},
			wantStatus: "failed",
			contains:   []string{`imageloader-failed`, `Image failed to load`},
		},
		{
			name:       "pending",
			query:      url.Values{},
			wantStatus: "pending",
			contains:   []string{`imageloader-pending`, `aria-busy="true"`},
		},
		{
			name:       "timeout while loading",
			query:      url.Values{"src": {images.URL + "/slow.png"}},
			wantStatus: "loading",
			contains:   []string{`imageloader-loading`, `imageloader-spinner`},
		},
		{
			name:       "pure",
			query:      url.Values{"src": {images.URL + "/ok.png"}, "pure": {"1"}},
			wantStatus: "loaded",
			contains:   []string{`<img class="imageloader imageloader-loaded" decoding="async" src="`},
			excludes:   []string{`<div`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/render?"+tt.query.Encode())
			if rec.Code != http.StatusOK {
				t.Fatalf("status code = %d: %s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get(StatusHeader); got != tt.wantStatus {
				t.Errorf("%s = %q, want %q", StatusHeader, got, tt.wantStatus)
			}
			body := rec.Body.String()
			for _, want := range tt.contains {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q:\n%s", want, body)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(body, bad) {
					t.Errorf("body contains %q:\n%s", bad, body)
				}
			}
		})
	}
}

func TestRenderFailureHeader(t *testing.T) {
	images := imageServer(t)
	s := newTestServer(t, Config{})

	rec := get(t, s, "/render?src="+url.QueryEscape(images.URL+"/missing.png"))
	if got := rec.Header().Get("X-Imageloader-Error"); !strings.Contains(got, "unexpected status 404") {
		t.Errorf("X-Imageloader-Error = %q", got)
	}
}

func TestRenderPage(t *testing.T) {
	images := imageServer(t)
	s := newTestServer(t, Config{})

	rec := get(t, s, "/render?page=1&src="+url.QueryEscape(images.URL+"/ok.png"))
	body := rec.Body.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>" + images.URL + "/ok.png</title>",
		`<figure data-status="loaded">`,
		`imageloader-loaded`,
		"<strong>loaded</strong>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q:\n%s", want, body)
		}
	}
}

func TestMetrics(t *testing.T) {
	images := imageServer(t)
	reg := prometheus.NewRegistry()
	s := newTestServer(t, Config{Registerer: reg, Gatherer: reg})

	get(t, s, "/render?src="+url.QueryEscape(images.URL+"/ok.png"))
	rec := get(t, s, "/metrics")

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`imageloader_loader_transitions_total{status="loaded"} 1`,
		`imageloader_http_requests_total{code="200",route="/render"} 1`,
		`imageloader_loader_active 0`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestMetricsRouteDisabled(t *testing.T) {
	s := newTestServer(t, Config{})
	if rec := get(t, s, "/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics = %d, want 404", rec.Code)
	}
}

func TestLive(t *testing.T) {
	images := imageServer(t)
	s := newTestServer(t, Config{})
	ts := httptest.NewServer(s)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live?alt=pic"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	first := readFrame(t, conn)
	if first.Status != "pending" {
		t.Fatalf("first frame status = %q, want pending", first.Status)
	}

	if err := conn.WriteJSON(Params{Src: images.URL + "/ok.png", Alt: "pic"}); err != nil {
		t.Fatal(err)
	}
	loaded := waitFrame(t, conn, "loaded")
	if !strings.Contains(loaded.HTML, `src="`+images.URL+`/ok.png"`) {
		t.Errorf("loaded html = %s", loaded.HTML)
	}

	if err := conn.WriteJSON(Params{Src: images.URL + "/gone.png"}); err != nil {
		t.Fatal(err)
	}
	failed := waitFrame(t, conn, "failed")
	if !strings.Contains(failed.Error, "404") {
		t.Errorf("failed frame error = %q", failed.Error)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

// waitFrame reads frames until one has the wanted status.
func waitFrame(t *testing.T, conn *websocket.Conn, status string) Frame {
	t.Helper()
	for i := 0; i < 10; i++ {
		if f := readFrame(t, conn); f.Status == status {
			return f
		}
	}
	t.Fatalf("no %s frame received", status)
	return Frame{}
}

func TestParamsFromQuery(t *testing.T) {
	q := url.Values{
		"src":    {"a.png"},
		"srcset": {"a.png 1x, a@2x.png 2x"},
		"class":  {"hero"},
		"alt":    {"a"},
		"pure":   {"true"},
	}
	got := ParamsFromQuery(q)
	want := Params{Src: "a.png", SrcSet: "a.png 1x, a@2x.png 2x", Class: "hero", Alt: "a", Pure: true}
	if got != want {
		t.Errorf("ParamsFromQuery = %+v, want %+v", got, want)
	}

	if ParamsFromQuery(url.Values{"pure": {"nope"}}).Pure {
		t.Error("invalid pure value should be false")
	}
}
