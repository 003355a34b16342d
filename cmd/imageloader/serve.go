package main

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/imageloader/internal/errors"
	"github.com/vango-dev/imageloader/internal/preview"
	"github.com/vango-dev/imageloader/pkg/fetch"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the preview server",
		Long: `Run the preview server.

Routes:
  GET /render?src=...   render the settled loader markup
  GET /live?src=...     websocket stream of status frames
  GET /metrics          Prometheus metrics (when enabled)
  GET /healthz          liveness probe

Examples:
  imageloader serve
  imageloader serve --addr=0.0.0.0:9000
  IMAGELOADER_FETCH_BASE_URL=https://cdn.example.com/ imageloader serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger := newLogger(cfg)

			var reg *prometheus.Registry
			if cfg.Metrics.Enabled {
				reg = prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
			}

			var fetchReg prometheus.Registerer
			if reg != nil {
				fetchReg = reg
			}
			fetchOpts, err := clientOptions(cfg, logger, fetchReg, filesRootOnly)
			if err != nil {
				return err
			}

			pcfg := preview.Config{
				NewFetcher: func(d fetch.Dispatcher) fetch.Fetcher {
					return fetch.NewClient(d, fetchOpts...)
				},
				RenderTimeout: cfg.Server.RenderTimeout,
				Pretty:        cfg.Server.Pretty,
				Namespace:     cfg.Metrics.Namespace,
				Logger:        logger,
			}
			if reg != nil {
				pcfg.Registerer = reg
				pcfg.Gatherer = reg
			}

			ln, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				if stderrors.Is(err, syscall.EADDRINUSE) {
					return errors.New("E141").
						WithField(cfg.Server.Addr).
						WithSuggestion("Pick another address with --addr").
						Wrap(err)
				}
				return errors.New("E140").Wrap(err)
			}

			srv := &http.Server{
				Handler:           preview.New(pcfg),
				ReadHeaderTimeout: 10 * time.Second,
			}

			success("Preview server listening on http://%s", ln.Addr())
			if path := cfg.Path(); path != "" {
				info("Config: %s", path)
			}
			info("Press Ctrl+C to stop")

			return serve(cmd.Context(), srv, ln)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")

	return cmd
}

// serve runs srv on ln until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.New("E140").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errorMsg("Shutdown: %v", err)
		return errors.New("E140").Wrap(err)
	}
	return nil
}
