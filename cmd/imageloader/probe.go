package main

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/vango-dev/imageloader/internal/errors"
	"github.com/vango-dev/imageloader/internal/preview"
	"github.com/vango-dev/imageloader/pkg/fetch"
	"github.com/vango-dev/imageloader/pkg/imageloader"
	"github.com/vango-dev/imageloader/pkg/loop"
	"github.com/vango-dev/imageloader/pkg/render"
)

// probeOptions configure one probe run.
type probeOptions struct {
	srcset      string
	class       string
	pure        bool
	timeout     time.Duration
	concurrency int
	showHTML    bool
}

// probeResult is what one loader went through.
type probeResult struct {
	src         string
	transitions []imageloader.Status
	status      imageloader.Status
	html        string
	event       fetch.Event
	err         error
	elapsed     time.Duration
}

func probeCmd(flags *globalFlags) *cobra.Command {
	opts := probeOptions{}

	cmd := &cobra.Command{
		Use:   "probe <src>...",
		Short: "Load images and print their final status",
		Long: `Load each image source with its own loader and print the status
transitions and the rendered markup.

Sources may be http(s) URLs, file paths, or s3://bucket/key when object
storage is configured. Relative sources resolve against fetch.base_url.

Examples:
  imageloader probe https://example.com/logo.png
  imageloader probe --pure --class=avatar ./testdata/face.png
  imageloader probe --srcset="a.png 1x, a@2x.png 2x" a.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("E160").
					WithExample("imageloader probe https://example.com/logo.png")
			}

			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			fetchOpts, err := clientOptions(cfg, logger, nil, filesAnyPath)
			if err != nil {
				return err
			}
			renderer := render.NewRenderer(render.RendererConfig{Pretty: cfg.Server.Pretty})

			results, err := runProbes(cmd.Context(), args, opts, func(d fetch.Dispatcher) fetch.Fetcher {
				return fetch.NewClient(d, fetchOpts...)
			}, renderer)
			if err != nil {
				return err
			}

			return reportProbes(cmd.OutOrStdout(), results, opts.showHTML)
		},
	}

	cmd.Flags().StringVar(&opts.srcset, "srcset", "", "Responsive candidates applied to every source")
	cmd.Flags().StringVar(&opts.class, "class", "", "Extra class for the container")
	cmd.Flags().BoolVar(&opts.pure, "pure", false, "Render without the wrapper element")
	cmd.Flags().DurationVarP(&opts.timeout, "timeout", "t", time.Minute, "How long to wait for each image")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 4, "Images loaded at once")
	cmd.Flags().BoolVar(&opts.showHTML, "html", true, "Print the rendered markup")

	return cmd
}

// runProbes loads every source and returns the results in argument order.
func runProbes(ctx context.Context, srcs []string, opts probeOptions, newFetcher func(fetch.Dispatcher) fetch.Fetcher, renderer *render.Renderer) ([]probeResult, error) {
	if opts.concurrency < 1 {
		opts.concurrency = 1
	}

	results := make([]probeResult, len(srcs))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(opts.concurrency)
	for i, src := range srcs {
		p.Go(func(ctx context.Context) error {
			res, err := probe(ctx, src, opts, newFetcher, renderer)
			if err != nil {
				return fmt.Errorf("probe %s: %w", src, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// probe runs one loader on its own loop until it settles or the timeout
// expires.
func probe(ctx context.Context, src string, opts probeOptions, newFetcher func(fetch.Dispatcher) fetch.Fetcher, renderer *render.Renderer) (probeResult, error) {
	lp := loop.New()
	go lp.Run()
	defer lp.Close()

	res := probeResult{src: src}
	start := time.Now()
	settled := make(chan struct{})
	settle := func() {
		select {
		case <-settled:
		default:
			close(settled)
		}
	}

	var loader *imageloader.Loader
	var newErr error
	err := lp.Do(ctx, func() {
		props := imageloader.Props{
			Src:       src,
			SrcSet:    opts.srcset,
			ClassName: opts.class,
			Pure:      opts.pure,
			Children:  preview.Views(path.Base(src)),
			OnLoad:    func(ev fetch.Event) { res.event = ev },
			OnError:   func(err error) { res.err = err },
		}
		loader, newErr = imageloader.New(props, imageloader.WithFetcher(newFetcher(lp)))
		if newErr != nil {
			return
		}
		res.transitions = append(res.transitions, loader.Status())
		loader.Subscribe(func(s imageloader.Status) {
			res.transitions = append(res.transitions, s)
			if s != imageloader.StatusLoading {
				settle()
			}
		})
		if loader.Status() != imageloader.StatusLoading {
			settle()
		}
	})
	if err != nil {
		return res, err
	}
	if newErr != nil {
		return res, newErr
	}

	wait, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	select {
	case <-settled:
	case <-wait.Done():
	}

	var renderErr error
	err = lp.Do(context.Background(), func() {
		res.status = loader.Status()
		res.html, renderErr = loader.RenderHTML(renderer)
		loader.Dispose()
	})
	if err != nil {
		return res, err
	}
	res.elapsed = time.Since(start)
	return res, renderErr
}

// reportProbes prints each result and fails unless every image loaded.
// Images still loading when the timeout expired count as not loaded.
func reportProbes(w io.Writer, results []probeResult, showHTML bool) error {
	notLoaded := 0
	for _, res := range results {
		fmt.Fprintf(w, "%s %s %s\n", statusBadge(res.status), res.src, styles.subtle.Render(res.elapsed.Round(time.Millisecond).String()))
		fmt.Fprintf(w, "    %s\n", styles.subtle.Render(transitionPath(res.transitions)))

		switch res.status {
		case imageloader.StatusLoaded:
			fmt.Fprintf(w, "    %dx%d %s, %d bytes\n", res.event.Width, res.event.Height, res.event.Format, res.event.Bytes)
		case imageloader.StatusFailed:
			if res.err != nil {
				fmt.Fprintf(w, "    %s\n", styles.failure.Render(res.err.Error()))
			}
		case imageloader.StatusLoading:
			fmt.Fprintf(w, "    %s\n", styles.loading.Render("timed out while loading"))
		case imageloader.StatusPending:
			fmt.Fprintf(w, "    %s\n", styles.pending.Render("no source"))
		}
		if res.status != imageloader.StatusLoaded {
			notLoaded++
		}

		if showHTML && res.html != "" {
			fmt.Fprintln(w, styles.markup.Render(res.html))
		}
	}

	if notLoaded > 0 {
		return errors.New("E161").
			WithDetail(fmt.Sprintf("%d of %d images did not load.", notLoaded, len(results)))
	}
	return nil
}

// statusBadge renders a fixed-width colored status label.
func statusBadge(s imageloader.Status) string {
	label := s.String()
	pad := strings.Repeat(" ", max(0, 7-len(label)))
	switch s {
	case imageloader.StatusLoaded:
		return styles.success.Render(label) + pad
	case imageloader.StatusFailed:
		return styles.failure.Render(label) + pad
	case imageloader.StatusLoading:
		return styles.loading.Render(label) + pad
	default:
		return styles.pending.Render(label) + pad
	}
}

// transitionPath formats transitions as "pending → loading → loaded".
func transitionPath(transitions []imageloader.Status) string {
	names := make([]string, len(transitions))
	for i, s := range transitions {
		names[i] = s.String()
	}
	return strings.Join(names, " → ")
}
