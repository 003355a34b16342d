// Package fetch provides the asynchronous image-fetch primitive used by
// image loaders.
//
// A Fetcher starts a load for a Request and hands back a *Handle, the sole
// ownership token for that load. The two completion callbacks registered at
// Start run at most once, through the owner's Dispatcher, and never after
// the handle is released:
//
//	h := fetcher.Start(fetch.Request{URL: src, SrcSet: srcSet},
//	    func(ev fetch.Event) { /* loaded */ },
//	    func(err error) { /* failed */ },
//	)
//	...
//	fetcher.Release(h) // detaches both callbacks, cancels the transfer
//
// Client is the default implementation. It resolves a srcset candidate for
// the configured device pixel ratio, opens it through a scheme-specific
// Source (HTTP, local files, S3), and succeeds only when the payload decodes
// as an image. Loads are traced with OpenTelemetry and counted with
// Prometheus when Metrics are configured.
package fetch
