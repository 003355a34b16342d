// Package preview serves image loaders over HTTP.
//
// Routes:
//
//	GET /healthz   liveness probe
//	GET /render    renders a loader once it settles (or the render timeout passes)
//	GET /live      websocket; one JSON frame per status change, accepts updates
//	GET /metrics   Prometheus metrics, when a gatherer is configured
//
// /render and /live take the loader props as query parameters: src,
// srcset, class, alt and pure. /render?page=1 wraps the result in a full
// HTML document.
//
// Each request gets its own event loop; the loader and its fetch
// completions run on that loop.
package preview
