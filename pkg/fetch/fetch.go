package fetch

import (
	"errors"
	"fmt"
	"time"
)

// Request describes one image load.
type Request struct {
	// URL is the image source.
	URL string

	// SrcSet is an optional candidate list ("a.png 1x, a@2x.png 2x").
	// When empty the URL alone is the candidate list.
	SrcSet string
}

// Event describes a successful load. It is the equivalent of the browser's
// load event for the image.
type Event struct {
	// URL is the requested source.
	URL string

	// Candidate is the srcset candidate that was actually loaded.
	Candidate string

	// ContentType is the content type reported by the source, if any.
	ContentType string

	// Format is the decoded image format ("png", "jpeg", "gif").
	Format string

	// Width and Height are the intrinsic image dimensions in pixels.
	Width  int
	Height int

	// Bytes is the payload size.
	Bytes int64

	// Elapsed is the time from start to completion.
	Elapsed time.Duration
}

// Fetcher starts and releases image loads.
//
// Start registers exactly two completion callbacks and returns the handle
// owning the load. Callbacks run on the caller's dispatcher, never
// concurrently with each other, and never after Release.
type Fetcher interface {
	Start(req Request, onSuccess func(Event), onFailure func(error)) *Handle
	Release(h *Handle)
}

// Dispatcher runs completion callbacks on the goroutine that owns the
// loader. loop.Loop implements it.
type Dispatcher interface {
	Dispatch(fn func()) bool
}

var (
	// ErrEmptyURL is returned when a request has no usable source.
	ErrEmptyURL = errors.New("fetch: empty url")

	// ErrUnsupportedScheme is returned when no source handles the URL scheme.
	ErrUnsupportedScheme = errors.New("fetch: unsupported scheme")

	// ErrNotImage is returned when the payload does not decode as an image.
	ErrNotImage = errors.New("fetch: not an image")

	// ErrTooLarge is returned when the payload exceeds the size limit.
	ErrTooLarge = errors.New("fetch: image too large")

	// ErrNotFound is returned by sources when the object does not exist.
	ErrNotFound = errors.New("fetch: not found")
)

// LoadError is the failure handed to onFailure.
type LoadError struct {
	URL       string // requested source
	Candidate string // candidate that was attempted
	Err       error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Candidate != "" && e.Candidate != e.URL {
		return fmt.Sprintf("load %s (candidate %s): %v", e.URL, e.Candidate, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	Code int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: unexpected status %d", e.Code)
}

// Is reports 404 responses as ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == 404
}
