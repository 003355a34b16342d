package imageloader

import "fmt"

// Status is the load status of a Loader.
type Status uint8

const (
	// StatusPending means there is no source to load.
	StatusPending Status = iota

	// StatusLoading means a fetch is in flight.
	StatusLoading

	// StatusLoaded means the fetch for the current source succeeded.
	StatusLoaded

	// StatusFailed means the fetch for the current source failed.
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Terminal reports whether the status is final for the current source.
func (s Status) Terminal() bool {
	return s == StatusLoaded || s == StatusFailed
}

// ClassName returns the status class token, e.g. "imageloader-loaded".
func (s Status) ClassName() string {
	return ClassPrefix + "-" + s.String()
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStatus parses a status name.
func ParseStatus(name string) (Status, error) {
	switch name {
	case "pending":
		return StatusPending, nil
	case "loading":
		return StatusLoading, nil
	case "loaded":
		return StatusLoaded, nil
	case "failed":
		return StatusFailed, nil
	}
	return 0, fmt.Errorf("imageloader: unknown status %q", name)
}
