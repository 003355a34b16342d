package imageloader

import (
	"errors"
	"fmt"
)

// ChildCount is the number of child views a Loader requires.
const ChildCount = 3

var (
	// ErrWrongChildCount is matched by every *ConfigurationError.
	ErrWrongChildCount = errors.New("imageloader: wrong number of children")

	// ErrNoFetcher is returned by New when no fetcher was configured.
	ErrNoFetcher = errors.New("imageloader: no fetcher configured")

	// ErrDisposed is returned by Update after Dispose.
	ErrDisposed = errors.New("imageloader: loader disposed")
)

// ConfigurationError reports malformed setup. No loader state is changed
// when it is returned.
type ConfigurationError struct {
	Got int // number of children supplied
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("imageloader: expected %d children (loaded, failed, pending), got %d", ChildCount, e.Got)
}

// Is matches ErrWrongChildCount.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrWrongChildCount
}

func validateChildren(children []View) error {
	if len(children) != ChildCount {
		return &ConfigurationError{Got: len(children)}
	}
	return nil
}
