// Package errors provides structured, actionable error messages for the
// imageloader command and its configuration.
//
// Each error has a registered code (e.g. "E101") that maps to a category,
// a short message, a detailed explanation and a documentation URL. Call
// sites add a suggestion, the offending field or source, and the wrapped
// cause.
//
// # Error Categories
//
//   - config: invalid or unreadable configuration
//   - fetch: image sources that cannot be set up
//   - loader: misuse of the loader component
//   - server: preview server failures
//   - cli: command line usage errors
//
// # Usage
//
//	err := errors.New("E102").
//	    WithField("fetch.timeout").
//	    WithSuggestion("Use a positive duration such as \"10s\"")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E102: Invalid fetch timeout
//	//
//	//   fetch.timeout
//	//
//	//   The fetch timeout must be zero (no limit) or a positive duration.
//	//
//	//   Hint: Use a positive duration such as "10s"
//	//
//	//   Learn more: https://imageloader.dev/docs/errors/E102
package errors
