package feed

import (
	"fmt"
)

// ResolutionError indicates a raw source reference that could not be
// classified or resolved to a canonical feed URL.
type ResolutionError struct {
	Input  string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("unresolvable source %q: %s", e.Input, e.Reason)
}

type FetchErrorKind string

const (
	FetchTimeout       FetchErrorKind = "timeout"
	FetchNetwork       FetchErrorKind = "network"
	FetchInvalidFormat FetchErrorKind = "invalid-format"
	FetchSizeExceeded  FetchErrorKind = "size-exceeded"
)

// FetchError carries the failure kind of a feed retrieval after both the
// direct and proxy tiers have been exhausted.
type FetchError struct {
	Kind FetchErrorKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed (%s) for %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
