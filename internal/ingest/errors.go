package ingest

import (
	"errors"
	"fmt"
)

// ErrStructureChanged signals that a source page no longer contains the
// repeating article structure an adapter expects. It usually means the
// upstream site changed its layout.
var ErrStructureChanged = errors.New("expected article structure not found")

// FetchError marks a network-level failure (timeout, DNS, non-2xx) for one
// source. It is recovered at the per-source boundary.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError marks a failed extraction for one source. Like FetchError it is
// surfaced only through the run summary.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError marks a single raw record that cannot be normalized. The
// offending record is skipped; sibling records are unaffected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
