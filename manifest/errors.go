package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrManifestNotFound is returned when no package.json encloses the analyzed file,
	// or a configured package directory has none.
	ErrManifestNotFound = errors.New("package.json not found")

	// ErrEmptyManifest means every dependency section is empty after merging.
	// It is not a problem to report: callers skip the file silently.
	ErrEmptyManifest = errors.New("package.json declares no dependencies")
)

// ParseError wraps a syntax or shape error in a manifest
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadError wraps any I/O failure other than a missing file
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Message returns the diagnostic text for a manifest failure. ErrEmptyManifest and
// nil produce an empty string because neither is reported.
func Message(err error) string {
	if err == nil || errors.Is(err, ErrEmptyManifest) {
		return ""
	}
	if errors.Is(err, ErrManifestNotFound) {
		return "The package.json file could not be found."
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return "The package.json file could not be parsed: " + parseErr.Err.Error()
	}
	var readErr *ReadError
	if errors.As(err, &readErr) {
		return readErr.Err.Error()
	}
	return err.Error()
}
