package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrInvalidConfig is returned when a chunking configuration is
	// rejected before any processing takes place.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMalformedTree is returned when a syntax tree is structurally
	// inconsistent with its source buffer. Non-recoverable for the file.
	ErrMalformedTree = errors.New("malformed syntax tree")

	// ErrUnsupportedLanguage is returned when no grammar is available
	// for a file's language.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrParseError is returned when parsing fails.
	ErrParseError = errors.New("parse error")

	// ErrInvariant is returned when the engine detects an internal
	// invariant violation, such as a request to merge non-adjacent chunks.
	ErrInvariant = errors.New("internal invariant violation")

	// ErrCoverage is returned when the final chunk sequence does not
	// cover every byte of the input.
	ErrCoverage = errors.New("coverage failure")
)

// MalformedTreeError describes a span inconsistency between a syntax
// tree and its source buffer.
type MalformedTreeError struct {
	Path   string // File being chunked
	Detail string // What was inconsistent
}

func (e *MalformedTreeError) Error() string {
	return fmt.Sprintf("malformed syntax tree for %s: %s", e.Path, e.Detail)
}

// Is makes MalformedTreeError match ErrMalformedTree in errors.Is checks.
func (e *MalformedTreeError) Is(target error) bool {
	return target == ErrMalformedTree
}
