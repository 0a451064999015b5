package config

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no candidate configuration source exists.
var ErrNotFound = errors.New("no configuration file found in any candidate location")

// ParseError reports a malformed configuration source. Per the resolution
// contract, a parse error on an existing source is fatal: the resolver never
// falls through to a lower-priority source past a broken file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse configuration file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MergeConflictError reports incompatible node kinds at the same path in
// two documents being merged.
type MergeConflictError struct {
	Path    string
	Base    Kind
	Overlay Kind
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("merge conflict at %q: cannot override %s with %s", e.Path, e.Base, e.Overlay)
}

// SchemaError reports a missing or invalid field in the merged document.
// Path is the dotted field path as it appears in the configuration file.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid configuration field %q: %s", e.Path, e.Reason)
}
