package core

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID is unknown or has expired.
var ErrSessionNotFound = errors.New("session not found")

// ErrEmptyFile is returned when an upload contains no bytes.
var ErrEmptyFile = errors.New("empty file")

// ParseError reports a malformed or schema-mismatched input file.
// No partial dataset is produced when it is returned.
type ParseError struct {
	Line   int    // 1-indexed line or sheet row, 0 when not row-specific
	Column string // Column label, empty when not column-specific
	Value  string // Offending cell value, if any
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" in column %q", e.Column)
	}
	msg += ": " + e.Reason
	if e.Value != "" {
		msg += fmt.Sprintf(" (%q)", e.Value)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// EmptySelectionError reports a FilterSpec with an empty selection set.
// The pipeline is not run; the caller should prompt for a complete selection.
type EmptySelectionError struct {
	Missing []Field
}

func (e *EmptySelectionError) Error() string {
	return fmt.Sprintf("empty selection: choose at least one value for %v", e.Missing)
}

// ExportError reports a failure to serialize the summary spreadsheet.
type ExportError struct {
	Op  string
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export failed: %s: %v", e.Op, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// IsEmptySelection reports whether err is an EmptySelectionError.
func IsEmptySelection(err error) bool {
	var target *EmptySelectionError
	return errors.As(err, &target)
}

// IsParseError reports whether err is a ParseError.
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}
