package ply

import (
	"errors"
	"fmt"
)

// Header errors.
var (
	ErrMissingMagic            = errors.New("missing 'ply' magic line")
	ErrMalformedHeader         = errors.New("malformed PLY header")
	ErrUnsupportedFormat       = errors.New("unsupported PLY format")
	ErrUnsupportedPropertyType = errors.New("unsupported property type")
	ErrMissingVertexElement    = errors.New("missing vertex element")
	ErrMissingPositionField    = errors.New("missing position field")
)

// Decode errors.
var (
	ErrTruncatedData       = errors.New("truncated binary data")
	ErrMalformedRow        = errors.New("malformed ascii row")
	ErrRecordCountMismatch = errors.New("record count mismatch")
)

// HeaderError reports a header failure at a 1-based header line.
// Line is 0 when the failure is not tied to a single line.
type HeaderError struct {
	Line int
	Err  error
}

func (e *HeaderError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("ply header line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("ply header: %v", e.Err)
}

func (e *HeaderError) Unwrap() error { return e.Err }

func headerErrorf(line int, sentinel error, format string, args ...any) *HeaderError {
	return &HeaderError{Line: line, Err: fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)}
}

// DecodeError reports a body failure. Offset is the absolute byte offset of
// the failing record for binary bodies; Line is the 1-based file line for
// ascii bodies.
type DecodeError struct {
	Record int
	Offset int64
	Line   int
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("ply record %d (line %d): %v", e.Record, e.Line, e.Err)
	}
	return fmt.Sprintf("ply record %d (byte offset %d): %v", e.Record, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
