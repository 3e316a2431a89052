// Package dat provides error types for DAT parsing and writing.
package dat

import (
	"errors"
	"fmt"
)

// Common parsing errors. Typed errors below unwrap to these sentinels so
// callers can match with errors.Is.
var (
	// ErrSignature indicates the stream does not begin with a recognizable
	// encoding of the text qualifier.
	ErrSignature = errors.New("dat: invalid encoding signature")

	// ErrFieldCount indicates a record's field count differs from the header's.
	ErrFieldCount = errors.New("dat: wrong number of fields")

	// ErrEmptyHeader indicates the stream ended before a header record
	// could be read.
	ErrEmptyHeader = errors.New("dat: empty or invalid header")
)

// SignatureError reports a stream whose leading bytes are not a valid DAT
// signature: either no known encoding of the qualifier was found, or a
// byte order mark was present but not followed by the qualifier.
type SignatureError struct {
	// Reason describes what was found instead of the expected signature.
	Reason string
}

// Error returns a formatted message describing the bad signature.
func (e *SignatureError) Error() string {
	return fmt.Sprintf("dat: invalid encoding signature: %s", e.Reason)
}

// Unwrap returns ErrSignature so the error matches with errors.Is.
func (e *SignatureError) Unwrap() error {
	return ErrSignature
}

// FieldCountError reports a data record whose field count does not match
// the header's. The parse operation is not recoverable past this point;
// no row skipping is performed.
type FieldCountError struct {
	// Row is the 1-indexed data row (the header row is not counted).
	Row int64
	// HeaderFields is the number of fields in the header record.
	HeaderFields int
	// RecordFields is the number of fields in the offending record.
	RecordFields int
}

// Error returns a formatted message with both field counts and the row index.
func (e *FieldCountError) Error() string {
	return fmt.Sprintf("dat: record on row %d has %d fields, header has %d",
		e.Row, e.RecordFields, e.HeaderFields)
}

// Unwrap returns ErrFieldCount so the error matches with errors.Is.
func (e *FieldCountError) Unwrap() error {
	return ErrFieldCount
}
