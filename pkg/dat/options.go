// Package dat provides configurable options for DAT parsing and writing.
package dat

import "fmt"

// Buffer size bounds. Both reader buffer sizes are clamped to this range
// before use.
const (
	// MinBufferSize is the smallest accepted decode or chunk buffer size.
	MinBufferSize = 4 * 1024
	// MaxBufferSize is the largest accepted decode or chunk buffer size.
	MaxBufferSize = 1024 * 1024

	// DefaultDecodeBufferSize is the default buffer between the raw stream
	// and the character decoder.
	DefaultDecodeBufferSize = 64 * 1024
	// DefaultChunkSize is the default per-read chunk over the decoded stream.
	DefaultChunkSize = 64 * 1024
)

// EmptyFieldMode specifies how zero-length field values appear in
// materialized records.
type EmptyFieldMode int

const (
	// EmptyFieldNull keeps the key and marks the value as null (default).
	EmptyFieldNull EmptyFieldMode = iota
	// EmptyFieldKeep keeps the key with an empty string value.
	EmptyFieldKeep
	// EmptyFieldOmit drops the key from the record entirely.
	EmptyFieldOmit
)

// String returns the string representation of EmptyFieldMode.
func (m EmptyFieldMode) String() string {
	switch m {
	case EmptyFieldNull:
		return "null"
	case EmptyFieldKeep:
		return "keep"
	case EmptyFieldOmit:
		return "omit"
	default:
		return fmt.Sprintf("EmptyFieldMode(%d)", m)
	}
}

// ReaderOptions configures DAT parsing behavior.
type ReaderOptions struct {
	// DecodeBufferSize is the size in characters of the buffer between the
	// raw byte stream and the character decoder.
	// Clamped to [MinBufferSize, MaxBufferSize]. Default: 64 KiB.
	DecodeBufferSize int

	// ChunkSize is the size in characters of the chunks the tokenizer
	// reads from the decoded stream.
	// Clamped to [MinBufferSize, MaxBufferSize]. Default: 64 KiB.
	ChunkSize int

	// EmptyFields selects how zero-length field values are represented.
	// Exactly one mode applies to every field of every record of a read
	// operation. Default: EmptyFieldNull.
	EmptyFields EmptyFieldMode
}

// DefaultReaderOptions returns the default reader configuration.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		DecodeBufferSize: DefaultDecodeBufferSize,
		ChunkSize:        DefaultChunkSize,
		EmptyFields:      EmptyFieldNull,
	}
}

// Validate checks if the options are valid.
// Returns an error if the options are invalid.
func (o ReaderOptions) Validate() error {
	switch o.EmptyFields {
	case EmptyFieldNull, EmptyFieldKeep, EmptyFieldOmit:
		return nil
	default:
		return &OptionsError{Field: "EmptyFields", Message: "unknown empty field mode"}
	}
}

// clamped returns a copy of o with both buffer sizes forced into the
// accepted range. Zero values pick up the defaults first.
func (o ReaderOptions) clamped() ReaderOptions {
	if o.DecodeBufferSize == 0 {
		o.DecodeBufferSize = DefaultDecodeBufferSize
	}
	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
	}
	o.DecodeBufferSize = clampBufferSize(o.DecodeBufferSize)
	o.ChunkSize = clampBufferSize(o.ChunkSize)
	return o
}

func clampBufferSize(size int) int {
	if size < MinBufferSize {
		return MinBufferSize
	}
	if size > MaxBufferSize {
		return MaxBufferSize
	}
	return size
}

// WriterOptions configures DAT writing behavior.
type WriterOptions struct {
	// ByteOrderMark controls whether a UTF-8 byte order mark is written
	// before the header record. Default: true.
	ByteOrderMark bool
}

// DefaultWriterOptions returns the default writer configuration.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{
		ByteOrderMark: true,
	}
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "dat: invalid " + e.Field + ": " + e.Message
}
