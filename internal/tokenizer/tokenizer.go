// Package tokenizer implements the record-level state machine for the
// Concordance DAT load file format.
//
// DAT tokenization works differently from CSV because the delimiters are
// fixed non-printable code points and every field is qualifier-wrapped:
//  1. Fields are separated by U+0014 when outside the qualifier.
//  2. Fields are wrapped in U+00FE; a doubled qualifier is a literal one.
//  3. Records end at LF, CRLF, or a lone CR at end of stream.
//
// The tokenizer consumes an already-decoded UTF-8 stream in fixed-size
// chunks and yields one raw record per call to Next. Chunk boundaries never
// affect the record sequence: the CRLF pair and the doubled qualifier are
// both resolved across refills.
package tokenizer

import (
	"context"
	"io"
	"unicode/utf8"
)

// Format delimiters. These are fixed by the Concordance DAT format and are
// not configurable.
const (
	// FieldSeparator separates fields within a record when outside the
	// text qualifier.
	FieldSeparator rune = 0x14

	// TextQualifier wraps every field. A doubled qualifier inside a field
	// is an escaped literal qualifier.
	TextQualifier rune = 0xFE
)

// defaultChunkSize is the per-read chunk for the decoded character stream.
const defaultChunkSize = 64 * 1024

// Options configures a Tokenizer.
type Options struct {
	// ChunkSize is the size in bytes of the read chunk over the decoded
	// stream. Values below utf8.UTFMax fall back to the default.
	ChunkSize int

	// DiscardText drops field text while preserving field counts and
	// record boundaries. Used by row counting after the header is taken.
	DiscardText bool
}

// Tokenizer converts a decoded character stream into raw records.
//
// A Tokenizer is single-use and owned by one parse operation at a time.
// The slice returned by Next is reused; callers must consume or copy it
// before the next call.
type Tokenizer struct {
	src io.Reader

	buf    []byte // pooled chunk buffer
	bufPos int
	bufLen int
	bufErr error // sticky error from src, delivered after buffered data

	inQuotes  bool
	pendingCR bool
	discard   bool

	field  []byte // pooled accumulator for the current field
	fields []string

	done   bool
	closed bool
}

// New creates a Tokenizer reading decoded characters from src.
func New(src io.Reader, opts Options) *Tokenizer {
	size := opts.ChunkSize
	if size < utf8.UTFMax {
		size = defaultChunkSize
	}
	return &Tokenizer{
		src:     src,
		buf:     getChunkBuffer(size),
		discard: opts.DiscardText,
		field:   getFieldBuffer(),
	}
}

// SetDiscardText toggles field text accumulation. When enabled, endField
// records only the field boundary; the yielded record keeps its length but
// every field value is the empty string.
func (t *Tokenizer) SetDiscardText(discard bool) {
	t.discard = discard
}

// Next returns the next raw record in stream order, or io.EOF after the
// last record. The returned slice is valid until the following call.
//
// Cancellation is checked before every chunk refill; once honored, no
// partial record is surfaced and no further reads are issued.
func (t *Tokenizer) Next(ctx context.Context) ([]string, error) {
	if t.done || t.closed {
		return nil, io.EOF
	}

	for {
		if t.bufPos >= t.bufLen {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		r, err := t.readRune()
		if err != nil {
			if err == io.EOF {
				return t.finishStream()
			}
			return nil, err
		}

		// A pending CR is resolved before the character is otherwise
		// dispatched: CR+LF terminates the record, anything else means
		// the CR was literal field content.
		if t.pendingCR {
			t.pendingCR = false
			if r == '\n' && !t.inQuotes {
				return t.endRecord(), nil
			}
			t.appendRune('\r')
		}

		switch {
		case r == TextQualifier:
			if t.inQuotes {
				if next, ok := t.peekRune(); ok && next == TextQualifier {
					t.skipRune()
					t.appendRune(TextQualifier)
					continue
				}
				t.inQuotes = false
			} else {
				t.inQuotes = true
			}

		case r == FieldSeparator && !t.inQuotes:
			t.endField()

		case r == '\n' && !t.inQuotes:
			return t.endRecord(), nil

		case r == '\r':
			if t.inQuotes {
				t.appendRune('\r')
			} else {
				t.pendingCR = true
			}

		default:
			t.appendRune(r)
		}
	}
}

// Close returns pooled buffers and marks the tokenizer exhausted. It is
// safe to call on every exit path, including cancellation, and more than
// once.
func (t *Tokenizer) Close() {
	if t.closed {
		return
	}
	t.closed = true
	t.done = true
	putChunkBuffer(t.buf)
	putFieldBuffer(t.field)
	t.buf = nil
	t.field = nil
	t.fields = nil
}

// finishStream handles the degenerate end-of-stream cases: a trailing lone
// CR acts as a record terminator, and any buffered content finalizes as one
// last unterminated record.
func (t *Tokenizer) finishStream() ([]string, error) {
	t.done = true
	if t.pendingCR {
		// pendingCR is only ever set outside the qualifier.
		t.pendingCR = false
		return t.endRecord(), nil
	}
	if len(t.field) > 0 || len(t.fields) > 0 {
		return t.endRecord(), nil
	}
	return nil, io.EOF
}

func (t *Tokenizer) appendRune(r rune) {
	if t.discard {
		return
	}
	t.field = utf8.AppendRune(t.field, r)
}

func (t *Tokenizer) endField() {
	if t.discard {
		t.fields = append(t.fields, "")
	} else {
		t.fields = append(t.fields, string(t.field))
	}
	t.field = t.field[:0]
}

func (t *Tokenizer) endRecord() []string {
	t.endField()
	rec := t.fields
	t.fields = t.fields[:0]
	return rec
}

// readRune decodes the next character, refilling the chunk buffer as
// needed. A UTF-8 sequence split across a refill is carried over and
// decoded whole.
func (t *Tokenizer) readRune() (rune, error) {
	for {
		if t.bufPos < t.bufLen && utf8.FullRune(t.buf[t.bufPos:t.bufLen]) {
			r, size := utf8.DecodeRune(t.buf[t.bufPos:t.bufLen])
			t.bufPos += size
			return r, nil
		}
		if err := t.fill(); err != nil {
			if t.bufPos < t.bufLen {
				// Truncated sequence at end of stream.
				r, size := utf8.DecodeRune(t.buf[t.bufPos:t.bufLen])
				t.bufPos += size
				return r, nil
			}
			return 0, err
		}
	}
}

// peekRune reports the next character without consuming it. The refill may
// cross a chunk boundary so that a doubled qualifier straddling two chunks
// is still recognized as an escape.
func (t *Tokenizer) peekRune() (rune, bool) {
	for {
		if t.bufPos < t.bufLen && utf8.FullRune(t.buf[t.bufPos:t.bufLen]) {
			r, _ := utf8.DecodeRune(t.buf[t.bufPos:t.bufLen])
			return r, true
		}
		if err := t.fill(); err != nil {
			if t.bufPos < t.bufLen {
				r, _ := utf8.DecodeRune(t.buf[t.bufPos:t.bufLen])
				return r, true
			}
			return 0, false
		}
	}
}

// skipRune consumes the character previously returned by peekRune.
func (t *Tokenizer) skipRune() {
	if t.bufPos >= t.bufLen {
		return
	}
	_, size := utf8.DecodeRune(t.buf[t.bufPos:t.bufLen])
	t.bufPos += size
}

// fill compacts unread bytes to the front of the chunk buffer and reads
// more from the source. Errors from the source are sticky and delivered
// only once buffered data is exhausted.
func (t *Tokenizer) fill() error {
	if t.bufErr != nil {
		return t.bufErr
	}
	if t.bufPos > 0 {
		t.bufLen = copy(t.buf, t.buf[t.bufPos:t.bufLen])
		t.bufPos = 0
	}
	for {
		if t.bufLen == len(t.buf) {
			return nil
		}
		n, err := t.src.Read(t.buf[t.bufLen:])
		t.bufLen += n
		if err != nil {
			t.bufErr = err
			if n == 0 {
				return err
			}
			return nil
		}
		if n > 0 {
			return nil
		}
	}
}
