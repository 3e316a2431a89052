// Package dat provides DAT record encoding and output.
package dat

import (
	"bufio"
	"io"
	"strings"

	"github.com/shapestone/shape-dat/internal/tokenizer"
)

// utf8BOM is the byte order mark the writer emits by default, matching the
// signature DetectEncoding accepts on the read side.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const writerBufferSize = 64 * 1024

// Writer emits DAT records: every field wrapped in the text qualifier,
// fields joined by the field separator, records terminated with CRLF.
// Output is UTF-8, by default preceded by a byte order mark.
//
// The key order of the first written record fixes the column order for the
// whole output and produces the header row; later records are projected
// onto those columns, with missing keys written as empty fields.
//
// Example usage:
//
//	w := dat.NewWriter(file)
//	for _, rec := range records {
//	    if err := w.Write(rec); err != nil {
//	        // handle error
//	    }
//	}
//	if err := w.Flush(); err != nil {
//	    // handle error
//	}
type Writer struct {
	dst     *bufio.Writer
	opts    WriterOptions
	columns []string
	rows    int64
	err     error
}

// NewWriter creates a Writer with default options.
func NewWriter(w io.Writer) *Writer {
	return NewWriterWithOptions(w, DefaultWriterOptions())
}

// NewWriterWithOptions creates a Writer with custom options.
func NewWriterWithOptions(w io.Writer, opts WriterOptions) *Writer {
	return &Writer{
		dst:  bufio.NewWriterSize(w, writerBufferSize),
		opts: opts,
	}
}

// Write emits a single record. The first call infers the column order from
// the record's key order and writes the header row before the record
// itself. Call Flush after the last record.
func (w *Writer) Write(rec *Record) error {
	if w.err != nil {
		return w.err
	}

	if w.columns == nil {
		if err := w.writeHeader(rec.Names()); err != nil {
			return err
		}
	}

	for i, col := range w.columns {
		if i > 0 {
			if err := w.dst.WriteByte(byte(tokenizer.FieldSeparator)); err != nil {
				return w.fail(err)
			}
		}
		value, _ := rec.Get(col)
		if err := w.writeField(value); err != nil {
			return err
		}
	}
	if err := w.writeTerminator(); err != nil {
		return err
	}

	w.rows++
	return nil
}

// Flush flushes pending buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.dst.Flush(); err != nil {
		return w.fail(err)
	}
	return nil
}

// RowsWritten returns the number of data rows written, excluding the
// header row.
func (w *Writer) RowsWritten() int64 {
	return w.rows
}

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error {
	return w.err
}

func (w *Writer) writeHeader(columns []string) error {
	w.columns = columns
	if w.opts.ByteOrderMark {
		if _, err := w.dst.Write(utf8BOM); err != nil {
			return w.fail(err)
		}
	}
	for i, col := range columns {
		if i > 0 {
			if err := w.dst.WriteByte(byte(tokenizer.FieldSeparator)); err != nil {
				return w.fail(err)
			}
		}
		if err := w.writeField(col); err != nil {
			return err
		}
	}
	return w.writeTerminator()
}

// writeField wraps value in qualifiers, doubling any qualifier that
// appears in the content. Separators and line breaks inside the value need
// no treatment; the qualifier wrapping covers them.
func (w *Writer) writeField(value string) error {
	if _, err := w.dst.WriteRune(tokenizer.TextQualifier); err != nil {
		return w.fail(err)
	}

	qualifier := string(tokenizer.TextQualifier)
	for {
		i := strings.Index(value, qualifier)
		if i < 0 {
			break
		}
		if _, err := w.dst.WriteString(value[:i+len(qualifier)]); err != nil {
			return w.fail(err)
		}
		if _, err := w.dst.WriteString(qualifier); err != nil {
			return w.fail(err)
		}
		value = value[i+len(qualifier):]
	}
	if len(value) > 0 {
		if _, err := w.dst.WriteString(value); err != nil {
			return w.fail(err)
		}
	}

	if _, err := w.dst.WriteRune(tokenizer.TextQualifier); err != nil {
		return w.fail(err)
	}
	return nil
}

func (w *Writer) writeTerminator() error {
	if _, err := w.dst.WriteString("\r\n"); err != nil {
		return w.fail(err)
	}
	return nil
}

func (w *Writer) fail(err error) error {
	w.err = err
	return err
}

// WriteAll writes records to w with default options and returns the number
// of data rows written. An empty input writes nothing, not even a header.
func WriteAll(w io.Writer, records []*Record) (int64, error) {
	return WriteAllWithOptions(w, records, DefaultWriterOptions())
}

// WriteAllWithOptions writes records to w with custom options and returns
// the number of data rows written.
func WriteAllWithOptions(w io.Writer, records []*Record, opts WriterOptions) (int64, error) {
	dw := NewWriterWithOptions(w, opts)
	for _, rec := range records {
		if err := dw.Write(rec); err != nil {
			return dw.RowsWritten(), err
		}
	}
	if err := dw.Flush(); err != nil {
		return dw.RowsWritten(), err
	}
	return dw.RowsWritten(), nil
}
