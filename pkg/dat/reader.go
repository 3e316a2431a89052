// Package dat provides streaming record reads over DAT streams.
package dat

import (
	"bufio"
	"context"
	"io"

	"github.com/shapestone/shape-dat/internal/tokenizer"
)

// Reader provides a streaming interface for reading DAT records one at a
// time. Records are produced strictly in stream order and the header row
// is captured, not yielded. This is memory-efficient for large exports as
// it holds at most one decode chunk ahead of the current record.
//
// Example usage:
//
//	file, _ := os.Open("export.dat")
//	defer file.Close()
//
//	r, err := dat.NewReader(file)
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//
//	for {
//	    rec, err := r.Read(ctx)
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // handle error
//	    }
//	    id, _ := rec.Get("ID")
//	    fmt.Println(id)
//	}
type Reader struct {
	tok    *tokenizer.Tokenizer
	opts   ReaderOptions
	header *Header
	row    int64
	err    error
}

// NewReader creates a Reader over a seekable DAT stream positioned at
// offset 0, detecting the stream encoding from its signature.
func NewReader(src io.ReadSeeker) (*Reader, error) {
	return NewReaderWithOptions(src, DefaultReaderOptions())
}

// NewReaderWithOptions creates a Reader with custom options. Buffer sizes
// are clamped to [MinBufferSize, MaxBufferSize] before use.
//
// Example:
//
//	opts := dat.DefaultReaderOptions()
//	opts.EmptyFields = dat.EmptyFieldOmit
//	r, err := dat.NewReaderWithOptions(file, opts)
func NewReaderWithOptions(src io.ReadSeeker, opts ReaderOptions) (*Reader, error) {
	opts = opts.clamped()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	enc, err := DetectEncoding(src)
	if err != nil {
		return nil, err
	}

	decoded := enc.NewDecoder().Reader(bufio.NewReaderSize(src, opts.DecodeBufferSize))
	tok := tokenizer.New(decoded, tokenizer.Options{ChunkSize: opts.ChunkSize})

	return &Reader{tok: tok, opts: opts}, nil
}

// Read returns the next materialized record, or io.EOF after the last one.
// The first call captures the header row first; the header itself is never
// returned as a record.
//
// A data record whose field count differs from the header's fails with a
// *FieldCountError. Any error is terminal for this Reader and pooled
// buffers are released before it is returned.
func (r *Reader) Read(ctx context.Context) (*Record, error) {
	if r.err != nil {
		return nil, r.err
	}

	if r.header == nil {
		fields, err := r.tok.Next(ctx)
		if err != nil {
			if err == io.EOF {
				err = ErrEmptyHeader
			}
			return nil, r.fail(err)
		}
		r.header = newHeader(fields)
	}

	fields, err := r.tok.Next(ctx)
	if err != nil {
		return nil, r.fail(err)
	}

	if len(fields) != r.header.Len() {
		return nil, r.fail(&FieldCountError{
			Row:          r.row + 1,
			HeaderFields: r.header.Len(),
			RecordFields: len(fields),
		})
	}

	r.row++
	return r.materialize(fields), nil
}

// ReadAll reads every remaining record into a slice.
func (r *Reader) ReadAll(ctx context.Context) ([]*Record, error) {
	var records []*Record
	for {
		rec, err := r.Read(ctx)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// Header returns the captured header, or nil before the first Read.
func (r *Reader) Header() *Header {
	return r.header
}

// Close releases the reader's pooled buffers. It is safe to call more
// than once; Read fails after Close.
func (r *Reader) Close() {
	if r.err == nil {
		r.err = io.EOF
	}
	r.tok.Close()
}

// fail records a terminal error and releases pooled buffers on the way
// out, covering the end-of-stream, mismatch, and cancellation exits alike.
func (r *Reader) fail(err error) error {
	r.err = err
	r.tok.Close()
	return err
}

// materialize projects a raw record into header-ordered key/value pairs,
// applying the configured empty field mode. Duplicate header names write
// in column order, so the last occurrence wins.
func (r *Reader) materialize(fields []string) *Record {
	rec := newRecordSize(r.header.Len())
	for i, name := range r.header.names {
		value := fields[i]
		if value == "" {
			switch r.opts.EmptyFields {
			case EmptyFieldKeep:
				rec.Set(name, "")
			case EmptyFieldOmit:
				// Key stays absent.
			default:
				rec.SetNull(name)
			}
			continue
		}
		rec.Set(name, value)
	}
	return rec
}

// ReadAll reads an entire DAT stream into memory with default options.
//
// For large exports prefer NewReader and the streaming Read loop.
func ReadAll(ctx context.Context, src io.ReadSeeker) ([]*Record, error) {
	return ReadAllWithOptions(ctx, src, DefaultReaderOptions())
}

// ReadAllWithOptions reads an entire DAT stream into memory with custom
// options.
//
// Example:
//
//	opts := dat.DefaultReaderOptions()
//	opts.EmptyFields = dat.EmptyFieldKeep
//	records, err := dat.ReadAllWithOptions(ctx, file, opts)
func ReadAllWithOptions(ctx context.Context, src io.ReadSeeker, opts ReaderOptions) ([]*Record, error) {
	r, err := NewReaderWithOptions(src, opts)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ReadAll(ctx)
}
