// Package dat provides row counting for DAT streams without
// materialization.
package dat

import (
	"bufio"
	"context"
	"io"

	"github.com/shapestone/shape-dat/internal/tokenizer"
)

// ProgressFunc receives the number of data rows counted so far and returns
// how many additional rows to count before the next invocation. Return
// values below 1 are treated as 1.
type ProgressFunc func(rows int64) int64

// CountRows counts the data rows of a DAT stream with default options.
// See CountRowsWithOptions.
func CountRows(ctx context.Context, src io.ReadSeeker, progress ProgressFunc) (int64, error) {
	return CountRowsWithOptions(ctx, src, DefaultReaderOptions(), progress)
}

// CountRowsWithOptions counts the data rows of a DAT stream without
// materializing them. After the header record is captured, field text is
// discarded and only field counts and record boundaries are tracked, so
// counting allocates almost nothing per row. Field counts are still
// validated against the header.
//
// The optional progress callback is invoked once as soon as the header is
// available (with zero rows counted), again whenever the row count reaches
// the threshold the previous invocation requested, and one final time
// after the last row if any rows were counted since the last invocation.
//
// Example:
//
//	n, err := dat.CountRows(ctx, file, func(rows int64) int64 {
//	    fmt.Printf("\r%d rows", rows)
//	    return 10000
//	})
func CountRowsWithOptions(ctx context.Context, src io.ReadSeeker, opts ReaderOptions, progress ProgressFunc) (int64, error) {
	opts = opts.clamped()
	if err := opts.Validate(); err != nil {
		return 0, err
	}

	enc, err := DetectEncoding(src)
	if err != nil {
		return 0, err
	}

	decoded := enc.NewDecoder().Reader(bufio.NewReaderSize(src, opts.DecodeBufferSize))
	tok := tokenizer.New(decoded, tokenizer.Options{ChunkSize: opts.ChunkSize})
	defer tok.Close()

	header, err := tok.Next(ctx)
	if err != nil {
		if err == io.EOF {
			err = ErrEmptyHeader
		}
		return 0, err
	}
	headerFields := len(header)
	tok.SetDiscardText(true)

	var (
		rows      int64
		sinceLast int64
		every     int64 = 1
	)
	if progress != nil {
		every = minOne(progress(0))
	}

	for {
		fields, err := tok.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		if len(fields) != headerFields {
			return rows, &FieldCountError{
				Row:          rows + 1,
				HeaderFields: headerFields,
				RecordFields: len(fields),
			}
		}

		rows++
		sinceLast++
		if progress != nil && sinceLast >= every {
			every = minOne(progress(rows))
			sinceLast = 0
		}
	}

	if progress != nil && sinceLast > 0 {
		progress(rows)
	}
	return rows, nil
}

func minOne(n int64) int64 {
	if n < 1 {
		return 1
	}
	return n
}
