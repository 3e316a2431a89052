// Package dat reads and writes Concordance DAT load files, the delimited
// text format used for legal discovery exports.
//
// The format uses fixed non-printable delimiters: fields are separated by
// U+0014 and every field is wrapped in the U+00FE text qualifier, doubled
// to escape a literal occurrence. Records end at LF, CRLF, or a lone CR at
// end of stream, and field values may contain embedded line breaks inside
// the qualifier. The first record names the columns and is captured as the
// header, never yielded as data.
//
// # Thread Safety
//
// Each Reader, Writer, and top-level call owns its own state; none of them
// share mutable state with each other. Independent streams may be parsed
// concurrently, but a single Reader or Writer must not be used from
// multiple goroutines at once.
//
// # Reading APIs
//
// The package provides four ways to consume a stream:
//
//   - NewReader / Reader.Read - streaming record-at-a-time reads
//   - ReadAll - materialize a whole stream into memory
//   - ReadHeader - parse only the header record
//   - CountRows - count data rows without materializing them
//
// All of them detect the stream encoding (UTF-8, UTF-16LE, or UTF-16BE,
// with or without a byte order mark) from the mandatory leading qualifier.
//
// # Example usage with ReadAll:
//
//	file, err := os.Open("export.dat")
//	if err != nil {
//	    // handle error
//	}
//	defer file.Close()
//
//	records, err := dat.ReadAll(ctx, file)
//	if err != nil {
//	    // handle error
//	}
//	for _, rec := range records {
//	    id, _ := rec.Get("ID")
//	    fmt.Println(id)
//	}
//
// # Writing
//
// The Writer emits UTF-8 with a leading byte order mark by default; the
// key order of the first record defines the columns:
//
//	rec := dat.NewRecord().Set("ID", "1").Set("TEXT", "line1\nline2")
//	n, err := dat.WriteAll(out, []*dat.Record{rec})
package dat

import (
	"context"
	"io"
)

// Format returns the format identifier for this codec.
// Returns "DAT" to identify the Concordance DAT load file format.
func Format() string {
	return "DAT"
}

// Validate checks that src is a well-formed DAT stream: a valid encoding
// signature, a header record, and a consistent field count on every data
// row. The stream is scanned without materializing records.
//
// This is the idiomatic Go approach - check the error:
//
//	if err := dat.Validate(ctx, file); err != nil {
//	    fmt.Println("invalid DAT:", err)
//	}
func Validate(ctx context.Context, src io.ReadSeeker) error {
	_, err := CountRows(ctx, src, nil)
	return err
}
