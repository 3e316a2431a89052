// Package dat provides header-only peeking at DAT streams.
package dat

import (
	"bufio"
	"context"
	"io"

	"github.com/shapestone/shape-dat/internal/tokenizer"
)

// peekBufferSize is the fixed buffer size for header-only reads. Only one
// record's worth of text is needed, so the small end of the accepted range
// is always enough.
const peekBufferSize = MinBufferSize

// ReadHeader parses only the first record of a DAT stream and returns it
// as the Header, leaving the rest of the stream unread. It uses small
// fixed buffers regardless of reader defaults.
//
// Returns ErrEmptyHeader when the stream ends before any field content or
// terminator is observed.
//
// Example:
//
//	header, err := dat.ReadHeader(ctx, file)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(header.Names())
func ReadHeader(ctx context.Context, src io.ReadSeeker) (*Header, error) {
	enc, err := DetectEncoding(src)
	if err != nil {
		return nil, err
	}

	decoded := enc.NewDecoder().Reader(bufio.NewReaderSize(src, peekBufferSize))
	tok := tokenizer.New(decoded, tokenizer.Options{ChunkSize: peekBufferSize})
	defer tok.Close()

	fields, err := tok.Next(ctx)
	if err == io.EOF {
		return nil, ErrEmptyHeader
	}
	if err != nil {
		return nil, err
	}
	return newHeader(fields), nil
}
