// Package dat provides encoding signature detection for DAT streams.
package dat

import (
	"fmt"
	"io"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies the character encoding of a DAT stream.
type Encoding int

const (
	// EncodingUTF8 is UTF-8, with or without a byte order mark.
	EncodingUTF8 Encoding = iota
	// EncodingUTF16LE is UTF-16 little-endian, with or without a byte order mark.
	EncodingUTF16LE
	// EncodingUTF16BE is UTF-16 big-endian, with or without a byte order mark.
	EncodingUTF16BE
)

// String returns the conventional name of the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "UTF-8"
	case EncodingUTF16LE:
		return "UTF-16LE"
	case EncodingUTF16BE:
		return "UTF-16BE"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// NewDecoder returns a decoder for the detected encoding. DetectEncoding
// has already repositioned the stream past any byte order mark, so the
// decoders never expect one.
func (e Encoding) NewDecoder() *xencoding.Decoder {
	switch e {
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	default:
		return unicode.UTF8.NewDecoder()
	}
}

// DetectEncoding inspects the leading bytes of a DAT stream and identifies
// its encoding. Every well-formed DAT payload begins with the text
// qualifier U+00FE, so the first bytes must be either a byte order mark
// followed by the encoded qualifier, or the encoded qualifier itself.
//
// On success the stream is repositioned to the first content byte: just
// past the byte order mark when one was found, or back at offset 0 when
// the qualifier appears directly. On failure a *SignatureError is returned
// and the stream position is unspecified.
func DetectEncoding(rs io.ReadSeeker) (Encoding, error) {
	sig := make([]byte, 6)
	n, err := io.ReadFull(rs, sig)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, err
	}
	sig = sig[:n]

	// Byte order mark cases. The mark must be immediately followed by the
	// qualifier under the same encoding.
	switch {
	case hasPrefix(sig, 0xFF, 0xFE):
		if hasSuffixAt(sig, 2, 0xFE, 0x00) {
			return EncodingUTF16LE, seekTo(rs, 2)
		}
		return 0, &SignatureError{Reason: "UTF-16LE byte order mark not followed by the text qualifier"}

	case hasPrefix(sig, 0xFE, 0xFF):
		if hasSuffixAt(sig, 2, 0x00, 0xFE) {
			return EncodingUTF16BE, seekTo(rs, 2)
		}
		return 0, &SignatureError{Reason: "UTF-16BE byte order mark not followed by the text qualifier"}

	case hasPrefix(sig, 0xEF, 0xBB, 0xBF):
		if hasSuffixAt(sig, 3, 0xC3, 0xBE) {
			return EncodingUTF8, seekTo(rs, 3)
		}
		return 0, &SignatureError{Reason: "UTF-8 byte order mark not followed by the text qualifier"}
	}

	// No mark: the stream must open with the qualifier encoded directly.
	// Nothing is consumed in this case so decoding restarts at offset 0.
	switch {
	case hasPrefix(sig, 0xC3, 0xBE):
		return EncodingUTF8, seekTo(rs, 0)
	case hasPrefix(sig, 0xFE, 0x00):
		return EncodingUTF16LE, seekTo(rs, 0)
	case hasPrefix(sig, 0x00, 0xFE):
		return EncodingUTF16BE, seekTo(rs, 0)
	}

	return 0, &SignatureError{Reason: "stream does not begin with the text qualifier in any supported encoding"}
}

func hasPrefix(b []byte, prefix ...byte) bool {
	return hasSuffixAt(b, 0, prefix...)
}

func hasSuffixAt(b []byte, offset int, want ...byte) bool {
	if len(b) < offset+len(want) {
		return false
	}
	for i, w := range want {
		if b[offset+i] != w {
			return false
		}
	}
	return true
}

func seekTo(rs io.ReadSeeker, offset int64) error {
	_, err := rs.Seek(offset, io.SeekStart)
	return err
}
