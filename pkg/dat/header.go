// Package dat provides the captured header of a DAT stream.
package dat

import "strings"

// Header holds the ordered field names captured from the first record of a
// DAT stream. Name lookup is case-insensitive; when the same name appears
// more than once, the later column wins, while Names preserves the raw
// order as written. A Header is immutable once captured.
type Header struct {
	names []string
	index map[string]int // folded name -> winning column
}

// newHeader copies the raw header record into an immutable Header.
func newHeader(fields []string) *Header {
	names := make([]string, len(fields))
	copy(names, fields)

	index := make(map[string]int, len(fields))
	for i, name := range names {
		index[foldName(name)] = i
	}

	return &Header{names: names, index: index}
}

// Names returns the field names in stream order, including duplicates.
func (h *Header) Names() []string {
	names := make([]string, len(h.names))
	copy(names, h.names)
	return names
}

// Len returns the number of fields in the header.
func (h *Header) Len() int {
	return len(h.names)
}

// Index returns the column of the named field, matching case-insensitively.
// For duplicate names it reports the last occurrence.
func (h *Header) Index(name string) (int, bool) {
	i, ok := h.index[foldName(name)]
	return i, ok
}

// foldName is the case-folded representation used for header and record
// key comparison.
func foldName(name string) string {
	return strings.ToLower(name)
}
