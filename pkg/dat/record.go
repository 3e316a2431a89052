// Package dat provides the materialized record type for DAT rows.
package dat

// Record is one materialized data row: an ordered mapping from header
// field name to value. Keys compare case-insensitively and later writes to
// the same key overwrite earlier ones while keeping the original position.
//
// A value can be present, empty, or null depending on the reader's
// EmptyFieldMode; under EmptyFieldOmit the key is absent entirely.
type Record struct {
	names  []string
	values map[string]recordValue
}

type recordValue struct {
	value string
	null  bool
}

// NewRecord creates an empty Record, typically for handing to a Writer.
func NewRecord() *Record {
	return &Record{values: make(map[string]recordValue)}
}

func newRecordSize(n int) *Record {
	return &Record{
		names:  make([]string, 0, n),
		values: make(map[string]recordValue, n),
	}
}

// Set stores a value under name, overwriting any previous value for the
// same name regardless of case. Returns the Record for method chaining.
func (r *Record) Set(name, value string) *Record {
	r.put(name, recordValue{value: value})
	return r
}

// SetNull stores a null marker under name. Returns the Record for method
// chaining.
func (r *Record) SetNull(name string) *Record {
	r.put(name, recordValue{null: true})
	return r
}

func (r *Record) put(name string, v recordValue) {
	key := foldName(name)
	if _, ok := r.values[key]; !ok {
		r.names = append(r.names, name)
	}
	r.values[key] = v
}

// Get returns the value stored under name, matching case-insensitively.
// The second return is false when the key is absent. Null values read as
// the empty string; use IsNull to tell them apart.
func (r *Record) Get(name string) (string, bool) {
	v, ok := r.values[foldName(name)]
	if !ok {
		return "", false
	}
	return v.value, true
}

// IsNull reports whether the value under name is a null marker.
func (r *Record) IsNull(name string) bool {
	v, ok := r.values[foldName(name)]
	return ok && v.null
}

// Has reports whether the record contains the key.
func (r *Record) Has(name string) bool {
	_, ok := r.values[foldName(name)]
	return ok
}

// Names returns the record's keys in insertion order with their original
// spelling.
func (r *Record) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Len returns the number of keys in the record.
func (r *Record) Len() int {
	return len(r.names)
}
