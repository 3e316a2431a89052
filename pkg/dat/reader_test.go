package dat

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecords(t *testing.T) {
	input := q + "ID" + q + sep + q + "TEXT" + q + "\r\n" +
		q + "1" + q + sep + q + "line1\nline2" + q + "\r\n"

	records, err := ReadAll(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)

	id, ok := records[0].Get("ID")
	require.True(t, ok)
	assert.Equal(t, "1", id)

	text, ok := records[0].Get("TEXT")
	require.True(t, ok)
	assert.Equal(t, "line1\nline2", text)
}

func TestReadEmptyFieldModes(t *testing.T) {
	input := q + "A" + q + sep + q + "B" + q + "\n" +
		q + "x" + q + sep + q + q + "\n"

	tests := []struct {
		name     string
		mode     EmptyFieldMode
		wantHas  bool
		wantNull bool
	}{
		{name: "omit drops the key", mode: EmptyFieldOmit, wantHas: false},
		{name: "keep stores empty string", mode: EmptyFieldKeep, wantHas: true, wantNull: false},
		{name: "null stores a marker", mode: EmptyFieldNull, wantHas: true, wantNull: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultReaderOptions()
			opts.EmptyFields = tt.mode

			records, err := ReadAllWithOptions(context.Background(), strings.NewReader(input), opts)
			require.NoError(t, err)
			require.Len(t, records, 1)
			rec := records[0]

			a, ok := rec.Get("A")
			require.True(t, ok)
			assert.Equal(t, "x", a)

			b, ok := rec.Get("B")
			assert.Equal(t, tt.wantHas, ok)
			assert.Empty(t, b)
			assert.Equal(t, tt.wantNull, rec.IsNull("B"))

			if tt.mode == EmptyFieldOmit {
				assert.Equal(t, []string{"A"}, rec.Names())
			} else {
				assert.Equal(t, []string{"A", "B"}, rec.Names())
			}
		})
	}
}

func TestReadCaseInsensitiveKeys(t *testing.T) {
	input := q + "DocID" + q + "\n" + q + "DOC1" + q + "\n"

	records, err := ReadAll(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)

	for _, key := range []string{"DocID", "docid", "DOCID"} {
		v, ok := records[0].Get(key)
		require.True(t, ok, "key %q", key)
		assert.Equal(t, "DOC1", v)
	}
}

func TestReadDuplicateHeaderLastWins(t *testing.T) {
	input := q + "A" + q + sep + q + "a" + q + "\n" +
		q + "first" + q + sep + q + "second" + q + "\n"

	records, err := ReadAll(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)

	v, ok := records[0].Get("A")
	require.True(t, ok)
	assert.Equal(t, "second", v)
	assert.Equal(t, 1, records[0].Len())
}

func TestReadFieldCountMismatch(t *testing.T) {
	input := q + "A" + q + sep + q + "B" + q + "\n" +
		q + "1" + q + sep + q + "2" + q + "\n" +
		q + "only" + q + "\n"

	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Read(context.Background())
	require.NoError(t, err)

	_, err = r.Read(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFieldCount)

	var fcErr *FieldCountError
	require.ErrorAs(t, err, &fcErr)
	assert.Equal(t, int64(2), fcErr.Row)
	assert.Equal(t, 2, fcErr.HeaderFields)
	assert.Equal(t, 1, fcErr.RecordFields)

	// The error is terminal: no record for that row is ever yielded.
	_, err = r.Read(context.Background())
	assert.ErrorIs(t, err, ErrFieldCount)
}

func TestReadHeaderAccessor(t *testing.T) {
	input := q + "A" + q + sep + q + "B" + q + "\n" + q + "1" + q + sep + q + "2" + q + "\n"

	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)
	defer r.Close()

	assert.Nil(t, r.Header())

	_, err = r.Read(context.Background())
	require.NoError(t, err)

	header := r.Header()
	require.NotNil(t, header)
	assert.Equal(t, []string{"A", "B"}, header.Names())

	i, ok := header.Index("b")
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestReadUTF16LE(t *testing.T) {
	content := q + "ID" + q + sep + q + "NAME" + q + "\r\n" +
		q + "1" + q + sep + q + "Ægir" + q + "\r\n"

	records, err := ReadAll(context.Background(), bytes.NewReader(utf16le(content, true)))
	require.NoError(t, err)
	require.Len(t, records, 1)

	name, ok := records[0].Get("NAME")
	require.True(t, ok)
	assert.Equal(t, "Ægir", name)
}

func TestReadUTF16BE(t *testing.T) {
	content := q + "ID" + q + "\n" + q + "42" + q + "\n"

	records, err := ReadAll(context.Background(), bytes.NewReader(utf16be(content, true)))
	require.NoError(t, err)
	require.Len(t, records, 1)

	id, ok := records[0].Get("ID")
	require.True(t, ok)
	assert.Equal(t, "42", id)
}

func TestReadInvalidSignature(t *testing.T) {
	_, err := ReadAll(context.Background(), strings.NewReader("name,age\n"))
	assert.ErrorIs(t, err, ErrSignature)
}

func TestReadCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := q + "A" + q + "\n" + q + "1" + q + "\n"
	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadAfterClose(t *testing.T) {
	input := q + "A" + q + "\n" + q + "1" + q + "\n"
	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)

	r.Close()
	_, err = r.Read(context.Background())
	assert.Equal(t, io.EOF, err)
}

func TestReadHeaderOnlyStream(t *testing.T) {
	input := q + "A" + q + sep + q + "B" + q + "\r\n"

	records, err := ReadAll(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestValidate(t *testing.T) {
	good := q + "A" + q + "\n" + q + "1" + q + "\n"
	assert.NoError(t, Validate(context.Background(), strings.NewReader(good)))

	bad := q + "A" + q + sep + q + "B" + q + "\n" + q + "1" + q + "\n"
	assert.ErrorIs(t, Validate(context.Background(), strings.NewReader(bad)), ErrFieldCount)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "DAT", Format())
}
