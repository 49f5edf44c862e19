package object_test

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"testing"

	"github.com/mbranch/gitgo/ginternals/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlobOID(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		content  []byte
		expected string
	}{
		{
			content:  nil,
			expected: "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391",
		},
		{
			content:  []byte("hello\n"),
			expected: "ce013625030ba8dba906f756967f9e9ca394464a",
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()

			o := object.New(object.TypeBlob, tc.content)
			assert.Equal(t, tc.expected, o.ID().String())
		})
	}
}

func TestCompressInflateRoundTrip(t *testing.T) {
	t.Parallel()

	o := object.New(object.TypeBlob, []byte("hello\n"))
	data, err := o.Compress()
	require.NoError(t, err)

	typ, payload, err := object.Inflate(data)
	require.NoError(t, err)
	assert.Equal(t, object.TypeBlob, typ)
	assert.Equal(t, []byte("hello\n"), payload)
}

func TestSplitHeaderRejectsLengthMismatch(t *testing.T) {
	t.Parallel()

	var framed bytes.Buffer
	framed.WriteString("blob 4\x00abc")

	_, _, err := object.SplitHeader(framed.Bytes())
	assert.Error(t, err)
}

func TestTypeString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		typ      object.Type
		expected string
	}{
		{object.TypeCommit, "commit"},
		{object.TypeTree, "tree"},
		{object.TypeBlob, "blob"},
		{object.TypeTag, "tag"},
		{object.TypeRefDelta, "ref-delta"},
	}
	for i, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("%d/%s", i, tc.expected), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, tc.typ.String())
		})
	}
}

func TestNewTypeFromString(t *testing.T) {
	t.Parallel()

	_, err := object.NewTypeFromString("doesnt-exist")
	assert.Error(t, err)

	typ, err := object.NewTypeFromString("tree")
	require.NoError(t, err)
	assert.Equal(t, object.TypeTree, typ)
}

func inflateRaw(t *testing.T, data []byte) []byte {
	t.Helper()
	zr, err := zlib.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer zr.Close()
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	return out
}

func TestCompressProducesDeflatedFrame(t *testing.T) {
	t.Parallel()

	o := object.New(object.TypeBlob, []byte("hello\n"))
	data, err := o.Compress()
	require.NoError(t, err)

	raw := inflateRaw(t, data)
	assert.Equal(t, "blob 6\x00hello\n", string(raw))
}
