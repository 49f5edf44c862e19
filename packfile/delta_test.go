package packfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDeltaCopyAndInsert(t *testing.T) {
	t.Parallel()

	base := []byte("The quick brown fox jumps over the lazy dog")
	// source size 43, target size 19
	target := []byte("The quick brown cat")

	delta := []byte{
		byte(len(base)), // source size varint (fits in one byte: 43 < 128)
		byte(len(target)),
		// copy base[0:16] ("The quick brown ")
		0x91, 0x00, 0x10,
		// insert "cat"
		0x03, 'c', 'a', 't',
	}

	got, err := applyDelta(base, delta)
	require.NoError(t, err)
	assert.Equal(t, string(target), string(got))
}

func TestApplyDeltaCopySizeZeroMeans0x10000(t *testing.T) {
	t.Parallel()

	base := make([]byte, 0x10000)
	for i := range base {
		base[i] = byte(i)
	}

	sizeVarint := encodeDeltaSize(uint64(len(base)))
	delta := append(append([]byte{}, sizeVarint...), sizeVarint...)
	// copy opcode: offset absent (0), one size byte present (bit 4), value 0
	delta = append(delta, 0x90, 0x00)

	got, err := applyDelta(base, delta)
	require.NoError(t, err)
	assert.Equal(t, len(base), len(got))
	assert.Equal(t, base, got)
}

func TestApplyDeltaRejectsReservedOpcode(t *testing.T) {
	t.Parallel()

	base := []byte("x")
	delta := append(encodeDeltaSize(1), encodeDeltaSize(1)...)
	delta = append(delta, 0x00)

	_, err := applyDelta(base, delta)
	require.Error(t, err)
}

func TestApplyDeltaRejectsSourceSizeMismatch(t *testing.T) {
	t.Parallel()

	base := []byte("abc")
	delta := append(encodeDeltaSize(99), encodeDeltaSize(1)...)
	delta = append(delta, 0x01, 'x')

	_, err := applyDelta(base, delta)
	require.Error(t, err)
}

// encodeDeltaSize is the test-side inverse of readDeltaSize.
func encodeDeltaSize(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			break
		}
	}
	return out
}
