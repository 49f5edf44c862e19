package packfile

import (
	"github.com/mbranch/gitgo/ginternals"
	"golang.org/x/xerrors"
)

// applyDelta reproduces a target object from base and a ref_delta
// instruction stream: a source size, a target size (both little-endian
// base-128 varints), then a sequence of copy/insert opcodes.
// https://git-scm.com/docs/pack-format#_deltified_representation
func applyDelta(base, delta []byte) ([]byte, error) {
	srcSize, n, err := readDeltaSize(delta)
	if err != nil {
		return nil, xerrors.Errorf("could not read source size: %w", err)
	}
	delta = delta[n:]
	if srcSize != uint64(len(base)) {
		return nil, xerrors.Errorf("delta source size %d does not match base size %d: %w",
			srcSize, len(base), ginternals.ErrObjectInvalid)
	}

	targetSize, n, err := readDeltaSize(delta)
	if err != nil {
		return nil, xerrors.Errorf("could not read target size: %w", err)
	}
	delta = delta[n:]

	out := make([]byte, 0, targetSize)
	for len(delta) > 0 {
		op := delta[0]
		delta = delta[1:]

		switch {
		case op&0x80 != 0: // copy
			offset, size, rest, err := readCopyArgs(op, delta)
			if err != nil {
				return nil, err
			}
			delta = rest
			if size == 0 {
				size = 0x10000
			}
			end := uint64(offset) + uint64(size)
			if end > uint64(len(base)) {
				return nil, xerrors.Errorf("copy [%d:%d] out of range of %d-byte base: %w",
					offset, end, len(base), ginternals.ErrObjectInvalid)
			}
			out = append(out, base[offset:end]...)

		case op != 0: // insert
			count := int(op & 0x7f)
			if count > len(delta) {
				return nil, xerrors.Errorf("insert of %d bytes truncated: %w", count, ginternals.ErrObjectInvalid)
			}
			out = append(out, delta[:count]...)
			delta = delta[count:]

		default:
			return nil, xerrors.Errorf("reserved delta opcode 0: %w", ginternals.ErrObjectInvalid)
		}
	}

	if uint64(len(out)) != targetSize {
		return nil, xerrors.Errorf("delta produced %d bytes, expected %d: %w",
			len(out), targetSize, ginternals.ErrObjectInvalid)
	}
	return out, nil
}

// readDeltaSize reads a little-endian base-128 varint (MSB is the
// continuation bit, low 7 bits are the payload) and returns how many
// bytes it consumed.
func readDeltaSize(b []byte) (size uint64, consumed int, err error) {
	var shift uint
	for i, by := range b {
		size |= uint64(by&0x7f) << shift
		if by&0x80 == 0 {
			return size, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, xerrors.Errorf("truncated varint: %w", ginternals.ErrObjectInvalid)
}

// readCopyArgs decodes a copy opcode's offset and size. op's low 4 bits
// are a presence bitmap for up to 4 offset bytes (low to high); bits
// 4-6 are a presence bitmap for up to 3 size bytes. A bit unset means
// that byte is taken as 0 rather than read from the stream.
func readCopyArgs(op byte, b []byte) (offset, size uint32, rest []byte, err error) {
	need := 0
	for i := uint(0); i < 7; i++ {
		if op&(1<<i) != 0 {
			need++
		}
	}
	if need > len(b) {
		return 0, 0, nil, xerrors.Errorf("copy opcode truncated: %w", ginternals.ErrObjectInvalid)
	}

	pos := 0
	for i := uint(0); i < 4; i++ {
		if op&(1<<i) != 0 {
			offset |= uint32(b[pos]) << (8 * i)
			pos++
		}
	}
	for i := uint(0); i < 3; i++ {
		if op&(1<<(4+i)) != 0 {
			size |= uint32(b[pos]) << (8 * i)
			pos++
		}
	}
	return offset, size, b[pos:], nil
}
