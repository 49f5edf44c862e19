// Package packfile decodes a git pack stream: the header, the
// variable-length object headers, and the per-object zlib payloads,
// resolving ref_delta objects against a backing store as it goes.
//
// Decoding is sequential and streaming: unlike an indexed .pack/.idx
// pair opened for random access, this decoder never seeks. It trusts
// that every ref_delta's base has already been written to the store,
// either by an earlier object in the same pack or by a prior call to
// Decode, and fails otherwise (https://git-scm.com/docs/pack-format
// documents ref_delta chains but says nothing about ordering; the
// servers this client talks to always emit bases first).
package packfile

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"

	"github.com/mbranch/gitgo/ginternals"
	"github.com/mbranch/gitgo/ginternals/object"
	"github.com/mbranch/gitgo/internal/errutil"
	"golang.org/x/xerrors"
)

// headerSize is the size of a pack's fixed header: 4 bytes of magic, 4
// bytes of version, 4 bytes of object count.
const headerSize = 12

var magic = [4]byte{'P', 'A', 'C', 'K'}

// Store is the subset of backend.Backend the decoder needs: it reads
// ref_delta bases back out and writes every resolved object in.
type Store interface {
	Object(oid ginternals.Oid) (*object.Object, error)
	WriteObject(o *object.Object) (ginternals.Oid, error)
}

// Decode reads a full pack stream from r and writes every object it
// contains (delta-resolved or not) to store, returning the OIDs written
// in the order they appeared in the pack.
func Decode(r io.Reader, store Store) ([]ginternals.Oid, error) {
	br := bufio.NewReader(r)

	var header [headerSize]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return nil, xerrors.Errorf("could not read pack header: %w", err)
	}
	if !bytes.Equal(header[0:4], magic[:]) {
		return nil, xerrors.Errorf("bad pack signature %q: %w", header[0:4], ginternals.ErrObjectInvalid)
	}
	version := binary.BigEndian.Uint32(header[4:8])
	if version != 2 && version != 3 {
		return nil, xerrors.Errorf("unsupported pack version %d: %w", version, ginternals.ErrUnsupported)
	}
	count := binary.BigEndian.Uint32(header[8:12])

	oids := make([]ginternals.Oid, 0, count)
	for i := uint32(0); i < count; i++ {
		oid, err := decodeObject(br, store)
		if err != nil {
			return nil, xerrors.Errorf("object %d/%d: %w", i+1, count, err)
		}
		oids = append(oids, oid)
	}
	return oids, nil
}

// decodeObject reads one pack entry off br: its variable-length
// type/size header, the base OID when it's a ref_delta, and its
// zlib-deflated body. It writes the resolved object to store and
// returns its final OID.
func decodeObject(br *bufio.Reader, store Store) (ginternals.Oid, error) {
	typ, size, err := readEntryHeader(br)
	if err != nil {
		return ginternals.NullOid, err
	}

	switch typ {
	case object.TypeCommit, object.TypeTree, object.TypeBlob, object.TypeTag:
		payload, err := inflate(br, size)
		if err != nil {
			return ginternals.NullOid, xerrors.Errorf("could not inflate %s: %w", typ, err)
		}
		return store.WriteObject(object.New(typ, payload))

	case object.TypeRefDelta:
		var rawBase [ginternals.OidSize]byte
		if _, err := io.ReadFull(br, rawBase[:]); err != nil {
			return ginternals.NullOid, xerrors.Errorf("could not read ref_delta base: %w", err)
		}
		baseOid, err := ginternals.NewOidFromBytes(rawBase[:])
		if err != nil {
			return ginternals.NullOid, xerrors.Errorf("invalid ref_delta base oid: %w", err)
		}

		delta, err := inflate(br, size)
		if err != nil {
			return ginternals.NullOid, xerrors.Errorf("could not inflate ref_delta: %w", err)
		}

		base, err := store.Object(baseOid)
		if err != nil {
			return ginternals.NullOid, xerrors.Errorf("ref_delta base %s: %w", baseOid, err)
		}

		target, err := applyDelta(base.Bytes(), delta)
		if err != nil {
			return ginternals.NullOid, xerrors.Errorf("could not apply delta against %s: %w", baseOid, err)
		}
		return store.WriteObject(object.New(base.Type(), target))

	case object.TypeOfsDelta:
		return ginternals.NullOid, xerrors.Errorf("ofs_delta: %w", ginternals.ErrUnsupported)

	default:
		return ginternals.NullOid, xerrors.Errorf("object type %d: %w", typ, ginternals.ErrUnsupported)
	}
}

// readEntryHeader decodes the variable-length type/size header that
// precedes every pack entry:
//
//	byte 0:   MSB continuation | 3 type bits (6:4) | low 4 size bits (3:0)
//	byte 1+:  MSB continuation | 7 more size bits, while the MSB is set
//
// Size bits accumulate little-endian: the first continuation byte
// contributes bits 4-10, the next bits 11-17, and so on.
func readEntryHeader(br *bufio.Reader) (object.Type, uint64, error) {
	b, err := br.ReadByte()
	if err != nil {
		return 0, 0, xerrors.Errorf("could not read object header: %w", err)
	}

	typ := object.Type((b >> 4) & 0x7)
	size := uint64(b & 0xf)
	shift := uint(4)

	for b&0x80 != 0 {
		b, err = br.ReadByte()
		if err != nil {
			return 0, 0, xerrors.Errorf("could not read object header: %w", err)
		}
		size |= uint64(b&0x7f) << shift
		shift += 7
	}

	return typ, size, nil
}

// inflate zlib-decompresses exactly one object payload off br. It reads
// directly off the bufio.Reader (which implements io.ByteReader) so
// compress/zlib never buffers past the end of its own stream, leaving
// br positioned at the first byte of the next pack entry.
func inflate(br *bufio.Reader, declaredSize uint64) (payload []byte, err error) {
	zr, err := zlib.NewReader(br)
	if err != nil {
		return nil, xerrors.Errorf("could not open zlib stream: %w", err)
	}
	defer errutil.Close(zr, &err)

	buf := new(bytes.Buffer)
	buf.Grow(int(declaredSize))
	if _, err = io.Copy(buf, zr); err != nil {
		return nil, xerrors.Errorf("could not inflate: %w", err)
	}
	if uint64(buf.Len()) != declaredSize {
		return nil, xerrors.Errorf("declared size %d does not match inflated size %d: %w",
			declaredSize, buf.Len(), ginternals.ErrObjectInvalid)
	}
	return buf.Bytes(), nil
}
