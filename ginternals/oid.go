// Package ginternals contains the low-level pieces shared by the rest of
// the module: object identifiers, on-disk path layout, and reference
// resolution. Nothing in this package touches the object codec itself
// (see ginternals/object) or does I/O beyond path arithmetic.
package ginternals

import (
	"crypto/sha1" //nolint:gosec // the object format is defined in terms of SHA-1
	"encoding/hex"
	"errors"
)

// OidSize is the length of an Oid, in bytes.
const OidSize = 20

var (
	// NullOid is the zero-value Oid.
	NullOid = Oid{}

	// ErrInvalidOid is returned when a value isn't a valid Oid.
	ErrInvalidOid = errors.New("invalid oid")
)

// Oid is a 20-byte SHA-1 object identifier.
type Oid [OidSize]byte

// Bytes returns the raw bytes of the Oid.
func (o Oid) Bytes() []byte {
	return o[:]
}

// String renders the Oid as 40 lowercase hex characters.
func (o Oid) String() string {
	return hex.EncodeToString(o[:])
}

// IsZero returns whether the Oid is the zero value.
func (o Oid) IsZero() bool {
	return o == NullOid
}

// NewOidFromContent returns the SHA-1 Oid of the given bytes. Used by the
// object codec on the framed form of an object.
func NewOidFromContent(content []byte) Oid {
	return sha1.Sum(content) //nolint:gosec
}

// NewOidFromBytes builds an Oid from a raw 20-byte slice, as found
// embedded in a tree entry or a pack's ref_delta header.
func NewOidFromBytes(b []byte) (Oid, error) {
	if len(b) < OidSize {
		return NullOid, ErrInvalidOid
	}
	var oid Oid
	copy(oid[:], b)
	return oid, nil
}

// NewOidFromHex parses a 40-character hex string into an Oid.
func NewOidFromHex(s string) (Oid, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return NullOid, ErrInvalidOid
	}
	if len(b) != OidSize {
		return NullOid, ErrInvalidOid
	}
	var oid Oid
	copy(oid[:], b)
	return oid, nil
}
