package object

import (
	"bytes"
	"fmt"

	"github.com/mbranch/gitgo/ginternals"
	"github.com/mbranch/gitgo/internal/readutil"
)

// ErrTagInvalid is returned when a tag object's payload is malformed.
var ErrTagInvalid = fmt.Errorf("invalid tag")

// Tag represents an annotated tag object. gitgo can read tags (the store
// and codec round-trip them) but never creates one; the CLI in §6 has no
// tag-writing verb.
type Tag struct {
	rawObject *Object

	tagger  Signature
	name    string
	message string

	id     ginternals.Oid
	target ginternals.Oid
	typ    Type
}

func newTagFromPayload(id ginternals.Oid, payload []byte) (*Tag, error) {
	tag := &Tag{id: id}
	offset := 0
	var err error
	for {
		line := readutil.ReadTo(payload[offset:], '\n')
		offset += len(line) + 1

		if len(line) == 0 && offset == 1 {
			return nil, fmt.Errorf("could not find tag first line: %w", ErrTagInvalid)
		}
		if len(line) == 0 {
			if offset < len(payload) {
				tag.message = string(payload[offset:])
			}
			break
		}

		kv := bytes.SplitN(line, []byte{' '}, 2)
		switch string(kv[0]) {
		case "object":
			tag.target, err = ginternals.NewOidFromHex(string(kv[1]))
			if err != nil {
				return nil, fmt.Errorf("could not parse target id %q: %w", kv[1], ErrTagInvalid)
			}
		case "type":
			tag.typ, err = NewTypeFromString(string(kv[1]))
			if err != nil {
				return nil, fmt.Errorf("invalid object type %s: %w", kv[1], ErrTagInvalid)
			}
		case "tagger":
			tag.tagger, err = NewSignatureFromBytes(kv[1])
			if err != nil {
				return nil, fmt.Errorf("could not parse tagger %q: %w", kv[1], err)
			}
		case "tag":
			tag.name = string(kv[1])
		}
	}

	if tag.tagger.IsZero() {
		return nil, fmt.Errorf("tag has no tagger: %w", ErrTagInvalid)
	}
	if tag.target.IsZero() {
		return nil, fmt.Errorf("tag has no target: %w", ErrTagInvalid)
	}

	tag.rawObject = New(TypeTag, payload)
	return tag, nil
}

// ID returns the tag's OID.
func (t *Tag) ID() ginternals.Oid {
	return t.id
}

// Target returns the OID of the object the tag points at.
func (t *Tag) Target() ginternals.Oid {
	return t.target
}

// Type returns the type of the targeted object.
func (t *Tag) Type() Type {
	return t.typ
}

// Name returns the tag's name.
func (t *Tag) Name() string {
	return t.name
}

// Tagger returns the signature of whoever created the tag.
func (t *Tag) Tagger() Signature {
	return t.tagger
}

// Message returns the tag's message.
func (t *Tag) Message() string {
	return t.message
}

// ToObject returns the underlying framed Object.
func (t *Tag) ToObject() *Object {
	return t.rawObject
}
