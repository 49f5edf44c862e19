// Package object implements the framed on-disk/on-wire representation of
// git objects: blobs, trees, commits, and tags.
package object

import (
	"bytes"
	"compress/zlib"
	"strconv"
	"sync"

	"github.com/mbranch/gitgo/ginternals"
	"github.com/mbranch/gitgo/internal/errutil"
	"github.com/mbranch/gitgo/internal/readutil"
	"golang.org/x/xerrors"
)

// Type represents the type of an object, either as framed on disk or as
// found in a packfile entry header. The two delta pseudo-types only ever
// appear inside a packfile; they can't be framed or stored.
type Type int8

// List of all the possible object types.
const (
	TypeCommit Type = 1
	TypeTree   Type = 2
	TypeBlob   Type = 3
	TypeTag    Type = 4
	// 5 is reserved.
	TypeOfsDelta Type = 6
	TypeRefDelta Type = 7
)

func (t Type) String() string {
	switch t {
	case TypeCommit:
		return "commit"
	case TypeTree:
		return "tree"
	case TypeBlob:
		return "blob"
	case TypeTag:
		return "tag"
	case TypeOfsDelta:
		return "ofs-delta"
	case TypeRefDelta:
		return "ref-delta"
	default:
		return "unknown"
	}
}

// NewTypeFromString returns the Type matching one of the four framed
// type names ("commit", "tree", "blob", "tag").
func NewTypeFromString(t string) (Type, error) {
	switch t {
	case "commit":
		return TypeCommit, nil
	case "tree":
		return TypeTree, nil
	case "blob":
		return TypeBlob, nil
	case "tag":
		return TypeTag, nil
	default:
		return 0, xerrors.Errorf("%s: %w", t, ginternals.ErrObjectInvalid)
	}
}

// Object represents a git object. An object can be of multiple types but
// they all share the same framing, hashing, and compression.
// https://git-scm.com/book/en/v2/Git-Internals-Git-Objects
type Object struct {
	id      ginternals.Oid
	typ     Type
	content []byte

	idOnce sync.Once
}

// New creates a new object of the given type over content. The OID isn't
// computed until it's first needed.
func New(typ Type, content []byte) *Object {
	return &Object{
		typ:     typ,
		content: content,
	}
}

// ID returns the OID of the object: the SHA-1 of its framed form.
func (o *Object) ID() ginternals.Oid {
	o.idOnce.Do(func() {
		o.id, _ = o.frame()
	})
	return o.id
}

// Size returns the size of the object's payload, not counting the frame.
func (o *Object) Size() int {
	return len(o.content)
}

// Type returns the object's type.
func (o *Object) Type() Type {
	return o.typ
}

// Bytes returns the object's payload (without the frame).
func (o *Object) Bytes() []byte {
	return o.content
}

// frame builds the canonical hashed form: "<type> SP <len> NUL <payload>".
func (o *Object) frame() (oid ginternals.Oid, framed []byte) {
	// bytes.Buffer's Write* methods never fail.
	w := new(bytes.Buffer)
	w.WriteString(o.Type().String())
	w.WriteByte(' ')
	w.WriteString(strconv.Itoa(o.Size()))
	w.WriteByte(0)
	w.Write(o.content)

	framed = w.Bytes()
	return ginternals.NewOidFromContent(framed), framed
}

// Compress returns the object's framed form, zlib deflated.
func (o *Object) Compress() (data []byte, err error) {
	_, framed := o.frame()

	compressed := new(bytes.Buffer)
	zw := zlib.NewWriter(compressed)
	if _, err = zw.Write(framed); err != nil {
		zw.Close() //nolint:errcheck // the write error above already describes the failure
		return nil, xerrors.Errorf("could not deflate object: %w", err)
	}
	// Close flushes the rest of the stream, so it must run before the
	// buffer is read.
	if err = zw.Close(); err != nil {
		return nil, xerrors.Errorf("could not deflate object: %w", err)
	}
	return compressed.Bytes(), nil
}

// Inflate decompresses a stored object and splits its frame, returning the
// type and payload. It is the inverse of Compress + frame.
func Inflate(compressed []byte) (typ Type, payload []byte, err error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return 0, nil, xerrors.Errorf("could not inflate object: %w", err)
	}
	defer errutil.Close(zr, &err)

	buf := new(bytes.Buffer)
	if _, err = buf.ReadFrom(zr); err != nil {
		return 0, nil, xerrors.Errorf("could not read inflated object: %w", err)
	}
	return SplitHeader(buf.Bytes())
}

// SplitHeader splits a framed byte string into its type, declared length,
// and payload, and validates that the declared length matches the payload.
func SplitHeader(framed []byte) (typ Type, payload []byte, err error) {
	rawType := readutil.ReadTo(framed, ' ')
	if rawType == nil {
		return 0, nil, xerrors.Errorf("missing object type: %w", ginternals.ErrObjectInvalid)
	}
	typ, err = NewTypeFromString(string(rawType))
	if err != nil {
		return 0, nil, xerrors.Errorf("unsupported object type %q: %w", rawType, ginternals.ErrObjectInvalid)
	}

	offset := len(rawType) + 1
	rawLen := readutil.ReadTo(framed[offset:], 0)
	if rawLen == nil {
		return 0, nil, xerrors.Errorf("missing object length: %w", ginternals.ErrObjectInvalid)
	}
	declaredLen, err := strconv.Atoi(string(rawLen))
	if err != nil {
		return 0, nil, xerrors.Errorf("invalid object length %q: %w", rawLen, ginternals.ErrObjectInvalid)
	}

	offset += len(rawLen) + 1
	payload = framed[offset:]
	if len(payload) != declaredLen {
		return 0, nil, xerrors.Errorf("declared length %d does not match payload length %d: %w",
			declaredLen, len(payload), ginternals.ErrObjectInvalid)
	}
	return typ, payload, nil
}

// AsBlob returns the object as a Blob.
func (o *Object) AsBlob() *Blob {
	return NewBlob(o)
}

// AsTree parses the object's payload as a tree.
//
// A tree entry has the format:
//
//	{octal_mode} {path_name}\0{20-byte-oid}
func (o *Object) AsTree() (*Tree, error) {
	if o.typ != TypeTree {
		return nil, xerrors.Errorf("type %s is not a tree: %w", o.typ, ginternals.ErrTreeInvalid)
	}
	return newTreeFromPayload(o.ID(), o.Bytes())
}

// AsCommit parses the object's payload as a commit.
//
// A commit has the format:
//
//	tree {oid}
//	parent {oid}
//	author {name} <{email}> {seconds} {tz}
//	committer {name} <{email}> {seconds} {tz}
//	{blank line}
//	{message}
//
// A commit can have zero, one, or many parent lines: the first commit of
// a repo has none, a regular commit has one, a merge commit has several.
func (o *Object) AsCommit() (*Commit, error) {
	if o.typ != TypeCommit {
		return nil, xerrors.Errorf("type %s is not a commit: %w", o.typ, ginternals.ErrCommitInvalid)
	}
	return newCommitFromPayload(o.ID(), o.Bytes())
}

// AsTag parses the object's payload as a tag.
//
// A tag has the format:
//
//	object {oid}
//	type {target_object_type}
//	tag {tag_name}
//	tagger {name} <{email}> {seconds} {tz}
//	{blank line}
//	{message}
func (o *Object) AsTag() (*Tag, error) {
	if o.typ != TypeTag {
		return nil, xerrors.Errorf("type %s is not a tag: %w", o.typ, ginternals.ErrObjectInvalid)
	}
	return newTagFromPayload(o.ID(), o.Bytes())
}
