package object

import "github.com/mbranch/gitgo/ginternals"

// Blob represents a blob object: arbitrary bytes, opaque to the store.
type Blob struct {
	rawObject *Object
}

// NewBlob returns a new Blob wrapping a git Object.
func NewBlob(o *Object) *Blob {
	return &Blob{
		rawObject: o,
	}
}

// NewBlobFromContent creates a new Blob from raw file content.
func NewBlobFromContent(content []byte) *Blob {
	return NewBlob(New(TypeBlob, content))
}

// ID returns the blob's OID.
func (b *Blob) ID() ginternals.Oid {
	return b.rawObject.ID()
}

// Bytes returns the blob's contents.
func (b *Blob) Bytes() []byte {
	return b.rawObject.content
}

// Size returns the size of the blob.
func (b *Blob) Size() int {
	return len(b.rawObject.content)
}

// ToObject returns the Blob's underlying Object.
func (b *Blob) ToObject() *Object {
	return b.rawObject
}
