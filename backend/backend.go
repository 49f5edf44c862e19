// Package backend contains the interface and the filesystem implementation
// used to store and retrieve objects and references from the on-disk
// object database.
package backend

import (
	"github.com/mbranch/gitgo/ginternals"
	"github.com/mbranch/gitgo/ginternals/object"
)

// Backend represents something that can store and retrieve objects and
// references.
type Backend interface {
	// Close frees any resource held by the backend.
	Close() error

	// Init creates the repository skeleton. Returns
	// ginternals.ErrRepositoryExists if one is already present.
	Init() error

	// Reference returns a reference by name, following "ref:" indirections
	// until an Oid is reached. Returns ginternals.ErrRefNotFound if it, or
	// a reference it points at, doesn't exist.
	Reference(name string) (*ginternals.Reference, error)
	// WriteReference persists a reference, creating or overwriting it.
	WriteReference(ref *ginternals.Reference) error

	// Object returns the object stored under oid.
	Object(oid ginternals.Oid) (*object.Object, error)
	// HasObject returns whether oid exists in the store.
	HasObject(oid ginternals.Oid) (bool, error)
	// WriteObject stores an object and returns its OID. Writing an OID
	// that already exists is a no-op that returns the same OID.
	WriteObject(o *object.Object) (ginternals.Oid, error)
}
