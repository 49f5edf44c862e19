package fsbackend

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/mbranch/gitgo/ginternals"
	"github.com/mbranch/gitgo/ginternals/object"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Object returns the object stored under oid.
func (b *Backend) Object(oid ginternals.Oid) (*object.Object, error) {
	if cached, found := b.cache.Get(oid); found {
		if o, valid := cached.(*object.Object); valid {
			return o, nil
		}
	}

	p := ginternals.LooseObjectPath(b.root, oid.String())
	compressed, err := afero.ReadFile(b.fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, xerrors.Errorf("%s: %w", oid.String(), ginternals.ErrObjectNotFound)
		}
		return nil, xerrors.Errorf("could not read object %s at %s: %w", oid.String(), p, err)
	}

	typ, payload, err := object.Inflate(compressed)
	if err != nil {
		return nil, xerrors.Errorf("could not decode object %s: %w", oid.String(), err)
	}

	o := object.New(typ, payload)
	b.cache.Add(oid, o)
	return o, nil
}

// HasObject returns whether oid exists in the store.
func (b *Backend) HasObject(oid ginternals.Oid) (bool, error) {
	p := ginternals.LooseObjectPath(b.root, oid.String())
	_, err := b.fs.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, xerrors.Errorf("could not check object %s: %w", oid.String(), err)
}

// WriteObject stores an object and returns its OID. Writing an OID that
// already exists is a no-op: objects are immutable, so there's nothing to
// reconcile.
func (b *Backend) WriteObject(o *object.Object) (ginternals.Oid, error) {
	oid := o.ID()

	exists, err := b.HasObject(oid)
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not check if object %s already exists: %w", oid.String(), err)
	}
	if exists {
		return oid, nil
	}

	data, err := o.Compress()
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not compress object %s: %w", oid.String(), err)
	}

	p := ginternals.LooseObjectPath(b.root, oid.String())
	dir := filepath.Dir(p)
	if err := b.fs.MkdirAll(dir, 0o755); err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not create directory %s: %w", dir, err)
	}

	// Objects are written to a temp file first and renamed into place so a
	// crash mid-write can never leave a loose object half-written at its
	// final path.
	tmp, err := afero.TempFile(b.fs, dir, "obj-")
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck // the write error above already describes the failure
		return ginternals.NullOid, xerrors.Errorf("could not write object %s: %w", oid.String(), err)
	}
	if err = tmp.Close(); err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not close temp file %s: %w", tmpName, err)
	}
	// Objects are read-only once written.
	if err = b.fs.Chmod(tmpName, 0o444); err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not set permissions on %s: %w", tmpName, err)
	}
	if err = b.fs.Rename(tmpName, p); err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not persist object %s at %s: %w", oid.String(), p, err)
	}

	b.cache.Add(oid, o)
	return oid, nil
}
