package fsbackend

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/mbranch/gitgo/ginternals"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Reference returns a stored reference from its name, following "ref: "
// indirections until an Oid is reached. Returns ginternals.ErrRefNotFound
// if it, or a reference it points at, doesn't exist.
func (b *Backend) Reference(name string) (*ginternals.Reference, error) {
	finder := func(name string) ([]byte, error) {
		data, err := afero.ReadFile(b.fs, b.systemPath(name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, xerrors.Errorf(`ref "%s": %w`, name, ginternals.ErrRefNotFound)
			}
			return nil, xerrors.Errorf("could not read reference %s: %w", name, err)
		}
		return data, nil
	}
	return ginternals.ResolveReference(name, finder)
}

// systemPath returns the on-disk path of a reference name.
// Ex.: On windows refs/heads/main would return refs\heads\main.
func (b *Backend) systemPath(name string) string {
	return filepath.Join(b.root, filepath.FromSlash(name))
}

// WriteReference persists a reference, creating or overwriting it.
func (b *Backend) WriteReference(ref *ginternals.Reference) error {
	var target string
	switch ref.Type() {
	case ginternals.SymbolicReference:
		target = "ref: " + ref.SymbolicTarget() + "\n"
	case ginternals.OidReference:
		target = ref.Target().String() + "\n"
	default:
		return xerrors.Errorf("reference type %d: %w", ref.Type(), ginternals.ErrRefInvalid)
	}

	p := b.systemPath(ref.Name())
	// Refs can contain "/" (e.g. refs/heads/main), so the parent directory
	// may not exist yet.
	if err := b.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return xerrors.Errorf("could not persist reference %s: %w", ref.Name(), err)
	}
	if err := afero.WriteFile(b.fs, p, []byte(target), 0o644); err != nil {
		return xerrors.Errorf("could not persist reference %s: %w", ref.Name(), err)
	}
	return nil
}
