// Package treebuilder turns a working directory into a tree object, the
// way "git write-tree" snapshots the current state of a repository.
package treebuilder

import (
	"path/filepath"

	"github.com/mbranch/gitgo/ginternals"
	"github.com/mbranch/gitgo/ginternals/object"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// dotGitDir is the only entry excluded from a tree snapshot.
const dotGitDir = ".git"

// Store is the subset of backend.Backend the builder needs to persist the
// blobs and trees it creates.
type Store interface {
	WriteObject(o *object.Object) (ginternals.Oid, error)
}

// WriteTree walks root and recursively builds a tree object out of its
// contents, writing a blob for every regular file and a tree for every
// subdirectory. The .git directory at the root is always excluded.
// Symlinks and other non-regular files are skipped rather than erroring,
// the same way the reference implementation's os.path.isdir/isfile check
// silently ignores anything that's neither.
func WriteTree(fs afero.Fs, root string, store Store) (ginternals.Oid, error) {
	tree, err := writeTree(fs, root, store)
	if err != nil {
		return ginternals.NullOid, err
	}
	return tree.ID(), nil
}

func writeTree(fs afero.Fs, dir string, store Store) (*object.Tree, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, xerrors.Errorf("could not list %s: %w", dir, err)
	}

	entries := make([]object.TreeEntry, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		if name == dotGitDir {
			continue
		}
		entryPath := filepath.Join(dir, name)

		switch {
		case info.IsDir():
			subtree, err := writeTree(fs, entryPath, store)
			if err != nil {
				return nil, err
			}
			entries = append(entries, object.TreeEntry{
				Name: name,
				Mode: object.ModeDirectory,
				ID:   subtree.ID(),
			})
		case info.Mode().IsRegular():
			content, err := afero.ReadFile(fs, entryPath)
			if err != nil {
				return nil, xerrors.Errorf("could not read %s: %w", entryPath, err)
			}
			blob := object.NewBlobFromContent(content)
			if _, err := store.WriteObject(blob.ToObject()); err != nil {
				return nil, xerrors.Errorf("could not write blob for %s: %w", entryPath, err)
			}
			entries = append(entries, object.TreeEntry{
				Name: name,
				Mode: object.ModeFile,
				ID:   blob.ID(),
			})
		default:
			// symlinks, devices, sockets, etc. are silently skipped
			continue
		}
	}

	object.SortEntries(entries)

	tree := object.NewTree(entries)
	o := tree.ToObject()
	if _, err := store.WriteObject(o); err != nil {
		return nil, xerrors.Errorf("could not write tree for %s: %w", dir, err)
	}
	return tree, nil
}
