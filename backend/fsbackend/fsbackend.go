// Package fsbackend implements backend.Backend on top of a filesystem,
// abstracted through afero so the same code can run against the OS
// filesystem or an in-memory one in tests.
package fsbackend

import (
	"github.com/mbranch/gitgo/backend"
	"github.com/mbranch/gitgo/ginternals"
	"github.com/mbranch/gitgo/internal/cache"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// we make sure the struct implements the interface
var _ backend.Backend = (*Backend)(nil)

// defaultCacheSize is the number of inflated objects kept in memory.
const defaultCacheSize = 256

// Backend is a backend.Backend implementation that stores objects and
// references as loose files under a repository's .git directory.
//
// Every method reads or writes the filesystem directly: the store is
// meant to be driven from a single goroutine, so there's no in-memory
// index to keep in sync and no locking around the afero.Fs calls.
type Backend struct {
	fs   afero.Fs
	root string // path to the .git directory

	// cache holds recently inflated objects, keyed by their Oid.
	cache *cache.LRU
}

// New returns a Backend rooted at dotGitPath (a repository's .git
// directory). It does not touch the filesystem; call Init to create a
// new repository.
func New(fs afero.Fs, dotGitPath string) *Backend {
	return &Backend{
		fs:    fs,
		root:  dotGitPath,
		cache: cache.NewLRU(defaultCacheSize),
	}
}

// Path returns the path to the repository's .git directory.
func (b *Backend) Path() string {
	return b.root
}

// Close frees any resource held by the backend.
func (b *Backend) Close() error {
	return nil
}

// Init creates the repository skeleton: the objects and refs
// directories, and a HEAD pointing at refs/heads/main.
// Returns ginternals.ErrRepositoryExists if the directory already exists.
func (b *Backend) Init() error {
	if _, err := b.fs.Stat(b.root); err == nil {
		return xerrors.Errorf("%s: %w", b.root, ginternals.ErrRepositoryExists)
	}

	dirs := []string{
		ginternals.ObjectsPath(b.root),
		ginternals.LocalBranchesPath(b.root),
	}
	for _, d := range dirs {
		if err := b.fs.MkdirAll(d, 0o755); err != nil {
			return xerrors.Errorf("could not create directory %s: %w", d, err)
		}
	}

	head := ginternals.NewSymbolicReference(ginternals.Head, ginternals.LocalBranchFullName("main"))
	if err := b.WriteReference(head); err != nil {
		return xerrors.Errorf("could not write HEAD: %w", err)
	}
	return nil
}
