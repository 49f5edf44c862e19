// Package gitgo implements a small, pure-Go subset of git: the object
// store, a working-tree-to-tree materializer, a commit/ref writer, and a
// smart-HTTP v2 clone client.
package gitgo

import (
	"errors"
	"net/http"

	"github.com/mbranch/gitgo/backend"
	"github.com/mbranch/gitgo/backend/fsbackend"
	"github.com/mbranch/gitgo/clone"
	"github.com/mbranch/gitgo/ginternals"
	"github.com/mbranch/gitgo/ginternals/object"
	"github.com/mbranch/gitgo/treebuilder"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ErrRepositoryNotExist is returned by Open when no repository is found
// at the given path.
var ErrRepositoryNotExist = errors.New("repository does not exist")

// Repository represents a git repository: an object/reference store
// (the .git directory) plus the working tree it tracks.
type Repository struct {
	Backend     backend.Backend
	WorkingTree afero.Fs
	root        string
}

// Init creates a new repository at root, the way "git init" does:
// .git, .git/objects, .git/refs/heads, and a HEAD pointing at
// refs/heads/main. Returns ginternals.ErrRepositoryExists if root
// already has a .git directory.
func Init(root string) (*Repository, error) {
	dotGit := ginternals.DotGitPath(root)
	b := fsbackend.New(afero.NewOsFs(), dotGit)
	if err := b.Init(); err != nil {
		return nil, err
	}
	return &Repository{
		Backend:     b,
		WorkingTree: afero.NewOsFs(),
		root:        root,
	}, nil
}

// Open loads an existing repository rooted at root.
func Open(root string) (*Repository, error) {
	dotGit := ginternals.DotGitPath(root)
	fs := afero.NewOsFs()
	b := fsbackend.New(fs, dotGit)
	exists, err := afero.Exists(fs, ginternals.HeadPath(dotGit))
	if err != nil {
		return nil, xerrors.Errorf("could not check %s: %w", dotGit, err)
	}
	if !exists {
		return nil, ErrRepositoryNotExist
	}
	return &Repository{
		Backend:     b,
		WorkingTree: afero.NewOsFs(),
		root:        root,
	}, nil
}

// WriteTree snapshots the working tree into a tree object, the way
// "git write-tree" does, and returns its OID.
func (r *Repository) WriteTree() (ginternals.Oid, error) {
	return treebuilder.WriteTree(r.WorkingTree, r.root, r.Backend)
}

// CommitTree builds and persists a commit object over treeID, the way
// "git commit-tree" does. It does not touch any reference; callers that
// want HEAD to advance should use Commit instead.
func (r *Repository) CommitTree(treeID ginternals.Oid, author object.Signature, opts *object.CommitOptions) (ginternals.Oid, error) {
	c := object.NewCommit(treeID, author, opts)
	return r.Backend.WriteObject(c.ToObject())
}

// Commit snapshots the working tree, commits it with message, and moves
// the branch HEAD points at forward to the new commit — the convenience
// path "git commit" takes, as opposed to the plumbing "commit-tree".
// If HEAD cannot be resolved yet (a brand new repository), the commit is
// created with no parent.
func (r *Repository) Commit(author object.Signature, message string) (ginternals.Oid, error) {
	treeID, err := r.WriteTree()
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not write tree: %w", err)
	}

	var parents []ginternals.Oid
	head, err := r.Backend.Reference(ginternals.Head)
	switch {
	case err == nil:
		parents = []ginternals.Oid{head.Target()}
	case errors.Is(err, ginternals.ErrRefNotFound):
		// first commit of the repository: no parent
	default:
		return ginternals.NullOid, xerrors.Errorf("could not resolve HEAD: %w", err)
	}

	commitID, err := r.CommitTree(treeID, author, &object.CommitOptions{
		Message:   message,
		ParentIDs: parents,
	})
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not write commit: %w", err)
	}

	branch, err := r.currentBranchName()
	if err != nil {
		return ginternals.NullOid, err
	}
	ref := ginternals.NewReference(branch, commitID)
	if err := r.Backend.WriteReference(ref); err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not update %s: %w", branch, err)
	}
	return commitID, nil
}

// Clone creates a repository at root and populates it from remoteURL,
// the way "git clone" does: it discovers the remote's refs, fetches a
// pack covering them, and reconstructs every object (resolving deltas
// against already-written bases) into the new repository's store.
func Clone(remoteURL, root string) (*Repository, error) {
	r, err := Init(root)
	if err != nil {
		return nil, xerrors.Errorf("could not init %s: %w", root, err)
	}
	if err := clone.Clone(http.DefaultClient, remoteURL, r.Backend); err != nil {
		return nil, xerrors.Errorf("could not clone %s: %w", remoteURL, err)
	}
	return r, nil
}

// currentBranchName returns the ref name HEAD points at. HEAD is read
// through Backend.Reference, which resolves it all the way to an Oid, so
// the name is only returned when that branch already has a commit; a
// symbolic HEAD whose branch has no commit yet is not read here.
func (r *Repository) currentBranchName() (string, error) {
	raw, err := r.Backend.Reference(ginternals.Head)
	if err != nil && !errors.Is(err, ginternals.ErrRefNotFound) {
		return "", xerrors.Errorf("could not read HEAD: %w", err)
	}
	if err == nil && raw.Type() == ginternals.SymbolicReference {
		return raw.SymbolicTarget(), nil
	}
	// HEAD is missing, detached, or points at a branch with no commit yet:
	// fall back to the default branch name used at init time.
	return ginternals.LocalBranchFullName("main"), nil
}
