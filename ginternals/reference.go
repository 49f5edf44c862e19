package ginternals

import (
	"bytes"

	"golang.org/x/xerrors"
)

// Head is the name of the reference to the current branch, or directly
// to a commit if detached.
const Head = "HEAD"

// ReferenceType represents the kind of value a Reference points at.
type ReferenceType int8

const (
	// OidReference represents a reference that targets an Oid directly.
	OidReference ReferenceType = 1
	// SymbolicReference represents a reference that targets another
	// reference by name.
	SymbolicReference ReferenceType = 2
)

// Reference represents a git reference.
// https://git-scm.com/book/en/v2/Git-Internals-Git-References
type Reference struct {
	name   string
	target string
	id     Oid
	typ    ReferenceType
}

// RefContent returns the raw file content of the named reference. The
// resolver is handed this function rather than a backend directly so it
// doesn't need to import the store.
type RefContent func(name string) ([]byte, error)

// ResolveReference follows "ref: " indirections until it reaches an Oid.
func ResolveReference(name string, finder RefContent) (*Reference, error) {
	return resolveRefs(name, finder, map[string]struct{}{})
}

func resolveRefs(name string, finder RefContent, visited map[string]struct{}) (*Reference, error) {
	// Protect against a cycle: refs/heads/a -> refs/heads/b -> refs/heads/a
	if _, ok := visited[name]; ok {
		return nil, xerrors.Errorf("circular symbolic reference at %s: %w", name, ErrRefInvalid)
	}
	visited[name] = struct{}{}

	data, err := finder(name)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimRight(data, "\n")

	if len(data) >= 5 && string(data[0:5]) == "ref: " {
		symbolicTarget := string(data[5:])
		ref, err := resolveRefs(symbolicTarget, finder, visited)
		if err != nil {
			return nil, err
		}
		return &Reference{
			typ:    SymbolicReference,
			name:   name,
			id:     ref.id,
			target: symbolicTarget,
		}, nil
	}

	oid, err := NewOidFromHex(string(data))
	if err != nil {
		return nil, xerrors.Errorf("ref %s does not contain a valid oid: %w", name, ErrRefInvalid)
	}
	return &Reference{
		typ:  OidReference,
		name: name,
		id:   oid,
	}, nil
}

// NewReference returns a Reference that targets an Oid directly.
func NewReference(name string, target Oid) *Reference {
	return &Reference{
		typ:  OidReference,
		name: name,
		id:   target,
	}
}

// NewSymbolicReference returns a Reference that targets another reference
// by name, e.g. HEAD targeting refs/heads/main.
func NewSymbolicReference(name, target string) *Reference {
	return &Reference{
		typ:    SymbolicReference,
		name:   name,
		target: target,
	}
}

// Name returns the full name of the reference, e.g. "refs/heads/main".
func (ref *Reference) Name() string {
	return ref.name
}

// Target returns the Oid targeted by the reference (resolved, if symbolic).
func (ref *Reference) Target() Oid {
	return ref.id
}

// Type returns the type of the reference.
func (ref *Reference) Type() ReferenceType {
	return ref.typ
}

// SymbolicTarget returns the name this reference points at, when symbolic.
func (ref *Reference) SymbolicTarget() string {
	return ref.target
}
