package ginternals

import "errors"

// Sentinel errors shared across the object store and reference layers.
// These back the taxonomy the command dispatcher reports: callers match
// against them with errors.Is rather than inspecting an error code.
var (
	// ErrObjectNotFound is returned when an OID doesn't exist in the store.
	ErrObjectNotFound = errors.New("object not found")
	// ErrObjectInvalid is returned when an object fails to decode.
	ErrObjectInvalid = errors.New("invalid object")
	// ErrTreeInvalid is returned when a tree object's payload is malformed.
	ErrTreeInvalid = errors.New("invalid tree")
	// ErrCommitInvalid is returned when a commit object's payload is malformed.
	ErrCommitInvalid = errors.New("invalid commit")
	// ErrRefNotFound is returned when a reference doesn't exist.
	ErrRefNotFound = errors.New("reference not found")
	// ErrRefInvalid is returned when a reference's content can't be parsed.
	ErrRefInvalid = errors.New("reference is not valid")
	// ErrRepositoryExists is returned by init when .git already exists.
	ErrRepositoryExists = errors.New("repository already exists")
	// ErrUnsupported is returned for recognized-but-unimplemented wire
	// features, notably ofs_delta.
	ErrUnsupported = errors.New("unsupported")
)
