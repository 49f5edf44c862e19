package object

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/mbranch/gitgo/ginternals"
	"github.com/mbranch/gitgo/internal/readutil"
	"golang.org/x/xerrors"
)

// TreeObjectMode represents the mode of an entry inside a tree.
// Non-standard modes are not supported.
type TreeObjectMode int32

const (
	// ModeFile is the mode used for a regular file.
	ModeFile TreeObjectMode = 0o100644
	// ModeExecutable is the mode used for an executable file.
	ModeExecutable TreeObjectMode = 0o100755
	// ModeDirectory is the mode used for a subdirectory (a tree entry).
	ModeDirectory TreeObjectMode = 0o040000
	// ModeSymLink is the mode used for a symbolic link.
	ModeSymLink TreeObjectMode = 0o120000
	// ModeGitLink is the mode used for a submodule reference.
	ModeGitLink TreeObjectMode = 0o160000
)

// IsValid returns whether the mode is one of the recognized modes.
func (m TreeObjectMode) IsValid() bool {
	switch m {
	case ModeFile, ModeExecutable, ModeDirectory, ModeSymLink, ModeGitLink:
		return true
	default:
		return false
	}
}

// ObjectType returns the object type an entry of this mode points at.
func (m TreeObjectMode) ObjectType() Type {
	switch m {
	case ModeDirectory:
		return TypeTree
	case ModeGitLink:
		return TypeCommit
	default:
		return TypeBlob
	}
}

// Tree represents a git tree object: an ordered, by-name-sorted sequence
// of entries.
type Tree struct {
	id      ginternals.Oid
	entries []TreeEntry
}

// TreeEntry represents a single entry inside a tree.
type TreeEntry struct {
	Name string
	ID   ginternals.Oid
	Mode TreeObjectMode
}

// NewTree builds a Tree from entries that are already sorted by Name.
// Callers that can't guarantee ordering should use SortEntries first.
func NewTree(entries []TreeEntry) *Tree {
	return &Tree{entries: entries}
}

// SortEntries sorts tree entries by name, in byte order, as §4.C requires.
func SortEntries(entries []TreeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
}

func newTreeFromPayload(id ginternals.Oid, payload []byte) (*Tree, error) {
	entries := []TreeEntry{}

	offset := 0
	for i := 1; offset < len(payload); i++ {
		entry := TreeEntry{}

		rawMode := readutil.ReadTo(payload[offset:], ' ')
		if len(rawMode) == 0 {
			return nil, xerrors.Errorf("could not read mode of entry %d: %w", i, ginternals.ErrTreeInvalid)
		}
		offset += len(rawMode) + 1
		mode, err := strconv.ParseInt(string(rawMode), 8, 32)
		if err != nil {
			return nil, xerrors.Errorf("could not parse mode of entry %d: %w", i, ginternals.ErrTreeInvalid)
		}
		entry.Mode = TreeObjectMode(mode)

		rawName := readutil.ReadTo(payload[offset:], 0)
		if len(rawName) == 0 {
			return nil, xerrors.Errorf("could not read name of entry %d: %w", i, ginternals.ErrTreeInvalid)
		}
		offset += len(rawName) + 1
		entry.Name = string(rawName)

		if offset+ginternals.OidSize > len(payload) {
			return nil, xerrors.Errorf("truncated oid for entry %d: %w", i, ginternals.ErrTreeInvalid)
		}
		entry.ID, err = ginternals.NewOidFromBytes(payload[offset : offset+ginternals.OidSize])
		if err != nil {
			return nil, xerrors.Errorf("invalid oid for entry %d: %w", i, ginternals.ErrTreeInvalid)
		}
		offset += ginternals.OidSize

		entries = append(entries, entry)
	}

	return &Tree{id: id, entries: entries}, nil
}

// Entries returns a copy of the tree's entries.
func (t *Tree) Entries() []TreeEntry {
	out := make([]TreeEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// ID returns the tree's OID.
func (t *Tree) ID() ginternals.Oid {
	return t.id
}

// ToObject returns an Object representing the tree's framed payload.
func (t *Tree) ToObject() *Object {
	buf := new(bytes.Buffer)
	for _, e := range t.entries {
		// strconv.FormatInt never emits a leading zero: 0o040000 becomes
		// "40000", matching the canonical wire form.
		buf.WriteString(strconv.FormatInt(int64(e.Mode), 8))
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.ID.Bytes())
	}

	o := New(TypeTree, buf.Bytes())
	t.id = o.ID()
	return o
}
