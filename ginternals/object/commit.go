package object

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mbranch/gitgo/ginternals"
	"github.com/mbranch/gitgo/internal/readutil"
)

// ErrSignatureInvalid is returned when a commit's author/committer line
// couldn't be parsed.
var ErrSignatureInvalid = errors.New("commit signature is invalid")

// Signature represents the author or committer of a commit: a name, an
// email, and the time the commit was authored/committed.
type Signature struct {
	Time  time.Time
	Name  string
	Email string
}

// String renders the signature in its on-disk form:
// "Name <email> seconds tz"
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.Time.Unix(), s.Time.Format("-0700"))
}

// IsZero returns whether the signature is the zero value.
func (s Signature) IsZero() bool {
	return s.Time.IsZero() && s.Name == "" && s.Email == ""
}

// NewSignature builds a signature at the current time. Tests that need
// determinism should build a Signature literal instead.
func NewSignature(name, email string) Signature {
	return Signature{
		Name:  name,
		Email: email,
		Time:  time.Now(),
	}
}

// NewSignatureFromBytes parses a signature line.
//
// A signature has the format:
//
//	User Name <user.email@domain.tld> timestamp timezone
func NewSignatureFromBytes(b []byte) (Signature, error) {
	sig := Signature{}

	data := readutil.ReadTo(b, '<')
	if len(data) == 0 {
		return sig, fmt.Errorf("could not find name: %w", ErrSignatureInvalid)
	}
	sig.Name = strings.TrimSpace(string(data))
	offset := len(data) + 1 // skip "<"
	if offset >= len(b) {
		return sig, fmt.Errorf("signature stopped after the name: %w", ErrSignatureInvalid)
	}

	data = readutil.ReadTo(b[offset:], '>')
	if len(data) == 0 {
		return sig, fmt.Errorf("could not find email: %w", ErrSignatureInvalid)
	}
	sig.Email = string(data)
	offset += len(data) + 2 // skip "> "
	if offset >= len(b) {
		return sig, fmt.Errorf("signature stopped after the email: %w", ErrSignatureInvalid)
	}

	timestamp := readutil.ReadTo(b[offset:], ' ')
	if len(timestamp) == 0 {
		return sig, fmt.Errorf("could not find timestamp: %w", ErrSignatureInvalid)
	}
	offset += len(timestamp) + 1
	if offset >= len(b) {
		return sig, fmt.Errorf("signature stopped after the timestamp: %w", ErrSignatureInvalid)
	}

	t, err := strconv.ParseInt(string(timestamp), 10, 64)
	if err != nil {
		return sig, fmt.Errorf("invalid timestamp %s: %w", timestamp, err)
	}
	sig.Time = time.Unix(t, 0)

	timezone := b[offset:]
	tz, err := time.Parse("-0700", string(timezone))
	if err != nil {
		return sig, fmt.Errorf("invalid timezone %s: %w", timezone, err)
	}
	sig.Time = sig.Time.In(tz.Location())
	return sig, nil
}

// CommitOptions carries the optional data used to build a Commit.
type CommitOptions struct {
	Message string
	// Committer defaults to Author if left zero.
	Committer Signature
	ParentIDs []ginternals.Oid
}

// Commit represents a commit object.
type Commit struct {
	rawObject *Object

	author    Signature
	committer Signature
	message   string

	parentIDs []ginternals.Oid
	treeID    ginternals.Oid
}

// NewCommit builds a new Commit. Oids passed in aren't checked against the
// store; the caller is responsible for only referencing extant objects.
func NewCommit(treeID ginternals.Oid, author Signature, opts *CommitOptions) *Commit {
	message := opts.Message
	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}

	c := &Commit{
		treeID:    treeID,
		author:    author,
		committer: opts.Committer,
		message:   message,
		parentIDs: opts.ParentIDs,
	}
	if c.committer.IsZero() {
		c.committer = author
	}
	c.rawObject = c.ToObject()
	return c
}

func newCommitFromPayload(id ginternals.Oid, payload []byte) (*Commit, error) {
	ci := &Commit{}
	offset := 0
	for {
		line := readutil.ReadTo(payload[offset:], '\n')
		offset += len(line) + 1

		if len(line) == 0 && offset == 1 {
			return nil, fmt.Errorf("could not find commit first line: %w", ginternals.ErrCommitInvalid)
		}
		if len(line) == 0 {
			if offset < len(payload) {
				ci.message = string(payload[offset:])
			}
			break
		}

		kv := bytes.SplitN(line, []byte{' '}, 2)
		var err error
		switch string(kv[0]) {
		case "tree":
			ci.treeID, err = ginternals.NewOidFromHex(string(kv[1]))
			if err != nil {
				return nil, fmt.Errorf("could not parse tree id %q: %w", kv[1], ginternals.ErrCommitInvalid)
			}
		case "parent":
			oid, perr := ginternals.NewOidFromHex(string(kv[1]))
			if perr != nil {
				return nil, fmt.Errorf("could not parse parent id %q: %w", kv[1], ginternals.ErrCommitInvalid)
			}
			ci.parentIDs = append(ci.parentIDs, oid)
		case "author":
			ci.author, err = NewSignatureFromBytes(kv[1])
			if err != nil {
				return nil, fmt.Errorf("could not parse author signature %q: %w", kv[1], err)
			}
		case "committer":
			ci.committer, err = NewSignatureFromBytes(kv[1])
			if err != nil {
				return nil, fmt.Errorf("could not parse committer signature %q: %w", kv[1], err)
			}
		}
	}

	if ci.author.IsZero() {
		return nil, fmt.Errorf("commit has no author: %w", ginternals.ErrCommitInvalid)
	}
	if ci.treeID.IsZero() {
		return nil, fmt.Errorf("commit has no tree: %w", ginternals.ErrCommitInvalid)
	}

	ci.rawObject = New(TypeCommit, payload)
	return ci, nil
}

// ID returns the OID of the commit object.
func (c *Commit) ID() ginternals.Oid {
	return c.rawObject.ID()
}

// Author returns the signature of whoever made the changes.
func (c *Commit) Author() Signature {
	return c.author
}

// Committer returns the signature of whoever created the commit.
func (c *Commit) Committer() Signature {
	return c.committer
}

// Message returns the commit's message.
func (c *Commit) Message() string {
	return c.message
}

// ParentIDs returns the commit's parent OIDs, in order.
func (c *Commit) ParentIDs() []ginternals.Oid {
	out := make([]ginternals.Oid, len(c.parentIDs))
	copy(out, c.parentIDs)
	return out
}

// TreeID returns the OID of the commit's tree.
func (c *Commit) TreeID() ginternals.Oid {
	return c.treeID
}

// ToObject returns the underlying framed Object, building it on first use.
func (c *Commit) ToObject() *Object {
	if c.rawObject != nil {
		return c.rawObject
	}

	buf := new(bytes.Buffer)
	buf.WriteString("tree ")
	buf.WriteString(c.treeID.String())
	buf.WriteByte('\n')

	for _, p := range c.parentIDs {
		buf.WriteString("parent ")
		buf.WriteString(p.String())
		buf.WriteByte('\n')
	}

	buf.WriteString("author ")
	buf.WriteString(c.author.String())
	buf.WriteByte('\n')

	buf.WriteString("committer ")
	buf.WriteString(c.committer.String())
	buf.WriteByte('\n')

	buf.WriteByte('\n')
	buf.WriteString(c.message)

	c.rawObject = New(TypeCommit, buf.Bytes())
	return c.rawObject
}
