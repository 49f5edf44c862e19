// Package clone implements a minimal smart-HTTP v2 fetch client: ref
// discovery, a packfile request, and reconstruction of the received
// objects (including ref_delta resolution) into a local store.
package clone

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/mbranch/gitgo/ginternals"
	"github.com/mbranch/gitgo/ginternals/object"
	"github.com/mbranch/gitgo/packfile"
	"golang.org/x/xerrors"
)

var (
	// ErrNetwork is returned for a non-2xx HTTP response or a transport
	// failure talking to the remote.
	ErrNetwork = errors.New("network error")
	// ErrInvalid is returned when the remote's response can't be parsed
	// as a v2 fetch reply.
	ErrInvalid = errors.New("invalid fetch response")
)

// Store is the subset of backend.Backend a clone needs: somewhere to
// persist the refs it discovers and the objects its pack decodes into.
type Store interface {
	WriteReference(ref *ginternals.Reference) error
	Object(oid ginternals.Oid) (*object.Object, error)
	WriteObject(o *object.Object) (ginternals.Oid, error)
}

// Clone discovers every ref a remote advertises, requests a pack
// covering them, and writes the resulting objects and refs into store.
// HEAD is pointed at the branch the server's symref capability names,
// falling back to refs/heads/main if the server didn't advertise one.
// client may be nil, in which case http.DefaultClient is used.
func Clone(client *http.Client, remoteURL string, store Store) error {
	if client == nil {
		client = http.DefaultClient
	}

	refs, headTarget, err := discoverRefs(client, remoteURL)
	if err != nil {
		return xerrors.Errorf("could not discover refs: %w", err)
	}

	wantSet := make(map[ginternals.Oid]struct{}, len(refs))
	for name, oid := range refs {
		if err := store.WriteReference(ginternals.NewReference(name, oid)); err != nil {
			return xerrors.Errorf("could not write reference %s: %w", name, err)
		}
		wantSet[oid] = struct{}{}
	}

	if len(wantSet) > 0 {
		wants := make([]ginternals.Oid, 0, len(wantSet))
		for oid := range wantSet {
			wants = append(wants, oid)
		}

		packData, err := fetchPack(client, remoteURL, wants)
		if err != nil {
			return xerrors.Errorf("could not fetch pack: %w", err)
		}
		if _, err := packfile.Decode(bytes.NewReader(packData), store); err != nil {
			return xerrors.Errorf("could not decode pack: %w", err)
		}
	}

	target := ginternals.LocalBranchFullName("main")
	if headTarget != "" {
		target = headTarget
	}
	if err := store.WriteReference(ginternals.NewSymbolicReference(ginternals.Head, target)); err != nil {
		return xerrors.Errorf("could not write HEAD: %w", err)
	}
	return nil
}
