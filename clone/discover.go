package clone

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/mbranch/gitgo/ginternals"
	"github.com/mbranch/gitgo/pktline"
	"golang.org/x/xerrors"
)

// symrefCapPrefix is the capability the ref-discovery response uses to
// tell a client which branch HEAD actually points at, e.g.
// "symref=HEAD:refs/heads/main".
const symrefCapPrefix = "symref=HEAD:"

// discoverRefs performs the GET /info/refs?service=git-upload-pack
// exchange and parses the advertisement into a refname->Oid map, plus
// the branch HEAD is a symref for, if the server advertised one.
func discoverRefs(client *http.Client, baseURL string) (refs map[string]ginternals.Oid, headTarget string, err error) {
	req, err := http.NewRequest(http.MethodGet, baseURL+"/info/refs?service=git-upload-pack", nil)
	if err != nil {
		return nil, "", xerrors.Errorf("could not build info/refs request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", xerrors.Errorf("GET info/refs: %w: %w", err, ErrNetwork)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response, nothing to flush

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", xerrors.Errorf("GET info/refs: unexpected status %s: %w", resp.Status, ErrNetwork)
	}

	refs = map[string]ginternals.Oid{}
	scanner := pktline.NewScanner(resp.Body)
	for scanner.Scan() {
		if scanner.IsFlush() || scanner.IsDelim() {
			continue
		}
		line := bytes.TrimRight(scanner.Bytes(), "\n")
		if bytes.HasPrefix(line, []byte("#")) {
			continue // e.g. "# service=git-upload-pack"
		}

		oidHex, rest, ok := cut(line, ' ')
		if !ok {
			return nil, "", xerrors.Errorf("malformed ref advertisement %q: %w", line, ErrInvalid)
		}

		name := rest
		if nul := bytes.IndexByte(rest, 0); nul >= 0 {
			name = rest[:nul]
			headTarget = parseSymref(string(rest[nul+1:]))
		}

		oid, err := ginternals.NewOidFromHex(string(oidHex))
		if err != nil {
			return nil, "", xerrors.Errorf("invalid oid in advertisement %q: %w", line, ErrInvalid)
		}
		refs[string(name)] = oid
	}
	if err := scanner.Err(); err != nil {
		return nil, "", xerrors.Errorf("could not read ref advertisement: %w", err)
	}
	return refs, headTarget, nil
}

// parseSymref pulls the ref HEAD aliases out of a capability string.
func parseSymref(capabilities string) string {
	for _, cap := range strings.Fields(capabilities) {
		if strings.HasPrefix(cap, symrefCapPrefix) {
			return cap[len(symrefCapPrefix):]
		}
	}
	return ""
}

// cut splits b on the first occurrence of sep, mirroring bytes.Cut
// (stdlib from Go 1.18) with a single-byte separator.
func cut(b []byte, sep byte) (before, after []byte, found bool) {
	if i := bytes.IndexByte(b, sep); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, false
}
