package clone

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"

	"github.com/mbranch/gitgo/ginternals"
	"github.com/mbranch/gitgo/pktline"
	"golang.org/x/xerrors"
)

// sideband identifiers used on the packfile section of a v2 fetch
// response: band 1 carries pack data, 2 carries progress text meant for
// a human, 3 carries a fatal error message.
const (
	sidebandData     = 1
	sidebandProgress = 2
	sidebandError    = 3
)

// buildFetchRequest renders a "command=fetch" request body: the command
// line, a delimiter, the no-progress flag, a want per target Oid, and a
// trailing done.
func buildFetchRequest(wants []ginternals.Oid) []byte {
	sorted := append([]ginternals.Oid(nil), wants...)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Bytes(), sorted[j].Bytes()) < 0
	})

	buf := new(bytes.Buffer)
	buf.Write(pktline.EncodeString("command=fetch"))
	buf.Write(pktline.Delim())
	buf.Write(pktline.EncodeString("no-progress"))
	for _, oid := range sorted {
		buf.Write(pktline.EncodeString(fmt.Sprintf("want %s\n", oid)))
	}
	buf.Write(pktline.EncodeString("done\n"))
	buf.Write(pktline.Flush())
	return buf.Bytes()
}

// fetchPack performs the POST /git-upload-pack exchange and returns the
// raw pack bytes reassembled from the response's sideband-1 packets.
func fetchPack(client *http.Client, baseURL string, wants []ginternals.Oid) ([]byte, error) {
	body := buildFetchRequest(wants)
	req, err := http.NewRequest(http.MethodPost, baseURL+"/git-upload-pack", bytes.NewReader(body))
	if err != nil {
		return nil, xerrors.Errorf("could not build git-upload-pack request: %w", err)
	}
	req.Header.Set("Git-Protocol", "version=2")
	req.Header.Set("Content-Type", "application/x-git-upload-pack-request")

	resp, err := client.Do(req)
	if err != nil {
		return nil, xerrors.Errorf("POST git-upload-pack: %w: %w", err, ErrNetwork)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response, nothing to flush

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, xerrors.Errorf("POST git-upload-pack: unexpected status %s: %w", resp.Status, ErrNetwork)
	}

	pack := new(bytes.Buffer)
	inPackfileSection := false
	scanner := pktline.NewScanner(resp.Body)
	for scanner.Scan() {
		switch {
		case scanner.IsDelim():
			continue
		case scanner.IsFlush():
			if inPackfileSection {
				return pack.Bytes(), nil
			}
			continue
		}

		line := scanner.Bytes()
		if !inPackfileSection {
			if bytes.Equal(bytes.TrimRight(line, "\n"), []byte("packfile")) {
				inPackfileSection = true
			}
			continue
		}
		if len(line) == 0 {
			continue
		}

		switch line[0] {
		case sidebandData:
			pack.Write(line[1:])
		case sidebandProgress:
			// progress text meant for a human terminal; discarded.
		case sidebandError:
			return nil, xerrors.Errorf("remote error: %s: %w", line[1:], ErrNetwork)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.Errorf("could not read fetch response: %w", err)
	}
	if !inPackfileSection {
		return nil, xerrors.Errorf("response never reached a packfile section: %w", ErrInvalid)
	}
	return pack.Bytes(), nil
}
