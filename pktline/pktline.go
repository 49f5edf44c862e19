// Package pktline implements the pkt-line framing used by git's smart-HTTP
// protocol: every record on the wire is prefixed by a 4-hex-digit length
// that counts itself.
// https://git-scm.com/docs/protocol-common#_pkt_line_format
package pktline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/xerrors"
)

// ErrInvalid is returned when a pkt-line can't be parsed.
var ErrInvalid = errors.New("invalid pkt-line")

// Special zero-length packets. FlushPkt ends a section of the protocol;
// DelimiterPkt separates a command from its argument lines in protocol v2.
const (
	FlushPkt     = 0
	DelimiterPkt = 1
)

// lenHeaderSize is the size, in bytes, of the hex length prefix.
const lenHeaderSize = 4

// Encode renders payload as a single pkt-line: a 4-hex-digit length
// followed by the payload itself. The length counts the 4 header bytes.
func Encode(payload []byte) []byte {
	out := make([]byte, 0, lenHeaderSize+len(payload))
	out = append(out, []byte(fmt.Sprintf("%04x", lenHeaderSize+len(payload)))...)
	out = append(out, payload...)
	return out
}

// EncodeString is Encode for a string payload, the common case when
// building a request body line by line.
func EncodeString(payload string) []byte {
	return Encode([]byte(payload))
}

// Flush is the flush-pkt: "0000".
func Flush() []byte {
	return []byte("0000")
}

// Delim is the delimiter-pkt used in protocol v2 request bodies: "0001".
func Delim() []byte {
	return []byte("0001")
}

// Scanner reads a sequence of pkt-lines off an io.Reader.
type Scanner struct {
	r   *bufio.Reader
	err error

	payload []byte

	// isSpecial is set when the current packet has no payload (a
	// flush or delimiter packet); special then holds which one.
	isSpecial bool
	special   int
}

// NewScanner returns a Scanner reading pkt-lines from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// Scan reads the next pkt-line. It returns false at EOF or on error; check
// Err to distinguish the two.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}

	header := make([]byte, lenHeaderSize)
	if _, err := io.ReadFull(s.r, header); err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = xerrors.Errorf("could not read pkt-line length: %w", err)
		}
		return false
	}

	length, err := strconv.ParseInt(string(header), 16, 32)
	if err != nil {
		s.err = xerrors.Errorf("malformed pkt-line length %q: %w", header, ErrInvalid)
		return false
	}

	if length < lenHeaderSize {
		s.isSpecial = true
		s.special = int(length)
		s.payload = nil
		return true
	}

	s.isSpecial = false
	payload := make([]byte, int(length)-lenHeaderSize)
	if _, err := io.ReadFull(s.r, payload); err != nil {
		s.err = xerrors.Errorf("could not read pkt-line payload: %w", err)
		return false
	}
	s.payload = payload
	return true
}

// IsFlush returns whether the current packet is a flush-pkt.
func (s *Scanner) IsFlush() bool {
	return s.isSpecial && s.special == FlushPkt
}

// IsDelim returns whether the current packet is a delimiter-pkt: any
// special packet with a length of 0001 to 0003.
func (s *Scanner) IsDelim() bool {
	return s.isSpecial && s.special >= DelimiterPkt
}

// Bytes returns the payload of the current data packet.
func (s *Scanner) Bytes() []byte {
	return s.payload
}

// Err returns the first non-EOF error encountered by Scan.
func (s *Scanner) Err() error {
	return s.err
}
