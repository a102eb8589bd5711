// ABOUTME: Line-oriented reader for `key = value` record files
// ABOUTME: Enforces a fixed per-line size bound shared with the auth checker

package conf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxLineLen is the fixed upper bound on a record line, in bytes. The auth
// checker reuses the same bound to cap the decoded size of Basic credentials,
// so an oversized Authorization header cannot force unbounded allocation.
const MaxLineLen = 1024

// Line is a single key/value record.
type Line struct {
	Key   string
	Value string
	Num   int // 1-based line number
}

// ParseError describes a malformed or oversized record. It is operator-facing
// and is never reflected into HTTP responses.
type ParseError struct {
	Num int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Num, e.Msg)
}

// Reader reads key/value records from a line-oriented file. Blank lines and
// lines starting with '#' are skipped; anything else must be a well-formed
// `key = value` pair.
type Reader struct {
	scanner *bufio.Scanner
	num     int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, MaxLineLen), MaxLineLen)
	return &Reader{scanner: sc}
}

// Next returns the next record. It returns io.EOF once the input is
// exhausted and a *ParseError for malformed or oversized lines.
func (r *Reader) Next() (Line, error) {
	for r.scanner.Scan() {
		r.num++

		raw := strings.TrimSpace(r.scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}

		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			return Line{}, &ParseError{Num: r.num, Msg: "expected key = value"}
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return Line{}, &ParseError{Num: r.num, Msg: "empty key"}
		}

		return Line{Key: key, Value: strings.TrimSpace(value), Num: r.num}, nil
	}

	if err := r.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return Line{}, &ParseError{
				Num: r.num + 1,
				Msg: fmt.Sprintf("line exceeds %d bytes", MaxLineLen),
			}
		}
		return Line{}, err
	}

	return Line{}, io.EOF
}
