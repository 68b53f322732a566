// Package refs converts a list of row ids to and from the single-column
// form used for multi-valued references: "<1>,<2>,<3>".
package refs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFormat reports a column value that does not follow the grammar.
var ErrFormat = errors.New("malformed reference list")

// Token returns the bracketed form of one id.
func Token(id int64) string {
	return "<" + strconv.FormatInt(id, 10) + ">"
}

// Encode flattens ids in order. An empty list encodes as nil, the unset
// column, never as an empty string.
func Encode(ids []int64) *string {
	if len(ids) == 0 {
		return nil
	}
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Token(id))
	}
	s := b.String()
	return &s
}

// Decode parses a column value back into ids, in the order they appear.
func Decode(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		if len(p) < 3 || p[0] != '<' || p[len(p)-1] != '>' {
			return nil, fmt.Errorf("%w: token %q", ErrFormat, p)
		}
		digits := p[1 : len(p)-1]
		for _, c := range digits {
			if c < '0' || c > '9' {
				return nil, fmt.Errorf("%w: token %q", ErrFormat, p)
			}
		}
		id, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: token %q: %v", ErrFormat, p, err)
		}
		out = append(out, id)
	}
	return out, nil
}

// Contains reports whether id is in ids.
func Contains(ids []int64, id int64) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// Remove returns ids without any occurrence of id.
func Remove(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// Append adds id to the end of ids unless it is already present.
func Append(ids []int64, id int64) []int64 {
	if Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}
