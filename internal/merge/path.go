// Package merge implements the shared structured-merge engine behind the
// yaml/json/toml operators (spec §4.5): path navigation (dot notation,
// bracket notation, array indices, escaped dots) and the key-union /
// array-mode merge semantics, built on dario.cat/mergo.
package merge

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a parsed merge path: either a map key or an array
// index.
type Segment struct {
	Key     string
	IsIndex bool
	Index   int
}

// ParsePath parses the dot/bracket path syntax of spec §4.5: dot notation
// "a.b.c", bracket notation `a["b"]`/`a['b']` for keys with dots or special
// characters, array indices "items[3]", escaped dots "a\.b", with mixing
// allowed. An empty path means "the whole document."
func ParsePath(path string) ([]Segment, error) {
	var segs []Segment
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, Segment{Key: cur.String()})
			cur.Reset()
		}
	}

	i := 0
	for i < len(path) {
		c := path[i]

		switch {
		case c == '\\' && i+1 < len(path) && path[i+1] == '.':
			cur.WriteByte('.')
			i += 2

		case c == '.':
			flush()
			i++

		case c == '[':
			flush()
			seg, next, err := parseBracket(path, i)
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
			i = next

		default:
			cur.WriteByte(c)
			i++
		}
	}
	flush()

	return segs, nil
}

func parseBracket(path string, open int) (Segment, int, error) {
	j := open + 1
	if j >= len(path) {
		return Segment{}, 0, fmt.Errorf("unterminated bracket in path %q", path)
	}

	if path[j] == '"' || path[j] == '\'' {
		quote := path[j]
		j++
		start := j
		for j < len(path) && path[j] != quote {
			j++
		}
		if j >= len(path) {
			return Segment{}, 0, fmt.Errorf("unterminated quote in path %q", path)
		}
		key := path[start:j]
		j++ // skip closing quote
		if j >= len(path) || path[j] != ']' {
			return Segment{}, 0, fmt.Errorf("expected ']' in path %q", path)
		}
		return Segment{Key: key}, j + 1, nil
	}

	start := j
	for j < len(path) && path[j] != ']' {
		j++
	}
	if j >= len(path) {
		return Segment{}, 0, fmt.Errorf("unterminated bracket in path %q", path)
	}
	idx, err := strconv.Atoi(path[start:j])
	if err != nil {
		return Segment{}, 0, fmt.Errorf("invalid array index in path %q: %w", path, err)
	}
	return Segment{IsIndex: true, Index: idx}, j + 1, nil
}
