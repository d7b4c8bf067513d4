package tomlmerge

import (
	"bytes"
	"regexp"
)

var tomlKeyLine = regexp.MustCompile(`^([A-Za-z0-9_.-]+)\s*=`)

// reattachComments is the "format-preserving emitter" of spec §4.5's
// `preserve_comments: true` for TOML: go-toml/v2's encoder drops comments
// on round-trip, so this recovers the simple case — a line comment block
// immediately above a top-level `key = value` line — by re-pairing each
// key in the freshly marshaled document with the comment block that
// preceded it in the original. Comments above nested table bodies or
// mid-table whitespace are out of scope; this is a best-effort pass, not
// a full-fidelity TOML editor.
func reattachComments(original, remarshaled []byte) []byte {
	comments := leadingCommentsByKey(original)
	if len(comments) == 0 {
		return remarshaled
	}

	var out bytes.Buffer
	lines := bytes.Split(remarshaled, []byte("\n"))
	for i, line := range lines {
		if m := tomlKeyLine.FindSubmatch(line); m != nil {
			key := string(m[1])
			if block, ok := comments[key]; ok {
				out.Write(block)
			}
		}
		out.Write(line)
		if i != len(lines)-1 {
			out.WriteByte('\n')
		}
	}
	return out.Bytes()
}

func leadingCommentsByKey(src []byte) map[string][]byte {
	result := make(map[string][]byte)
	lines := bytes.Split(src, []byte("\n"))

	var pending bytes.Buffer
	for _, line := range lines {
		trimmed := bytes.TrimSpace(line)

		switch {
		case bytes.HasPrefix(trimmed, []byte("#")):
			pending.Write(line)
			pending.WriteByte('\n')

		case len(trimmed) == 0:
			pending.Reset()

		default:
			if m := tomlKeyLine.FindSubmatch(line); m != nil && pending.Len() > 0 {
				key := string(m[1])
				block := make([]byte, pending.Len())
				copy(block, pending.Bytes())
				result[key] = block
			}
			pending.Reset()
		}
	}
	return result
}
