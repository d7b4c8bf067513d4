package memfs

import "strings"

// MatchGlob reports whether path matches pattern using the composition
// engine's glob dialect: "*" matches within a single path segment, "**"
// matches any number of segments (including zero), and a leading ".*"
// segment matches hidden files/directories at that position. Matching is
// case-sensitive.
func MatchGlob(pattern, p string) bool {
	return matchSegments(splitSegments(pattern), splitSegments(p))
}

func splitSegments(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}

	head := pattern[0]

	if head == "**" {
		// "**" may consume zero or more path segments.
		if matchSegments(pattern[1:], path) {
			return true
		}
		if len(path) == 0 {
			return false
		}
		return matchSegments(pattern, path[1:])
	}

	if len(path) == 0 {
		return false
	}

	if !matchSegment(head, path[0]) {
		return false
	}

	return matchSegments(pattern[1:], path[1:])
}

// matchSegment matches a single path segment against a single pattern
// segment where "*" matches any run of characters within the segment.
func matchSegment(pattern, segment string) bool {
	return matchSegmentParts(splitStar(pattern), segment)
}

func splitStar(pattern string) []string {
	return strings.Split(pattern, "*")
}

func matchSegmentParts(parts []string, s string) bool {
	if len(parts) == 0 {
		return s == ""
	}
	if len(parts) == 1 {
		return parts[0] == s
	}

	first := parts[0]
	if !strings.HasPrefix(s, first) {
		return false
	}
	s = s[len(first):]

	last := parts[len(parts)-1]
	if !strings.HasSuffix(s, last) {
		return false
	}
	s = s[:len(s)-len(last)]

	middle := parts[1 : len(parts)-1]
	for _, part := range middle {
		if part == "" {
			continue
		}
		idx := strings.Index(s, part)
		if idx < 0 {
			return false
		}
		s = s[idx+len(part):]
	}

	return true
}

// MatchAny reports whether p matches any of patterns.
func MatchAny(patterns []string, p string) bool {
	for _, pat := range patterns {
		if MatchGlob(pat, p) {
			return true
		}
	}
	return false
}

// List returns all paths matching pattern, sorted.
func (fs *FS) List(pattern string) []string {
	var out []string
	for _, p := range fs.Paths() {
		if MatchGlob(pattern, p) {
			out = append(out, p)
		}
	}
	return out
}

// ListAny returns all paths matching any of patterns, sorted, deduplicated.
func (fs *FS) ListAny(patterns []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range fs.Paths() {
		if MatchAny(patterns, p) {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}
