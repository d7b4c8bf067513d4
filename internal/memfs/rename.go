package memfs

import (
	"fmt"
	"regexp"
	"sort"
)

// RenameRule is one regex->template entry of a rename operation. Pattern is
// matched as a full-string match against the current path; on match, Target
// is produced by substituting %[N]s with the N-th capture group.
type RenameRule struct {
	Pattern *regexp.Regexp
	Target  string
}

// RenameResult describes the outcome of applying one rule to one path.
type RenameResult struct {
	From      string
	To        string
	Collision bool
}

// Rename applies rules in declaration order to every current path. Matching
// is evaluated against the FS snapshot taken at the start of the call, so
// renames within the same operator do not chain onto each other's output —
// the whole operation commits atomically: no intermediate state is
// observable to other operators. An entry that would rename onto an
// existing key overwrites last-write-wins and is reported as a collision.
func (fs *FS) Rename(rules []RenameRule) ([]RenameResult, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	type move struct {
		from string
		to   string
	}

	var moves []move
	for _, p := range sortedKeys(fs.files) {
		for _, rule := range rules {
			m := rule.Pattern.FindStringSubmatch(p)
			if m == nil || m[0] != p {
				continue
			}

			target, err := substituteCaptures(rule.Target, m[1:])
			if err != nil {
				return nil, fmt.Errorf("rename %q: %w", p, err)
			}

			normalized, err := Normalize(target)
			if err != nil {
				return nil, fmt.Errorf("rename %q: %w", p, err)
			}

			moves = append(moves, move{from: p, to: normalized})
			break // first matching rule wins for a given path
		}
	}

	var results []RenameResult
	for _, mv := range moves {
		if mv.from == mv.to {
			continue
		}

		f, ok := fs.files[mv.from]
		if !ok {
			continue
		}

		_, collision := fs.files[mv.to]
		delete(fs.files, mv.from)
		fs.files[mv.to] = f

		results = append(results, RenameResult{From: mv.from, To: mv.to, Collision: collision})
	}

	return results, nil
}

func substituteCaptures(tmpl string, captures []string) (out string, err error) {
	args := make([]any, len(captures))
	for i, c := range captures {
		args[i] = c
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid rename template %q: %v", tmpl, r)
		}
	}()

	out = fmt.Sprintf(tmpl, args...)
	return out, nil
}

func sortedKeys(m map[string]File) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
