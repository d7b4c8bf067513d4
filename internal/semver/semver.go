// Package semver implements the semver-aware version resolution used by
// update checking: given a repository's known tags and its currently
// pinned ref, pick the highest compatible or latest semver tag. Built on
// hashicorp/go-version, the same library internal/operators/tools.go uses
// for tool-constraint checking.
package semver

import (
	"strings"

	"github.com/hashicorp/go-version"
)

// Scope selects which partition of greater versions Resolve returns.
type Scope string

const (
	// Compatible keeps only versions with the same major as current,
	// strictly greater.
	Compatible Scope = "compatible"
	// Latest keeps any version strictly greater than current, regardless
	// of major.
	Latest Scope = "latest"
)

// ParseTag reports whether tag is semver-parseable: MAJOR.MINOR.PATCH,
// optionally prefixed with "v", optionally followed by a
// pre-release/build-metadata suffix. Non-semver tags (branches, SHAs,
// arbitrary tags) are passed through unchanged by callers — ParseTag just
// tells them whether to.
func ParseTag(tag string) (*version.Version, bool) {
	v, err := version.NewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return nil, false
	}
	return v, true
}

// candidate pairs a parsed version with the original tag string it came
// from, so Resolve can return the tag as written (preserving a "v" prefix).
type candidate struct {
	tag string
	v   *version.Version
}

// Resolve implements spec §4.6 steps 1-4: given the full set of remote
// tags and the currently pinned version, it keeps only semver-parseable
// tags, partitions into compatible/latest, and returns the maximum of the
// requested scope, or ok=false if the partition is empty.
func Resolve(tags []string, current string, scope Scope) (tag string, ok bool) {
	currentVersion, currentOK := ParseTag(current)

	var candidates []candidate
	for _, t := range tags {
		v, parsed := ParseTag(t)
		if !parsed {
			continue
		}
		if currentOK && !v.GreaterThan(currentVersion) {
			continue
		}
		if scope == Compatible {
			if !currentOK || !sameMajor(v, currentVersion) {
				continue
			}
		}
		candidates = append(candidates, candidate{tag: t, v: v})
	}

	if len(candidates) == 0 {
		return "", false
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.v.GreaterThan(best.v) {
			best = c
		}
	}
	return best.tag, true
}

func sameMajor(a, b *version.Version) bool {
	as, bs := a.Segments(), b.Segments()
	return len(as) > 0 && len(bs) > 0 && as[0] == bs[0]
}

// HighestSemver returns the highest semver tag in tags, used by `init`/
// `add`/`common-repo add` (spec §4.6): "the highest semver tag is
// selected; if none exists, the default branch name main is used."
func HighestSemver(tags []string) (tag string, ok bool) {
	var best candidate
	found := false

	for _, t := range tags {
		v, parsed := ParseTag(t)
		if !parsed {
			continue
		}
		if !found || v.GreaterThan(best.v) {
			best = candidate{tag: t, v: v}
			found = true
		}
	}

	if !found {
		return "", false
	}
	return best.tag, true
}

// DefaultBranch is returned by HighestSemver's caller when no semver tags
// exist at all.
const DefaultBranch = "main"

// WarnsPreStable reports whether every semver-parseable tag in tags is a
// 0.x.y version, meaning "a warning is emitted when only 0.x.y versions
// exist (pre-1.0 API instability)."
func WarnsPreStable(tags []string) bool {
	sawAny := false
	for _, t := range tags {
		v, parsed := ParseTag(t)
		if !parsed {
			continue
		}
		sawAny = true
		if v.Segments()[0] != 0 {
			return false
		}
	}
	return sawAny
}
