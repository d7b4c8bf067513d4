// Package pipeline orchestrates spec §4.8's six-phase composition:
// discovery/cloning, per-repo processing, operation ordering, composite
// construction, local file merging, and disk materialization (the last
// phase lives in the sibling diskwriter package; Run stops at the final
// in-memory composite, and Discover runs Phase 1 alone for `tree`/`info`).
package pipeline

// Warning is a pipeline-level, non-fatal diagnostic: a conflict overwrite,
// a stale-cache fallback, a tool-version mismatch, and so on (spec §7
// policy: "accumulated and reported; they do not fail the run").
type Warning struct {
	Kind    string
	Path    string
	Message string
}
