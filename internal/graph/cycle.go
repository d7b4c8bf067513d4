package graph

import "github.com/gizzahub/common-repo/internal/clierr"

// ancestry tracks the chain of "url@ref" labels currently being expanded,
// so a repeated entry can be reported as a fatal cycle (spec §4.8 Phase
// 1: "a fatal cycle aborts with CycleDetected { chain }").
type ancestry struct {
	seen  map[string]int // label -> position in chain
	chain []string
}

func newAncestry() *ancestry {
	return &ancestry{seen: make(map[string]int)}
}

// push appends label to the chain, returning a *clierr.Error if doing so
// would close a cycle.
func (a *ancestry) push(label string) *clierr.Error {
	if pos, ok := a.seen[label]; ok {
		cycle := append(append([]string{}, a.chain[pos:]...), label)
		return clierr.CycleDetected(cycle)
	}
	a.seen[label] = len(a.chain)
	a.chain = append(a.chain, label)
	return nil
}

// snapshot returns a defensive copy of the current chain, safe to retain
// past further push calls (e.g. for embedding in a node's warnings).
func (a *ancestry) snapshot() []string {
	out := make([]string, len(a.chain))
	copy(out, a.chain)
	return out
}
