// Package graph builds and traverses the RepoNode dependency graph of
// spec §4.8: Phase 1 breadth-first discovery/cloning, Phase 3 depth-first
// post-order composition ordering, with cycle detection along the way.
package graph

import (
	"fmt"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/memfs"
)

// RepoNode is one resolved `repo` operation: a fetched tree, its parsed
// embedded configuration (if any), and the child nodes its own `repo`
// operations introduce. Nodes live in a Graph's arena and are referenced
// by index, so the structure can hold cycles (detected, never built) and
// diamond shapes (shared nodes) without pointer aliasing headaches.
type RepoNode struct {
	ID int

	URL  string
	Ref  string
	Path string

	// With holds the inline `with` operations of the declaring `repo`
	// operation; they run after the child's own operations (spec §4.8
	// Phase 2).
	With []config.Operation

	// Config is this node's own parsed embedded configuration, if its
	// fetched tree contained one.
	Config *config.Configuration

	// Raw is the node's fetched tree (Phase 1 output).
	Raw *memfs.FS

	// Intermediate is the node's IntermediateFS (Phase 2 output).
	Intermediate *memfs.FS

	// Tagged is the set of Intermediate keys marked by a `template`
	// operator for deferred substitution at the composite stage (spec
	// §4.3, §4.8 Phase 4).
	Tagged map[string]bool

	// DeferredMerges are this node's own merge operators declared with
	// defer: true, collected in Phase 2 and run when this node's
	// Intermediate is folded into a composite (spec §4.8 Phase 2, Phase
	// 4).
	DeferredMerges []*config.MergeOp

	// Warnings accumulated while producing Raw/Intermediate.
	Warnings []string

	// Children are, in declaration order, the node indices for this
	// node's own config's `repo` operations.
	Children []int

	// DedupeKey identifies (url, ref, path, normalized with) for Phase 2
	// cross-node de-duplication (spec §4.8).
	DedupeKey string

	// AncestorChain is this node's root-first "url@ref" label chain,
	// including itself, used for cycle detection and error-origin
	// annotation.
	AncestorChain []string
}

// Label returns the node's "url@ref" label for origin annotation and
// cycle-chain reporting.
func (n *RepoNode) Label() string {
	if n.Path != "" {
		return fmt.Sprintf("%s@%s:%s", n.URL, n.Ref, n.Path)
	}
	return fmt.Sprintf("%s@%s", n.URL, n.Ref)
}

// Graph is the arena of RepoNodes reachable from the local configuration's
// top-level `repo` operations.
type Graph struct {
	Nodes []*RepoNode

	// Roots are, in declaration order, the node indices for C_local's
	// own top-level `repo` operations.
	Roots []int
}

func newGraph() *Graph {
	return &Graph{}
}

// addNode appends a new, empty RepoNode and returns its index.
func (g *Graph) addNode(url, ref, path string, with []config.Operation) int {
	idx := len(g.Nodes)
	g.Nodes = append(g.Nodes, &RepoNode{ID: idx, URL: url, Ref: ref, Path: path, With: with})
	return idx
}

// Node returns the node at idx.
func (g *Graph) Node(idx int) *RepoNode {
	return g.Nodes[idx]
}
