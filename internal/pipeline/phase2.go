package pipeline

import (
	"fmt"

	"github.com/gizzahub/common-repo/internal/clierr"
	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/graph"
	"github.com/gizzahub/common-repo/internal/memfs"
	"github.com/gizzahub/common-repo/internal/operators"
	"github.com/gizzahub/common-repo/internal/template"
)

// buildIntermediate runs an operation list against source, producing the
// IntermediateFS (spec §4.4/§4.5): non-repo, non-merge operators apply via
// operators.Apply; immediate merge operators run now (Source=Dest=the
// Working FS under construction); merge operators marked `defer: true`
// (every `auto-merge` shorthand among them) are collected rather than run,
// for the caller to run later against a composite. repoChain annotates
// any *clierr.Error raised along the way.
func buildIntermediate(ops []config.Operation, source *memfs.FS, deps operators.Deps, repoChain []string) (*memfs.FS, map[string]bool, []*config.MergeOp, []operators.Warning, error) {
	if !hasFilteringOp(ops) {
		// No include/exclude/rename/merge/etc. of its own: the whole
		// fetched tree (or, in Phase 5, the whole local directory) passes
		// through unfiltered rather than vanishing for want of an
		// explicit "include everything" (spec §8 S1: a bare `repo`
		// reference with no operations of its own still contributes its
		// full tree).
		return source.Clone(), make(map[string]bool), nil, nil, nil
	}

	st := operators.NewState(source, template.NewContext())
	var deferred []*config.MergeOp

	for _, op := range ops {
		if op.Kind == config.OpRepo {
			// Handled by the graph builder: the referenced repo's own
			// Intermediate is folded in separately (Phase 3/4).
			continue
		}

		if isMergeKind(op.Kind) {
			if op.Merge.Defer {
				deferred = append(deferred, op.Merge)
				continue
			}
			ctx := operators.MergeContext{Source: st.Working, Dest: st.Working}
			if err := applyMerge(ctx, op.Merge); err != nil {
				return nil, nil, nil, nil, clierr.New(clierr.KindOperator, clierr.Origin{File: op.Location.File, Index: op.Location.Index, Operator: string(op.Kind), RepoChain: repoChain}, "apply merge operation", err)
			}
			continue
		}

		if err := operators.Apply(st, op, deps); err != nil {
			return nil, nil, nil, nil, clierr.New(clierr.KindOperator, clierr.Origin{File: op.Location.File, Index: op.Location.Index, Operator: string(op.Kind), RepoChain: repoChain}, "apply operation", err)
		}
	}

	return st.Working, st.Tagged, deferred, st.Warnings, nil
}

// processNode runs spec §4.8 Phase 2 for one RepoNode: its own embedded
// configuration's operations, then the inline `with` operations
// contributed by the declaring `repo` operation, which run after the
// child's own operations.
func processNode(node *graph.RepoNode, deps operators.Deps) ([]Warning, error) {
	var ops []config.Operation
	if node.Config != nil {
		ops = append(ops, node.Config.Operations...)
	}
	ops = append(ops, node.With...)

	working, tagged, deferred, opWarnings, err := buildIntermediate(ops, node.Raw, deps, node.AncestorChain)
	if err != nil {
		return nil, err
	}

	node.Intermediate = working
	node.Tagged = tagged
	node.DeferredMerges = deferred

	warnings := make([]Warning, 0, len(opWarnings)+len(node.Warnings))
	for _, w := range opWarnings {
		warnings = append(warnings, Warning{Kind: w.Kind, Path: w.Path, Message: w.Message})
	}
	for _, w := range node.Warnings {
		warnings = append(warnings, Warning{Kind: "StaleCache", Path: node.Label(), Message: w})
	}
	return warnings, nil
}

// hasFilteringOp reports whether ops contains anything besides nested
// `repo` references (which Phase 2 never applies directly; they are
// folded in separately as their own graph nodes).
func hasFilteringOp(ops []config.Operation) bool {
	for _, op := range ops {
		if op.Kind != config.OpRepo {
			return true
		}
	}
	return false
}

func isMergeKind(k config.OpKind) bool {
	switch k {
	case config.OpYAML, config.OpJSON, config.OpTOML, config.OpINI, config.OpMarkdown:
		return true
	default:
		return false
	}
}

// dedupeKey derives a stable de-duplication key for (url, ref, path,
// normalized with) so structurally identical `repo` references across
// distinct declaration sites share a single IntermediateFS (spec §4.8:
// "identical repo references are fetched and processed only once").
func dedupeKey(node *graph.RepoNode) string {
	return fmt.Sprintf("%s@%s:%s|%+v", config.CanonicalizeURL(node.URL), node.Ref, node.Path, node.With)
}
