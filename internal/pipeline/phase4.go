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

// buildVarsContext accumulates the global TemplateContext by layering
// every graph node's template_vars, in Phase 3 post-order, then local's
// own template_vars last, per spec §4.3: "the local configuration's
// template_vars are applied last, so it can override anything a source
// contributed." Because template_vars operations never touch a FS, this
// pass runs independent of the composite fold itself, ahead of any
// substitution.
func buildVarsContext(order []int, g *graph.Graph, localOps []config.Operation, getenv template.Getenv) (*template.Context, error) {
	ctx := template.NewContext()

	layer := func(ops []config.Operation) error {
		for _, op := range ops {
			if op.Kind != config.OpTemplateVars {
				continue
			}
			if err := operators.LayerTemplateVars(ctx, op.TemplateVars, getenv); err != nil {
				return err
			}
		}
		return nil
	}

	for _, idx := range order {
		node := g.Node(idx)
		if node.Config != nil {
			if err := layer(node.Config.Operations); err != nil {
				return nil, err
			}
		}
		if err := layer(node.With); err != nil {
			return nil, err
		}
	}

	if err := layer(localOps); err != nil {
		return nil, err
	}

	return ctx, nil
}

// foldComposite runs spec §4.8 Phase 4's fold: each graph node's
// Intermediate is merged into a fresh composite FS in Phase 3's post
// order (sources before the nodes that reference them, so a node's own
// content naturally overrides what its sources contributed), then that
// node's deferred merge operators run against the composite
// (Source=node's own Intermediate, Dest=composite).
func foldComposite(order []int, g *graph.Graph) (*memfs.FS, map[string]bool, []Warning, error) {
	composite := memfs.New()
	tagged := make(map[string]bool)
	var warnings []Warning

	for _, idx := range order {
		node := g.Node(idx)

		for _, c := range composite.MergeFrom(node.Intermediate) {
			warnings = append(warnings, Warning{
				Kind:    "MergeConflict",
				Path:    c.Path,
				Message: fmt.Sprintf("%s overwrote %s at %s", node.Label(), c.LeftOrigin, c.Path),
			})
		}
		for key := range node.Tagged {
			tagged[key] = true
		}

		for _, merge := range node.DeferredMerges {
			ctx := operators.MergeContext{Source: node.Intermediate, Dest: composite}
			if err := applyMerge(ctx, merge); err != nil {
				return nil, nil, nil, clierr.New(clierr.KindOperator, clierr.Origin{Operator: string(merge.Format), RepoChain: node.AncestorChain}, "apply deferred merge operation", err)
			}
		}
	}

	return composite, tagged, warnings, nil
}

// substituteTagged resolves every ${...} token in the files named by
// tagged against ctx, falling back to the process environment (spec
// §4.3, §4.8 Phase 4: "substitution happens once all sources and the
// local configuration have contributed their template_vars").
func substituteTagged(fs *memfs.FS, tagged map[string]bool, ctx *template.Context, getenv template.Getenv) error {
	for path := range tagged {
		f, ok := fs.Get(path)
		if !ok {
			continue
		}
		resolved, err := template.Substitute(string(f.Content), path, ctx, getenv)
		if err != nil {
			return clierr.New(clierr.KindTemplate, clierr.Origin{File: path}, "substitute template variables", err)
		}
		f.Content = []byte(resolved)
		if err := fs.Set(path, f); err != nil {
			return err
		}
	}
	return nil
}
