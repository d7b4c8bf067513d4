package operators

import (
	"fmt"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/template"
)

// applyTemplateVars resolves op's values against the process environment
// and layers them onto st.Vars, later keys winning within the same
// operator, per spec §4.3.
func applyTemplateVars(st *State, op *config.TemplateVarsOp, getenv template.Getenv) error {
	if op == nil {
		return nil
	}
	return LayerTemplateVars(st.Vars, op, getenv)
}

// LayerTemplateVars resolves op's values against getenv and layers them
// onto ctx, later keys winning within the same operator (spec §4.3). It
// is exported so the composite-stage cascading walk (spec §4.3: "as the
// walk visits a node, its template_vars are layered on top of the
// inherited map") can drive the same resolution logic across node
// boundaries, not just within one node's own State.
func LayerTemplateVars(ctx *template.Context, op *config.TemplateVarsOp, getenv template.Getenv) error {
	if op == nil {
		return nil
	}
	for _, kv := range op.Entries {
		resolved, err := template.ResolveVarValue(kv.Value, getenv)
		if err != nil {
			return fmt.Errorf("template_vars %q: %w", kv.Key, err)
		}
		ctx.Set(kv.Key, resolved)
	}
	return nil
}
