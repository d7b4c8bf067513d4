package operators

import "github.com/gizzahub/common-repo/internal/config"

// applyTemplateTag marks every currently-matching key as pending
// substitution at the composite stage, per spec §4.3: "actual
// substitution deferred to the composite stage so all variables are
// known."
func applyTemplateTag(st *State, op *config.PatternsOp) error {
	if op == nil {
		return nil
	}

	for _, p := range st.Working.ListAny(op.Patterns) {
		st.Tagged[p] = true
	}
	return nil
}
