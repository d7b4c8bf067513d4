package operators

import "github.com/gizzahub/common-repo/internal/config"

// applyExclude removes every key of st.Working matching any of op's
// patterns, per spec §4.4.
func applyExclude(st *State, op *config.PatternsOp) error {
	if op == nil {
		return nil
	}

	for _, p := range st.Working.ListAny(op.Patterns) {
		st.Working.Remove(p)
		delete(st.Tagged, p)
	}
	return nil
}
