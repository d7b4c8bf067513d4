package operators

import (
	"fmt"

	"github.com/gizzahub/common-repo/internal/config"
)

// applyInclude copies every file in st.Source matching any of op's
// patterns into st.Working, per spec §4.4: "For each pattern, copy
// matching files from a source surface ... into the MemFS."
func applyInclude(st *State, op *config.PatternsOp) error {
	if op == nil {
		return nil
	}

	for _, p := range st.Source.ListAny(op.Patterns) {
		f, ok := st.Source.Get(p)
		if !ok {
			continue
		}
		f.Origin = "include"
		if err := st.Working.Set(p, f); err != nil {
			return fmt.Errorf("include %q: %w", p, err)
		}
	}
	return nil
}
