package operators

import (
	"fmt"
	"regexp"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/memfs"
)

// applyRename compiles op's regex->template entries and applies them
// atomically against st.Working in declaration order, per spec §4.4: "An
// entry that would rename onto an existing key overwrites last-write-wins
// and emits a conflict warning."
func applyRename(st *State, op *config.RenameOp) error {
	if op == nil {
		return nil
	}

	rules := make([]memfs.RenameRule, 0, len(op.Entries))
	for _, e := range op.Entries {
		re, err := regexp.Compile(e.Pattern)
		if err != nil {
			return fmt.Errorf("rename: invalid pattern %q: %w", e.Pattern, err)
		}
		rules = append(rules, memfs.RenameRule{Pattern: re, Target: e.Target})
	}

	results, err := st.Working.Rename(rules)
	if err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	for _, r := range results {
		if tagged := st.Tagged[r.From]; tagged {
			delete(st.Tagged, r.From)
			st.Tagged[r.To] = true
		}
		if r.Collision {
			st.warn("RenameCollision", r.To, fmt.Sprintf("rename %q -> %q overwrote an existing file", r.From, r.To))
		}
	}
	return nil
}
