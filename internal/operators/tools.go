package operators

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/gizzahub/common-repo/internal/config"
)

// ToolVersionFunc reports the installed version string of a named tool,
// and whether it was found on PATH at all.
type ToolVersionFunc func(name string) (installedVersion string, found bool)

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?(-[0-9A-Za-z.]+)?`)

// LookPathVersion is the default ToolVersionFunc: it resolves name on
// PATH via os/exec (the same wrapping the teacher's internal/gitcmd uses
// for the git binary) and extracts the first semver-looking token from
// "<name> --version"'s combined output.
func LookPathVersion(name string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}

	out, _ := exec.Command(path, "--version").CombinedOutput()
	match := versionPattern.FindString(string(out))
	if match == "" {
		return "", true // present on PATH, version undeterminable
	}
	return match, true
}

// applyTools validates each required tool is present and satisfies its
// constraint, per spec §4.4: "failures are surfaced as warnings, not hard
// errors."
func applyTools(st *State, op *config.ToolsOp, toolVersion ToolVersionFunc) {
	if op == nil {
		return
	}

	for _, kv := range op.Entries {
		name, constraintExpr := kv.Key, kv.Value

		installed, found := toolVersion(name)
		if !found {
			st.warn("ToolMissing", name, fmt.Sprintf("required tool %q not found on PATH", name))
			continue
		}

		if strings.TrimSpace(constraintExpr) == "" {
			continue
		}

		constraint, err := version.NewConstraint(constraintExpr)
		if err != nil {
			st.warn("ToolConstraintInvalid", name, fmt.Sprintf("tool %q: invalid constraint %q: %v", name, constraintExpr, err))
			continue
		}

		if installed == "" {
			st.warn("ToolVersionUnknown", name, fmt.Sprintf("tool %q: could not determine installed version to check constraint %q", name, constraintExpr))
			continue
		}

		installedVersion, err := version.NewVersion(installed)
		if err != nil {
			st.warn("ToolVersionUnknown", name, fmt.Sprintf("tool %q: unparseable version %q", name, installed))
			continue
		}

		if !constraint.Check(installedVersion) {
			st.warn("ToolVersionMismatch", name, fmt.Sprintf("tool %q: installed version %s does not satisfy %q", name, installed, constraintExpr))
		}
	}
}
