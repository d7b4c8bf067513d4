// Package operators implements the per-operator contract of spec §4.4:
// input MemFS + operator parameters (+ TemplateContext for template-aware
// operators), output MemFS + emitted warnings. Structured-merge operators
// (yaml/json/toml/ini/markdown) live in the sibling yamlmerge/jsonmerge/
// tomlmerge/inimerge/mdmerge packages; this package holds include,
// exclude, rename, template, template_vars, and tools.
package operators

import (
	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/memfs"
	"github.com/gizzahub/common-repo/internal/template"
)

// Warning is a non-fatal diagnostic surfaced by an operator, per spec §7
// (MergeConflictWarning, StaleCacheWarning, and friends all follow this
// shape at the operator layer).
type Warning struct {
	Kind    string
	Path    string
	Message string
}

// State is the working set threaded through a RepoNode's (or the local
// configuration's) operation list as each operator is applied in
// declaration order.
type State struct {
	// Working is the IntermediateFS under construction.
	Working *memfs.FS

	// Source is the raw surface include() copies from: the repo's fetched
	// tree in Phase 2, or the local working directory's tree in Phase 5.
	Source *memfs.FS

	// Vars is the accumulated TemplateContext, cascaded per spec §4.3.
	Vars *template.Context

	// Tagged records keys marked by a template() operator for deferred
	// substitution at the composite stage (Phase 4).
	Tagged map[string]bool

	Warnings []Warning
}

// NewState creates a State ready to receive operators, sourced from
// source (the node's raw fetched/loaded tree) and seeded with the
// inherited TemplateContext vars.
func NewState(source *memfs.FS, vars *template.Context) *State {
	return &State{
		Working: memfs.New(),
		Source:  source,
		Vars:    vars,
		Tagged:  make(map[string]bool),
	}
}

func (s *State) warn(kind, path, message string) {
	s.Warnings = append(s.Warnings, Warning{Kind: kind, Path: path, Message: message})
}

// Apply dispatches op to its operator implementation. deps carries the
// side-channel collaborators (environment lookup, PATH probing) that pure
// operator logic doesn't need but tools/template_vars do.
func Apply(st *State, op config.Operation, deps Deps) error {
	switch op.Kind {
	case config.OpInclude:
		return applyInclude(st, op.Include)
	case config.OpExclude:
		return applyExclude(st, op.Exclude)
	case config.OpRename:
		return applyRename(st, op.Rename)
	case config.OpTemplate:
		return applyTemplateTag(st, op.Template)
	case config.OpTemplateVars:
		return applyTemplateVars(st, op.TemplateVars, deps.Getenv)
	case config.OpTools:
		applyTools(st, op.Tools, deps.ToolVersion)
		return nil
	default:
		// yaml/json/toml/ini/markdown and repo are handled by their own
		// callers (structured-merge operators and the graph builder,
		// respectively); Apply only covers the MemFS-local operators.
		return nil
	}
}

// Deps bundles the environment-facing collaborators operators need,
// injectable for testing.
type Deps struct {
	Getenv      template.Getenv
	ToolVersion ToolVersionFunc
}

// DefaultDeps wires the real process environment and PATH.
func DefaultDeps() Deps {
	return Deps{
		Getenv:      template.OSGetenv,
		ToolVersion: LookPathVersion,
	}
}
