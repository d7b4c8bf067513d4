// Package config implements the composition configuration model and
// parser: the ordered list of Operations that a .common-repo.yaml document
// describes (spec §3, §4.1).
package config

// OpKind enumerates the recognized operation keys.
type OpKind string

const (
	OpRepo         OpKind = "repo"
	OpInclude      OpKind = "include"
	OpExclude      OpKind = "exclude"
	OpRename       OpKind = "rename"
	OpTemplate     OpKind = "template"
	OpTemplateVars OpKind = "template_vars"
	OpTools        OpKind = "tools"
	OpYAML         OpKind = "yaml"
	OpJSON         OpKind = "json"
	OpTOML         OpKind = "toml"
	OpINI          OpKind = "ini"
	OpMarkdown     OpKind = "markdown"
)

// Operation is a tagged variant: exactly one of the payload fields is
// populated, selected by Kind.
type Operation struct {
	Kind OpKind

	Repo         *RepoOp
	Include      *PatternsOp
	Exclude      *PatternsOp
	Rename       *RenameOp
	Template     *PatternsOp
	TemplateVars *TemplateVarsOp
	Tools        *ToolsOp
	Merge        *MergeOp // shared by yaml/json/toml/ini/markdown

	// Location records where this operation came from, for error origin
	// annotation (spec §7).
	Location Location
}

// Location identifies the configuration site that produced a value.
type Location struct {
	File  string
	Index int
}

// RepoOp is the `repo` operation: a reference to a remote repository.
type RepoOp struct {
	URL  string
	Ref  string
	Path string // optional subpath within the repo
	With []Operation
}

// PatternsOp backs include/exclude/template, each of which is just a list
// of glob patterns.
type PatternsOp struct {
	Patterns []string
}

// RenameEntry is one regex->template pair in a rename operation.
type RenameEntry struct {
	Pattern string
	Target  string
}

// RenameOp is the `rename` operation: an ordered list of regex->template
// rules.
type RenameOp struct {
	Entries []RenameEntry
}

// TemplateVarsOp is the `template_vars` operation: a map contributed to the
// TemplateContext. Order matters for same-operator overrides, so entries
// are kept as an ordered slice rather than a map.
type TemplateVarsOp struct {
	Entries []KV
}

// KV is an ordered key/value pair.
type KV struct {
	Key   string
	Value string
}

// ToolsOp is the `tools` operation: required tool name -> version
// constraint expression.
type ToolsOp struct {
	Entries []KV
}

// ArrayMode controls how arrays are combined during a structured merge.
type ArrayMode string

const (
	ArrayReplace      ArrayMode = "replace"
	ArrayAppend       ArrayMode = "append"
	ArrayAppendUnique ArrayMode = "append_unique"
)

// MergeOp is the shared payload for yaml/json/toml/ini/markdown structured
// merge operators (spec §4.5).
type MergeOp struct {
	Format Format

	Source string
	Dest   string
	Path   string

	ArrayMode ArrayMode

	// JSON-specific
	Append   bool
	Position Position

	// INI-specific
	Section         string
	AllowDuplicates bool

	// Markdown-specific
	Level         int
	CreateSection bool

	// TOML-specific
	PreserveComments bool

	// Defer means this operator does not run in the repo's own composite;
	// it runs only when this repo is consumed as a source by another
	// (spec §4.5, "deferred operators").
	Defer bool

	// AutoMerge records the original `auto-merge: X` shorthand, if used,
	// purely for round-tripping/diagnostics.
	AutoMerge string
}

// Format identifies which structured-merge dialect a MergeOp uses.
type Format string

const (
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatTOML     Format = "toml"
	FormatINI      Format = "ini"
	FormatMarkdown Format = "markdown"
)

// Position is the start|end option used by append-capable merges.
type Position string

const (
	PositionStart Position = "start"
	PositionEnd   Position = "end"
)

// Configuration is an ordered sequence of Operations. Order is
// semantically significant.
type Configuration struct {
	Operations []Operation
}
