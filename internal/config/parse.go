package config

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// recognizedKeys lists the operation keys the parser accepts, used for the
// "exactly one recognized operation key" validation rule.
var recognizedKeys = map[string]OpKind{
	"repo":          OpRepo,
	"include":       OpInclude,
	"exclude":       OpExclude,
	"rename":        OpRename,
	"template":      OpTemplate,
	"template_vars": OpTemplateVars,
	"tools":         OpTools,
	"yaml":          OpYAML,
	"json":          OpJSON,
	"toml":          OpTOML,
	"ini":           OpINI,
	"markdown":      OpMarkdown,
}

// legacyPluralKeys maps the legacy top-level map shape's plural key names
// to the operation they expand to, for backward compatibility (spec §4.1).
var legacyPluralKeys = map[string]OpKind{
	"repos": OpRepo,
}

// Parse decodes a YAML document into an ordered Operation list. Both the
// canonical shape (a top-level sequence of single-key maps) and the legacy
// shape (a top-level map) are accepted.
func Parse(data []byte, file string) (*Configuration, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Location: Location{File: file, Index: -1}, Message: "malformed YAML", Cause: err}
	}

	if len(root.Content) == 0 {
		return &Configuration{}, nil
	}

	doc := root.Content[0]

	switch doc.Kind {
	case yaml.SequenceNode:
		return parseCanonical(doc, file)
	case yaml.MappingNode:
		return parseLegacy(doc, file)
	default:
		return nil, newParseError(file, -1, "top-level document must be a sequence or a mapping")
	}
}

func parseCanonical(seq *yaml.Node, file string) (*Configuration, error) {
	cfg := &Configuration{}

	for i, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			return nil, newParseError(file, i, "operation entry must be a single-key mapping")
		}
		if len(item.Content) != 2 {
			return nil, newParseError(file, i, "operation entry must have exactly one key, got %d", len(item.Content)/2)
		}

		keyNode, valNode := item.Content[0], item.Content[1]
		op, err := decodeOperation(keyNode.Value, valNode, Location{File: file, Index: i})
		if err != nil {
			return nil, err
		}
		cfg.Operations = append(cfg.Operations, *op)
	}

	return cfg, nil
}

func parseLegacy(m *yaml.Node, file string) (*Configuration, error) {
	cfg := &Configuration{}

	for i := 0; i < len(m.Content); i += 2 {
		keyNode, valNode := m.Content[i], m.Content[i+1]
		idx := i / 2

		if kind, ok := legacyPluralKeys[keyNode.Value]; ok {
			if valNode.Kind != yaml.SequenceNode {
				return nil, newParseError(file, idx, "%q must be a list", keyNode.Value)
			}
			for j, entry := range valNode.Content {
				op, err := decodeOperation(string(kind), entry, Location{File: file, Index: idx})
				if err != nil {
					return nil, fmt.Errorf("%s[%d]: %w", keyNode.Value, j, err)
				}
				cfg.Operations = append(cfg.Operations, *op)
			}
			continue
		}

		op, err := decodeOperation(keyNode.Value, valNode, Location{File: file, Index: idx})
		if err != nil {
			return nil, err
		}
		cfg.Operations = append(cfg.Operations, *op)
	}

	return cfg, nil
}

func decodeOperation(key string, val *yaml.Node, loc Location) (*Operation, error) {
	kind, ok := recognizedKeys[key]
	if !ok {
		return nil, newParseError(loc.File, loc.Index, "unknown operation key %q", key)
	}

	op := &Operation{Kind: kind, Location: loc}

	switch kind {
	case OpRepo:
		var raw rawRepo
		if err := val.Decode(&raw); err != nil {
			return nil, newParseError(loc.File, loc.Index, "invalid repo operation: %v", err)
		}
		repoOp, err := raw.toRepoOp(loc)
		if err != nil {
			return nil, err
		}
		op.Repo = repoOp

	case OpInclude, OpExclude, OpTemplate:
		var patterns []string
		if err := val.Decode(&patterns); err != nil {
			return nil, newParseError(loc.File, loc.Index, "%s must be a list of patterns: %v", key, err)
		}
		for _, p := range patterns {
			if _, err := compileGlobCheck(p); err != nil {
				return nil, newParseError(loc.File, loc.Index, "invalid pattern %q: %v", p, err)
			}
		}
		target := &PatternsOp{Patterns: patterns}
		switch kind {
		case OpInclude:
			op.Include = target
		case OpExclude:
			op.Exclude = target
		case OpTemplate:
			op.Template = target
		}

	case OpRename:
		var raw []map[string]string
		if err := val.Decode(&raw); err != nil {
			return nil, newParseError(loc.File, loc.Index, "rename must be a list of pattern->template maps: %v", err)
		}
		entries, err := decodeRenameEntries(raw, loc)
		if err != nil {
			return nil, err
		}
		op.Rename = &RenameOp{Entries: entries}

	case OpTemplateVars:
		entries, err := decodeOrderedMap(val, loc)
		if err != nil {
			return nil, err
		}
		op.TemplateVars = &TemplateVarsOp{Entries: entries}

	case OpTools:
		entries, err := decodeOrderedMap(val, loc)
		if err != nil {
			return nil, err
		}
		for _, kv := range entries {
			if err := validateVersionConstraint(kv.Value); err != nil {
				return nil, newParseError(loc.File, loc.Index, "tool %q: %v", kv.Key, err)
			}
		}
		op.Tools = &ToolsOp{Entries: entries}

	case OpYAML, OpJSON, OpTOML, OpINI, OpMarkdown:
		merge, err := decodeMergeOp(Format(kind), val, loc)
		if err != nil {
			return nil, err
		}
		op.Merge = merge
	}

	return op, nil
}

type rawRepo struct {
	URL  string      `yaml:"url"`
	Ref  string      `yaml:"ref"`
	Path string      `yaml:"path"`
	With []yaml.Node `yaml:"with"`
}

func (r rawRepo) toRepoOp(loc Location) (*RepoOp, error) {
	if r.URL == "" {
		return nil, newParseError(loc.File, loc.Index, "repo.url is required")
	}
	if r.Ref == "" {
		return nil, newParseError(loc.File, loc.Index, "repo.ref is required")
	}

	repoOp := &RepoOp{
		URL:  CanonicalizeURL(ExpandRepoURL(r.URL)),
		Ref:  r.Ref,
		Path: r.Path,
	}

	for i := range r.With {
		item := &r.With[i]
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return nil, newParseError(loc.File, loc.Index, "repo.with entries must be single-key mappings")
		}
		op, err := decodeOperation(item.Content[0].Value, item.Content[1], loc)
		if err != nil {
			return nil, err
		}
		repoOp.With = append(repoOp.With, *op)
	}

	return repoOp, nil
}

func decodeRenameEntries(raw []map[string]string, loc Location) ([]RenameEntry, error) {
	var out []RenameEntry
	for _, m := range raw {
		for pattern, target := range m {
			if _, err := regexp.Compile(pattern); err != nil {
				return nil, newParseError(loc.File, loc.Index, "invalid rename regex %q: %v", pattern, err)
			}
			out = append(out, RenameEntry{Pattern: pattern, Target: target})
		}
	}
	return out, nil
}

func decodeOrderedMap(val *yaml.Node, loc Location) ([]KV, error) {
	if val.Kind != yaml.MappingNode {
		return nil, newParseError(loc.File, loc.Index, "expected a mapping")
	}

	var out []KV
	for i := 0; i < len(val.Content); i += 2 {
		k, v := val.Content[i], val.Content[i+1]
		out = append(out, KV{Key: k.Value, Value: v.Value})
	}
	return out, nil
}

func compileGlobCheck(pattern string) (bool, error) {
	// Glob patterns in this dialect never need compilation failures beyond
	// malformed input; empty patterns are rejected here since they cannot
	// match anything meaningful.
	if pattern == "" {
		return false, fmt.Errorf("empty pattern")
	}
	return true, nil
}

var constraintPattern = regexp.MustCompile(`^(\*|[~^]?\d+(\.\d+){0,2}|>=\d+(\.\d+){0,2})$`)

func validateVersionConstraint(expr string) error {
	if !constraintPattern.MatchString(expr) {
		return fmt.Errorf("invalid version constraint %q", expr)
	}
	return nil
}
