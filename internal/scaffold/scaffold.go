// Package scaffold provides embedded .common-repo.yaml templates for the
// `init` CLI subcommand. Templates are compiled into the binary
// with Go's embed package and rendered with text/template, the same
// approach the teacher's pkg/templates package uses for its own
// repositories/workspace config generation.
package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed *.yaml
var templateFS embed.FS

// Name identifies one of the available starter templates.
type Name string

const (
	// Basic scaffolds a single `repo` reference with an include list —
	// the minimal case `init` offers when a user supplies one URL.
	Basic Name = "basic.yaml"

	// WithRename scaffolds a single `repo` reference plus an exclude
	// pattern, a rename rule, and a template_vars block, for users who
	// ask `init` to generate a fuller starting point.
	WithRename Name = "with-rename.yaml"

	// LocalOnly scaffolds a configuration with no `repo` operations at
	// all, for a local-files-only common-repo setup.
	LocalOnly Name = "local-only.yaml"

	// MultiRepo scaffolds two `repo` references plus a template_vars
	// block.
	MultiRepo Name = "multi-repo.yaml"
)

// List returns every available template name.
func List() []Name {
	return []Name{Basic, WithRename, LocalOnly, MultiRepo}
}

// BasicData is the data for the Basic template.
type BasicData struct {
	URL      string
	Ref      string
	Patterns []string
}

// WithRenameData is the data for the WithRename template.
type WithRenameData struct {
	URL         string
	Ref         string
	Patterns    []string
	ProjectName string
}

// LocalOnlyData is the data for the LocalOnly template.
type LocalOnlyData struct {
	Patterns    []string
	ProjectName string
}

// MultiRepoData is the data for the MultiRepo template.
type MultiRepoData struct {
	PrimaryURL   string
	PrimaryRef   string
	SecondaryURL string
	SecondaryRef string
	ProjectName  string
}

// Render renders the named template with data, returning the generated
// .common-repo.yaml document text.
func Render(name Name, data any) (string, error) {
	content, err := templateFS.ReadFile(string(name))
	if err != nil {
		return "", fmt.Errorf("read scaffold template %s: %w", name, err)
	}

	tmpl, err := template.New(string(name)).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("parse scaffold template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute scaffold template %s: %w", name, err)
	}
	return buf.String(), nil
}
