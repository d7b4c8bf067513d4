package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/gizzahub/common-repo/internal/clierr"
	"github.com/gizzahub/common-repo/internal/scaffold"
	"github.com/gizzahub/common-repo/internal/semver"
)

// defaultRefTimeout bounds the remote tag lookup init/add do to preselect
// a default ref, so a slow or unreachable host doesn't hang the wizard.
const defaultRefTimeout = 10 * time.Second

var initCmd = &cobra.Command{
	Use:   "init [URI]",
	Short: "Interactively scaffold a new .common-repo.yaml",
	Long: `init walks through a short form (repo URL, files to include, whether
to rename files) and writes a starter configuration file pinned to the
highest semver tag found on the remote, or "main" if there is none. If URI is given it's used to
pre-fill the repo URL; otherwise init asks for it. init refuses to
overwrite an existing configuration file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil {
		return clierr.New(clierr.KindUsage, clierr.Origin{File: path}, "configuration file already exists, use `add` to extend it", nil)
	}

	var url string
	if len(args) == 1 {
		url = args[0]
	}

	var patternsRaw string
	var withRename bool
	var projectName string

	fields := []huh.Field{
		huh.NewInput().
			Title("Repository URL").
			Description("Git URL or owner/repo short form").
			Value(&url),
		huh.NewInput().
			Title("Files to include").
			Description("comma-separated globs").
			Placeholder("**/*").
			Value(&patternsRaw),
		huh.NewConfirm().
			Title("Rename files on the way in?").
			Affirmative("Yes").
			Negative("No").
			Value(&withRename),
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return clierr.New(clierr.KindUsage, clierr.Origin{}, "read init form", err)
	}

	ref := resolveDefaultRef(url)
	patterns := splitPatterns(patternsRaw)

	var rendered string
	var err error
	if withRename {
		if err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Project name").Description("stored as the project_name template variable").Value(&projectName),
		)).Run(); err != nil {
			return clierr.New(clierr.KindUsage, clierr.Origin{}, "read init form", err)
		}
		rendered, err = scaffold.Render(scaffold.WithRename, scaffold.WithRenameData{URL: url, Ref: ref, Patterns: patterns, ProjectName: projectName})
	} else {
		rendered, err = scaffold.Render(scaffold.Basic, scaffold.BasicData{URL: url, Ref: ref, Patterns: patterns})
	}
	if err != nil {
		return clierr.New(clierr.KindTemplate, clierr.Origin{}, "render starter configuration", err)
	}

	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return clierr.New(clierr.KindWrite, clierr.Origin{File: path}, "write configuration file", err)
	}

	fmt.Printf("wrote %s\n", path)
	return nil
}

// resolveDefaultRef picks the highest semver tag on url as init's default
// ref, falling back to semver.DefaultBranch when the repo can't be
// reached yet (offline scaffolding, a URL that doesn't exist yet).
func resolveDefaultRef(url string) string {
	if url == "" {
		return semver.DefaultBranch
	}
	log := newLogger()
	mgr, err := newManager(log)
	if err != nil {
		return semver.DefaultBranch
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultRefTimeout)
	defer cancel()
	tags, err := mgr.ListRefs(ctx, url)
	if err != nil {
		return semver.DefaultBranch
	}
	if semver.WarnsPreStable(tags) {
		log.Warn("%s has only 0.x.y versions; its API may change before 1.0", url)
	}
	if tag, ok := semver.HighestSemver(tags); ok {
		return tag
	}
	return semver.DefaultBranch
}

func splitPatterns(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"**/*"}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"**/*"}
	}
	return out
}
