package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gizzahub/common-repo/internal/clierr"
)

var addCmd = &cobra.Command{
	Use:   "add URI",
	Short: "Append a repo operation to an existing .common-repo.yaml",
	Long: `add appends a new top-level repo operation, pinned to the highest
semver tag found on the remote (or "main" if none), to an
existing canonical-shape configuration file.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	url := args[0]
	path := configPath()

	raw, err := os.ReadFile(path)
	if err != nil {
		return clierr.New(clierr.KindUsage, clierr.Origin{File: path}, "read configuration file (use `init` to create one)", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return clierr.New(clierr.KindConfigParse, clierr.Origin{File: path}, "parse configuration for editing", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.SequenceNode {
		return clierr.New(clierr.KindUsage, clierr.Origin{File: path}, "add only supports the canonical sequence-of-operations configuration shape", nil)
	}
	seq := doc.Content[0]

	var patternsRaw string
	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Files to include from " + url).
			Description("comma-separated globs").
			Placeholder("**/*").
			Value(&patternsRaw),
	)).Run(); err != nil {
		return clierr.New(clierr.KindUsage, clierr.Origin{}, "read add form", err)
	}

	ref := resolveDefaultRef(url)
	patterns := splitPatterns(patternsRaw)

	entrySnippet := buildRepoEntrySnippet(url, ref, patterns)
	var entryDoc yaml.Node
	if err := yaml.Unmarshal([]byte(entrySnippet), &entryDoc); err != nil {
		return clierr.New(clierr.KindTemplate, clierr.Origin{}, "render new repo entry", err)
	}
	newSeq := entryDoc.Content[0]
	seq.Content = append(seq.Content, newSeq.Content...)

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return clierr.New(clierr.KindConfigParse, clierr.Origin{File: path}, "marshal updated configuration", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return clierr.New(clierr.KindWrite, clierr.Origin{File: path}, "write configuration file", err)
	}

	fmt.Printf("added %s@%s to %s\n", url, ref, path)
	return nil
}

func buildRepoEntrySnippet(url, ref string, patterns []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- repo:\n    url: %q\n    ref: %q\n    with:\n      - include:\n", url, ref)
	for _, p := range patterns {
		fmt.Fprintf(&b, "          - %q\n", p)
	}
	return b.String()
}
