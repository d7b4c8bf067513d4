package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gizzahub/common-repo/internal/clierr"
	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/semver"
)

var (
	updateCompatible bool
	updateLatest     bool
	updateDryRun     bool
	updateYes        bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Bump pinned repo refs to newer semver tags",
	Long: `update resolves, for every repo operation pinned to a semver tag,
the highest available tag (--compatible, the default, stays within the
current major; --latest considers every greater tag) and rewrites the
configuration file in place.`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolVar(&updateCompatible, "compatible", false, "only bump within the current major version (default)")
	updateCmd.Flags().BoolVar(&updateLatest, "latest", false, "bump to the latest tag regardless of major version")
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "report available bumps without editing the configuration file")
	updateCmd.Flags().BoolVar(&updateYes, "yes", false, "apply without an interactive confirmation")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	scope := semver.Compatible
	if updateLatest {
		scope = semver.Latest
	}

	path := configPath()
	raw, err := os.ReadFile(path)
	if err != nil {
		return clierr.New(clierr.KindUsage, clierr.Origin{File: path}, "read configuration file", err)
	}

	local, err := config.Parse(raw, path)
	if err != nil {
		return err
	}

	log := newLogger()
	mgr, err := newManager(log)
	if err != nil {
		return err
	}

	bumps, err := collectBumps(ctx, mgr.ListRefs, local.Operations, scope)
	if err != nil {
		return err
	}

	if len(bumps) == 0 {
		fmt.Println("nothing to update")
		return nil
	}

	for _, b := range bumps {
		fmt.Printf("%s: %s -> %s\n", b.url, b.from, b.to)
	}

	if updateDryRun {
		return nil
	}

	if !updateYes {
		var confirmed bool
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Apply %d ref update(s) to %s?", len(bumps), path)).
			Value(&confirmed)
		if err := prompt.Run(); err != nil {
			return clierr.New(clierr.KindUsage, clierr.Origin{}, "read confirmation", err)
		}
		if !confirmed {
			fmt.Println("aborted")
			return nil
		}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return clierr.New(clierr.KindConfigParse, clierr.Origin{File: path}, "re-parse configuration for editing", err)
	}
	for _, b := range bumps {
		rewriteRef(&doc, b.url, b.from, b.to)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return clierr.New(clierr.KindConfigParse, clierr.Origin{File: path}, "marshal updated configuration", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return clierr.New(clierr.KindWrite, clierr.Origin{File: path}, "write updated configuration", err)
	}

	fmt.Printf("updated %d reference(s) in %s\n", len(bumps), path)
	return nil
}

type refBump struct {
	url, from, to string
}

func collectBumps(ctx context.Context, listRefs listRefsFunc, ops []config.Operation, scope semver.Scope) ([]refBump, error) {
	var out []refBump
	for _, op := range ops {
		if op.Kind != config.OpRepo {
			continue
		}
		repo := op.Repo

		if _, ok := semver.ParseTag(repo.Ref); ok {
			tags, err := listRefs(ctx, repo.URL)
			if err != nil {
				return nil, err
			}
			if tag, ok := semver.Resolve(tags, repo.Ref, scope); ok && tag != repo.Ref {
				out = append(out, refBump{url: repo.URL, from: repo.Ref, to: tag})
			}
		}

		nested, err := collectBumps(ctx, listRefs, repo.With, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}
	return out, nil
}

// rewriteRef walks a parsed yaml.Node document looking for a mapping with
// a "url" scalar that canonicalizes to url (the form config.Parse stores)
// and a "ref" scalar equal to from, and rewrites that ref scalar's value
// to to. Editing the Node tree in place (rather than re-encoding the
// decoded config.Configuration) keeps comments and key order; yaml.Marshal
// still normalizes indentation when the tree is written back.
func rewriteRef(node *yaml.Node, url, from, to string) {
	if node.Kind == yaml.MappingNode {
		var urlValue, refValue *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			switch key.Value {
			case "url":
				urlValue = val
			case "ref":
				refValue = val
			}
		}
		if urlValue != nil && refValue != nil && config.CanonicalizeURL(config.ExpandRepoURL(urlValue.Value)) == url && refValue.Value == from {
			refValue.Value = to
		}
	}
	for _, child := range node.Content {
		rewriteRef(child, url, from, to)
	}
}
