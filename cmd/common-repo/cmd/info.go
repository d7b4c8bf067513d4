package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	commonrepo "github.com/gizzahub/common-repo"
	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/pipeline"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Report the current configuration: repos, refs, variables, tools (other operations are not listed)",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	local, err := loadLocalConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	mgr, err := newManager(log)
	if err != nil {
		return err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	p := pipeline.New(mgr, cwd)
	g, err := p.Discover(ctx, local)
	if err != nil {
		return err
	}

	root, err := cacheRoot()
	if err != nil {
		return err
	}

	fmt.Printf("common-repo %s\n", commonrepo.ShortVersion())
	fmt.Printf("configuration: %s\n", configPath())
	fmt.Printf("cache root:    %s\n", root)
	fmt.Printf("repo nodes:    %d\n", len(g.Nodes))

	for _, idx := range g.Roots {
		node := g.Node(idx)
		fmt.Printf("  - %s\n", node.Label())
	}

	vars := collectTemplateVars(local.Operations)
	if len(vars) > 0 {
		fmt.Println("template variables:")
		keys := make([]string, 0, len(vars))
		for k := range vars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", k, vars[k])
		}
	}

	tools := collectTools(local.Operations)
	if len(tools) > 0 {
		fmt.Println("required tools:")
		keys := make([]string, 0, len(tools))
		for k := range tools {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %s %s\n", k, tools[k])
		}
	}

	return nil
}

func collectTemplateVars(ops []config.Operation) map[string]string {
	out := map[string]string{}
	for _, op := range ops {
		if op.Kind == config.OpTemplateVars && op.TemplateVars != nil {
			for _, kv := range op.TemplateVars.Entries {
				out[kv.Key] = kv.Value
			}
		}
		if op.Kind == config.OpRepo && op.Repo != nil {
			for k, v := range collectTemplateVars(op.Repo.With) {
				out[k] = v
			}
		}
	}
	return out
}

func collectTools(ops []config.Operation) map[string]string {
	out := map[string]string{}
	for _, op := range ops {
		if op.Kind == config.OpTools && op.Tools != nil {
			for _, kv := range op.Tools.Entries {
				out[kv.Key] = kv.Value
			}
		}
		if op.Kind == config.OpRepo && op.Repo != nil {
			for k, v := range collectTools(op.Repo.With) {
				out[k] = v
			}
		}
	}
	return out
}
