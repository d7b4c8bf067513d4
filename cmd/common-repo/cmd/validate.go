package cmd

import (
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/gizzahub/common-repo/internal/clierr"
	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/pipeline"
)

var (
	validateCheckRepos bool
	validateStrict     bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a configuration file for structural and semantic errors",
	Long: `validate parses the configuration (structural errors surface here:
missing repo.url/ref, malformed YAML, invalid rename regex patterns) and
then compiles every rename operation's regex patterns a second time.
With --check-repos it also runs the full pipeline, so an unreachable
repo or reference-resolution cycle surfaces here instead of at apply
time. --strict turns pipeline warnings (merge conflicts, stale-cache
fallbacks) into failures.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateCheckRepos, "check-repos", false, "also run the full pipeline against every repo reference")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat pipeline warnings as failures")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	local, err := loadLocalConfig()
	if err != nil {
		return err
	}

	if err := validateOperations(local.Operations); err != nil {
		return err
	}

	if !validateCheckRepos {
		fmt.Println("configuration OK")
		return nil
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
	result, err := p.Run(ctx, local)
	if err != nil {
		return err
	}

	if validateStrict && len(result.Warnings) > 0 {
		printWarnings(result.Warnings)
		return clierr.New(clierr.KindOperator, clierr.Origin{}, fmt.Sprintf("%d warning(s) treated as failures under --strict", len(result.Warnings)), nil)
	}

	printWarnings(result.Warnings)
	fmt.Println("configuration OK")
	return nil
}

// validateOperations recursively compiles every rename operation's regex
// patterns, repeating the check config.Parse already makes when it
// decodes rename entries.
func validateOperations(ops []config.Operation) error {
	for _, op := range ops {
		switch op.Kind {
		case config.OpRepo:
			if op.Repo != nil {
				if err := validateOperations(op.Repo.With); err != nil {
					return err
				}
			}
		case config.OpRename:
			if op.Rename == nil {
				continue
			}
			for _, e := range op.Rename.Entries {
				if _, err := regexp.Compile(e.Pattern); err != nil {
					return clierr.New(clierr.KindConfigParse, clierr.Origin{File: op.Location.File, Index: op.Location.Index, Operator: "rename"}, fmt.Sprintf("invalid rename pattern %q", e.Pattern), err)
				}
			}
		}
	}
	return nil
}
