// Package cmd implements the CLI commands for common-repo.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// appVersion is set by main.go via Execute.
	appVersion string

	// Global flags, shared by every subcommand.
	flagConfig    string
	flagVerbose   bool
	flagQuiet     bool
	flagCacheRoot string
)

var rootCmd = &cobra.Command{
	Use:   "common-repo",
	Short: "Compose a repository's files from pinned references to other repositories",
	Long: `common-repo fetches pinned Git references, applies filtering and
structured-merge operations to their contents, and writes a composed file
tree — the way a shared CI workflow, linter config, or doc fragment is kept
in one place and pulled into many repositories.`,
	Version:       appVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs rootCmd (each subcommand file adds itself to rootCmd in its
// own init) and exits with exitCodeFor's code on error. Called once from
// main.main.
func Execute(version string) {
	appVersion = version
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to the configuration file (default: $COMMON_REPO_CONFIG or .common-repo.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagCacheRoot, "cache-root", "", "repository cache directory (default: $COMMON_REPO_CACHE or the platform cache dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "quiet output (errors only)")
}
