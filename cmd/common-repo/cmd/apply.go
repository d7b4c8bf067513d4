package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/gizzahub/common-repo/internal/clierr"
	"github.com/gizzahub/common-repo/internal/cliutil"
	"github.com/gizzahub/common-repo/internal/cliutil/progress"
	"github.com/gizzahub/common-repo/internal/diskwriter"
	"github.com/gizzahub/common-repo/internal/gitrepo"
	"github.com/gizzahub/common-repo/internal/pipeline"
)

var (
	applyOutput  string
	applyDryRun  bool
	applyForce   bool
	applyNoCache bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run the full composition pipeline and write the result to disk",
	Long: `apply runs all six phases — fetch, per-node operations, composite
fold, local fold, and disk materialization — and writes the resulting file
tree to --output (default: the current directory).`,
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVarP(&applyOutput, "output", "o", ".", "output directory")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "report what would be written without touching disk")
	applyCmd.Flags().BoolVar(&applyForce, "force", false, "overwrite existing files")
	applyCmd.Flags().BoolVar(&applyNoCache, "no-cache", false, "bypass the repository cache")
}

func runApply(cmd *cobra.Command, args []string) error {
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
	if applyNoCache {
		mgr = gitrepo.NewManager(mgr.Git, gitrepo.NoCache{}, log)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return clierr.New(clierr.KindUsage, clierr.Origin{}, "resolve working directory", err)
	}

	p := pipeline.New(mgr, cwd)

	var result *pipeline.Result
	if !flagQuiet && isatty.IsTerminal(os.Stdout.Fd()) {
		sink, events := progress.NewSink()
		p.Progress = sink

		done := make(chan struct{})
		go func() {
			progress.RunTTY(events)
			close(done)
		}()
		result, err = p.Run(ctx, local)
		<-done
	} else if !flagQuiet {
		sink, events := progress.NewSink()
		p.Progress = sink
		done := make(chan struct{})
		go func() {
			progress.RunPlain(events)
			close(done)
		}()
		result, err = p.Run(ctx, local)
		<-done
	} else {
		result, err = p.Run(ctx, local)
	}
	if err != nil {
		return err
	}

	printWarnings(result.Warnings)

	writer := diskwriter.New()
	writeResult, err := writer.Write(ctx, result.FS, applyOutput, diskwriter.WriteOptions{
		DryRun: applyDryRun,
		Force:  applyForce,
	})
	if err != nil {
		return clierr.New(clierr.KindWrite, clierr.Origin{}, "write output tree", err)
	}

	for _, e := range writeResult.Entries {
		fmt.Println(cliutil.FormatEntry(e.Path, e.Action))
	}

	return nil
}

// signalContext returns a context canceled on SIGINT/SIGTERM, the same
// interrupt-handling shape every long-running teacher command uses.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}
