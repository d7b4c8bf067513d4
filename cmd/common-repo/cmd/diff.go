package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gizzahub/common-repo/internal/cliutil"
)

var (
	diffSummary    bool
	diffWorkingDir string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show what apply would change on disk",
	Long: `diff composes the file tree the same way apply would and compares it
against --working-dir (default: the current directory) without writing
anything. Exit status is 1 if there are changes, 0 if the tree already
matches disk.`,
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().BoolVar(&diffSummary, "summary", false, "print only the per-status counts")
	diffCmd.Flags().StringVar(&diffWorkingDir, "working-dir", ".", "directory to compare the composed tree against")
}

type diffStatus string

const (
	diffAdded     diffStatus = "added"
	diffChanged   diffStatus = "changed"
	diffUnchanged diffStatus = "unchanged"
)

func runDiff(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	result, err := runPipeline(ctx)
	if err != nil {
		return err
	}
	printWarnings(result.Warnings)

	statuses := make(map[string]diffStatus, result.FS.Len())
	for _, p := range result.FS.Paths() {
		f, _ := result.FS.Get(p)
		dest := filepath.Join(diffWorkingDir, filepath.FromSlash(p))
		onDisk, readErr := os.ReadFile(dest)
		switch {
		case readErr != nil:
			statuses[p] = diffAdded
		case !bytes.Equal(onDisk, f.Content):
			statuses[p] = diffChanged
		default:
			statuses[p] = diffUnchanged
		}
	}

	paths := make([]string, 0, len(statuses))
	for p := range statuses {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	counts := map[diffStatus]int{}
	for _, p := range paths {
		counts[statuses[p]]++
	}

	if diffSummary {
		fmt.Printf("added: %d, changed: %d, unchanged: %d\n", counts[diffAdded], counts[diffChanged], counts[diffUnchanged])
	} else {
		for _, p := range paths {
			if statuses[p] == diffUnchanged {
				continue
			}
			fmt.Println(cliutil.FormatEntry(p, diffActionFor(statuses[p])))
		}
	}

	if counts[diffAdded]+counts[diffChanged] > 0 {
		return errDiffChanges
	}
	return nil
}

func diffActionFor(s diffStatus) string {
	if s == diffAdded {
		return "write"
	}
	return "dry-run"
}

// errDiffChanges is diff's sentinel for "there are changes": exit status
// 1 with no message, distinct from every other command's error-kind
// mapping in exitCodeFor.
var errDiffChanges = errSilent("changes present")

type errSilent string

func (e errSilent) Error() string { return "" }
