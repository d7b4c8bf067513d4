package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gizzahub/common-repo/internal/memfs"
)

var (
	lsPattern string
	lsLong    bool
	lsCount   bool
	lsSort    string
	lsReverse bool
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the composed file tree's contents",
	Long: `ls runs the full composition pipeline (fetch through the local fold)
and lists the resulting paths, without writing anything to disk.`,
	RunE: runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().StringVarP(&lsPattern, "pattern", "p", "", "only list paths matching this glob")
	lsCmd.Flags().BoolVarP(&lsLong, "long", "l", false, "show file size alongside each path")
	lsCmd.Flags().BoolVar(&lsCount, "count", false, "print only the matching path count")
	lsCmd.Flags().StringVar(&lsSort, "sort", "name", "sort order: name|size|path")
	lsCmd.Flags().BoolVarP(&lsReverse, "reverse", "r", false, "reverse sort order")
}

func runLs(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	result, err := runPipeline(ctx)
	if err != nil {
		return err
	}
	printWarnings(result.Warnings)

	paths := result.FS.Paths()
	if lsPattern != "" {
		paths = filterPaths(paths, lsPattern)
	}
	sortPaths(result.FS, paths, lsSort, lsReverse)

	if lsCount {
		fmt.Println(len(paths))
		return nil
	}

	for _, p := range paths {
		if lsLong {
			f, _ := result.FS.Get(p)
			fmt.Printf("%8d  %s\n", len(f.Content), p)
			continue
		}
		fmt.Println(p)
	}
	return nil
}

func filterPaths(paths []string, pattern string) []string {
	var out []string
	for _, p := range paths {
		if memfs.MatchGlob(pattern, p) {
			out = append(out, p)
		}
	}
	return out
}

func sortPaths(fs *memfs.FS, paths []string, by string, reverse bool) {
	less := func(i, j int) bool { return paths[i] < paths[j] }
	switch by {
	case "size":
		less = func(i, j int) bool {
			a, _ := fs.Get(paths[i])
			b, _ := fs.Get(paths[j])
			return len(a.Content) < len(b.Content)
		}
	case "path", "name":
		// default lexical order above
	}
	sort.Slice(paths, less)
	if reverse {
		for i, j := 0, len(paths)-1; i < j; i, j = i+1, j-1 {
			paths[i], paths[j] = paths[j], paths[i]
		}
	}
}
