package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gizzahub/common-repo/internal/clierr"
	"github.com/gizzahub/common-repo/internal/gitrepo"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the repository cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached repository entries",
	RunE:  runCacheList,
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached repository entry",
	RunE:  runCacheClean,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	root, err := cacheRoot()
	if err != nil {
		return err
	}
	dc := gitrepo.NewDirCache(root)

	entries, err := dc.List()
	if err != nil {
		return clierr.New(clierr.KindCache, clierr.Origin{File: root}, "list cache entries", err)
	}
	if len(entries) == 0 {
		fmt.Println("cache is empty")
		return nil
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	for _, e := range entries {
		fmt.Printf("%s\tfiles=%d\tcaptured=%s\n", e.Key, e.FileCount, e.CapturedAt.Format("2006-01-02T15:04:05Z07:00"))
	}
	return nil
}

func runCacheClean(cmd *cobra.Command, args []string) error {
	root, err := cacheRoot()
	if err != nil {
		return err
	}
	dc := gitrepo.NewDirCache(root)

	entries, err := dc.List()
	if err != nil {
		return clierr.New(clierr.KindCache, clierr.Origin{File: root}, "list cache entries", err)
	}

	for _, e := range entries {
		if err := dc.Remove(e.Key); err != nil {
			return clierr.New(clierr.KindCache, clierr.Origin{File: root}, fmt.Sprintf("remove cache entry %s", e.Key), err)
		}
	}
	fmt.Printf("removed %d cache entries\n", len(entries))
	return nil
}
