package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gizzahub/common-repo/internal/graph"
	"github.com/gizzahub/common-repo/internal/pipeline"
)

var treeDepth int

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the resolved repo dependency tree",
	Long: `tree runs Phase 1 discovery alone and prints the dependency tree of
repo operations rooted at the local configuration, without fetching file
contents into a composite or touching disk.`,
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().IntVar(&treeDepth, "depth", -1, "maximum depth to print (default: unlimited)")
}

func runTree(cmd *cobra.Command, args []string) error {
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

	for _, rootIdx := range g.Roots {
		printTreeNode(g, rootIdx, 0, map[int]bool{})
	}
	return nil
}

func printTreeNode(g *graph.Graph, idx, depth int, visited map[int]bool) {
	if treeDepth >= 0 && depth > treeDepth {
		return
	}
	node := g.Node(idx)
	fmt.Printf("%s%s\n", indent(depth), node.Label())
	if visited[idx] {
		return
	}
	visited[idx] = true
	for _, child := range node.Children {
		printTreeNode(g, child, depth+1, visited)
	}
}

func indent(depth int) string {
	out := make([]byte, depth*2)
	for i := range out {
		out[i] = ' '
	}
	return string(out)
}
