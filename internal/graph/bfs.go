package graph

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gizzahub/common-repo/internal/clierr"
	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/memfs"
)

// Fetcher is the subset of gitrepo.Manager the graph builder needs: fetch
// a repository's tree, returning a non-fatal warning (stale-cache
// fallback) alongside any fatal error.
type Fetcher interface {
	Fetch(ctx context.Context, url, ref, path string) (tree *memfs.FS, warning error, err error)
}

// EmbeddedConfigPath is the file name Discover looks for at the root of
// each fetched tree to find a repo's own composition configuration.
const EmbeddedConfigPath = ".common-repo.yaml"

// childSpec is a `repo` operation discovered in a node's embedded
// configuration, not yet materialized into the graph arena (materializing
// the arena happens back on the driving goroutine, never concurrently).
type childSpec struct {
	url, ref, path string
	with           []config.Operation
}

// pending is one frontier entry awaiting fetch at the current BFS depth.
type pending struct {
	nodeIdx       int
	ancestorChain []string // chain up to and including this node's parent
}

// Discover runs spec §4.8 Phase 1: breadth-first traversal of the repo
// graph rooted at local's top-level `repo` operations. All fetches at a
// given depth are attempted concurrently (bounded by maxParallel); a
// fatal cycle aborts with CycleDetected, carrying the full chain.
func Discover(ctx context.Context, local *config.Configuration, fetcher Fetcher, maxParallel int) (*Graph, error) {
	g := newGraph()

	var frontier []pending
	for _, op := range local.Operations {
		if op.Kind != config.OpRepo {
			continue
		}
		idx := g.addNode(op.Repo.URL, op.Repo.Ref, op.Repo.Path, op.Repo.With)
		g.Roots = append(g.Roots, idx)
		frontier = append(frontier, pending{nodeIdx: idx})
	}

	for len(frontier) > 0 {
		eg, egCtx := errgroup.WithContext(ctx)
		if maxParallel > 0 {
			eg.SetLimit(maxParallel)
		}

		type levelResult struct {
			ancestorChain []string
			children      []childSpec
		}
		results := make([]levelResult, len(frontier))

		for i, item := range frontier {
			i, item := i, item
			eg.Go(func() error {
				node := g.Node(item.nodeIdx)
				label := node.Label()

				chain := newAncestry()
				for _, l := range item.ancestorChain {
					if cycleErr := chain.push(l); cycleErr != nil {
						return cycleErr
					}
				}
				if cycleErr := chain.push(label); cycleErr != nil {
					return cycleErr
				}
				ancestorChain := chain.snapshot()

				tree, warning, err := fetcher.Fetch(egCtx, node.URL, node.Ref, node.Path)
				if err != nil {
					return clierr.New(clierr.KindRepoUnreachable, clierr.Origin{RepoChain: ancestorChain}, fmt.Sprintf("fetch %s", label), err)
				}
				node.Raw = tree
				if warning != nil {
					node.Warnings = append(node.Warnings, warning.Error())
				}

				var children []childSpec
				if cfgFile, ok := tree.Get(EmbeddedConfigPath); ok {
					cfg, err := config.Parse(cfgFile.Content, label+"/"+EmbeddedConfigPath)
					if err != nil {
						return clierr.New(clierr.KindConfigParse, clierr.Origin{RepoChain: ancestorChain}, "parse embedded configuration", err)
					}
					node.Config = cfg

					for _, childOp := range cfg.Operations {
						if childOp.Kind != config.OpRepo {
							continue
						}
						children = append(children, childSpec{
							url: childOp.Repo.URL, ref: childOp.Repo.Ref, path: childOp.Repo.Path, with: childOp.Repo.With,
						})
					}
				}

				// node is exclusively owned by this goroutine (no other
				// goroutine touches item.nodeIdx), so these writes are
				// race-free even though addNode on g is not called here.
				node.AncestorChain = ancestorChain
				results[i] = levelResult{ancestorChain: ancestorChain, children: children}
				return nil
			})
		}

		if err := eg.Wait(); err != nil {
			return nil, err
		}

		// Materialize this level's children sequentially: addNode
		// mutates the shared arena slice, so it must happen back on the
		// single driving goroutine, never inside eg.Go.
		var next []pending
		for i, r := range results {
			parent := g.Node(frontier[i].nodeIdx)
			for _, spec := range r.children {
				childIdx := g.addNode(spec.url, spec.ref, spec.path, spec.with)
				parent.Children = append(parent.Children, childIdx)
				next = append(next, pending{nodeIdx: childIdx, ancestorChain: r.ancestorChain})
			}
		}
		frontier = next
	}

	return g, nil
}
