package pipeline

import (
	"context"
	"fmt"

	"github.com/gizzahub/common-repo/internal/cliutil/progress"
	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/gitrepo"
	"github.com/gizzahub/common-repo/internal/graph"
	"github.com/gizzahub/common-repo/internal/memfs"
	"github.com/gizzahub/common-repo/internal/operators"
)

// Result is the pipeline's output: the final composite file tree (spec
// §4.8 Phases 1-5; Phase 6 materialization is the diskwriter package's
// job, driven from this Result) and every non-fatal warning collected
// along the way.
type Result struct {
	FS       *memfs.FS
	Warnings []Warning
}

// Pipeline holds the collaborators Run needs beyond the configuration
// itself: where repo references are fetched from, how many fetches run
// concurrently, and where the local working directory lives on disk.
type Pipeline struct {
	Fetcher     *gitrepo.Manager
	MaxParallel int
	LocalRoot   string
	Deps        operators.Deps

	// Progress receives Phase 1 fetch events, if set. nil is valid and
	// means no events are sent (non-interactive or --quiet runs).
	Progress progress.Sink
}

// New creates a Pipeline ready to Run, defaulting MaxParallel and Deps
// when left zero-valued.
func New(fetcher *gitrepo.Manager, localRoot string) *Pipeline {
	return &Pipeline{
		Fetcher:     fetcher,
		MaxParallel: 8,
		LocalRoot:   localRoot,
		Deps:        operators.DefaultDeps(),
	}
}

// managerFetcher adapts *gitrepo.Manager's (FetchResult, error) return
// shape to the narrower (tree, warning, error) shape graph.Discover wants,
// keeping the graph package free of any gitrepo import. It also reports
// Phase 1 fetch events to an optional progress.Sink.
type managerFetcher struct {
	m        *gitrepo.Manager
	progress progress.Sink
}

func (f managerFetcher) Fetch(ctx context.Context, url, ref, path string) (*memfs.FS, error, error) {
	label := fmt.Sprintf("%s@%s", url, ref)
	f.send(progress.Event{Kind: progress.EventFetchStarted, Label: label})

	result, err := f.m.Fetch(ctx, url, ref, path)
	if err != nil {
		f.send(progress.Event{Kind: progress.EventFetchFailed, Label: label, Err: err})
		return nil, nil, err
	}

	kind := progress.EventFetchFinished
	if result.Warning != nil {
		kind = progress.EventFetchCached
	}
	f.send(progress.Event{Kind: kind, Label: label})
	return result.FS, result.Warning, nil
}

func (f managerFetcher) send(e progress.Event) {
	if f.progress != nil {
		f.progress.Send(e)
	}
}

// Discover runs spec §4.8 Phase 1 alone and returns the resolved RepoNode
// graph, for commands that report on repo structure (`tree`, `info`)
// without running the full composition.
func (p *Pipeline) Discover(ctx context.Context, local *config.Configuration) (*graph.Graph, error) {
	maxParallel := p.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 8
	}
	if p.Progress != nil {
		defer p.Progress.Close()
	}
	return graph.Discover(ctx, local, managerFetcher{m: p.Fetcher, progress: p.Progress}, maxParallel)
}

// Run executes spec §4.8 Phases 1 through 5 against local, returning the
// final in-memory composite tree.
func (p *Pipeline) Run(ctx context.Context, local *config.Configuration) (*Result, error) {
	maxParallel := p.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 8
	}

	if p.Progress != nil {
		defer p.Progress.Close()
	}

	g, err := graph.Discover(ctx, local, managerFetcher{m: p.Fetcher, progress: p.Progress}, maxParallel)
	if err != nil {
		return nil, err
	}

	order := graph.PostOrder(g)

	var warnings []Warning

	processed := make(map[string]*graph.RepoNode, len(order))
	for _, idx := range order {
		node := g.Node(idx)
		key := dedupeKey(node)

		if canon, ok := processed[key]; ok {
			node.Intermediate = canon.Intermediate
			node.Tagged = canon.Tagged
			node.DeferredMerges = canon.DeferredMerges
			continue
		}

		nodeWarnings, err := processNode(node, p.Deps)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, nodeWarnings...)
		processed[key] = node
	}

	localOps := nonRepoOperations(local.Operations)

	vars, err := buildVarsContext(order, g, localOps, p.Deps.Getenv)
	if err != nil {
		return nil, err
	}

	composite, tagged, foldWarnings, err := foldComposite(order, g)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, foldWarnings...)

	if err := substituteTagged(composite, tagged, vars, p.Deps.Getenv); err != nil {
		return nil, err
	}

	localWarnings, err := foldLocal(p.LocalRoot, localOps, composite, vars, p.Deps)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, localWarnings...)

	return &Result{FS: composite, Warnings: warnings}, nil
}
