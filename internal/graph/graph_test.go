package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/memfs"
)

type fakeFetcher struct {
	trees map[string]*memfs.FS // keyed by "url@ref"
}

func (f *fakeFetcher) Fetch(ctx context.Context, url, ref, path string) (*memfs.FS, error, error) {
	key := url + "@" + ref
	tree, ok := f.trees[key]
	if !ok {
		return memfs.New(), nil, nil
	}
	return tree, nil, nil
}

func configWithEmbedded(content string) *memfs.FS {
	fs := memfs.New()
	_ = fs.Set(EmbeddedConfigPath, memfs.File{Content: []byte(content)})
	return fs
}

func TestDiscoverBuildsChildrenFromEmbeddedConfig(t *testing.T) {
	fetcher := &fakeFetcher{trees: map[string]*memfs.FS{
		"https://example.com/a@main": configWithEmbedded(`
- repo:
    url: https://example.com/b
    ref: main
`),
		"https://example.com/b@main": memfs.New(),
	}}

	local := &config.Configuration{Operations: []config.Operation{
		{Kind: config.OpRepo, Repo: &config.RepoOp{URL: "https://example.com/a", Ref: "main"}},
	}}

	g, err := Discover(context.Background(), local, fetcher, 4)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Roots, 1)

	root := g.Node(g.Roots[0])
	require.Equal(t, "https://example.com/a", root.URL)
	require.Len(t, root.Children, 1)

	child := g.Node(root.Children[0])
	require.Equal(t, "https://example.com/b", child.URL)
}

func TestDiscoverDetectsCycle(t *testing.T) {
	fetcher := &fakeFetcher{trees: map[string]*memfs.FS{
		"https://example.com/a@main": configWithEmbedded(`
- repo:
    url: https://example.com/b
    ref: main
`),
		"https://example.com/b@main": configWithEmbedded(`
- repo:
    url: https://example.com/a
    ref: main
`),
	}}

	local := &config.Configuration{Operations: []config.Operation{
		{Kind: config.OpRepo, Repo: &config.RepoOp{URL: "https://example.com/a", Ref: "main"}},
	}}

	_, err := Discover(context.Background(), local, fetcher, 4)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cycle detected")
}

func TestPostOrderSourcesBeforeDependents(t *testing.T) {
	g := newGraph()
	leaf := g.addNode("leaf", "main", "", nil)
	mid := g.addNode("mid", "main", "", nil)
	root := g.addNode("root", "main", "", nil)
	g.Node(mid).Children = []int{leaf}
	g.Node(root).Children = []int{mid}
	g.Roots = []int{root}

	order := PostOrder(g)
	require.Equal(t, []int{leaf, mid, root}, order)
}

func TestPostOrderSiblingsInDeclarationOrder(t *testing.T) {
	g := newGraph()
	a := g.addNode("a", "main", "", nil)
	b := g.addNode("b", "main", "", nil)
	root := g.addNode("root", "main", "", nil)
	g.Node(root).Children = []int{a, b}
	g.Roots = []int{root}

	order := PostOrder(g)
	require.Equal(t, []int{a, b, root}, order)
}
