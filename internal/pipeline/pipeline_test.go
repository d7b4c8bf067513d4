package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/gitrepo"
	"github.com/gizzahub/common-repo/internal/memfs"
)

// fixtureGit is a GitOperations double that materializes a fixed set of
// files into the clone destination directory, keyed by "url@ref", rather
// than talking to a real git binary.
type fixtureGit struct {
	files map[string]map[string]string
}

func (g *fixtureGit) CloneShallow(_ context.Context, url, ref, dest string) error {
	files := g.files[url+"@"+ref]
	for p, content := range files {
		full := filepath.Join(dest, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (g *fixtureGit) ListRefs(context.Context, string) ([]string, error) {
	return nil, nil
}

// memCache is a CacheOperations double holding entries in memory.
type memCache struct {
	mu      sync.Mutex
	entries map[string]*memfs.FS
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]*memfs.FS)}
}

func (c *memCache) Exists(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func (c *memCache) LoadIntoMemFS(key string) (*memfs.FS, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key].Clone(), nil
}

func (c *memCache) SaveMemFS(key string, fs *memfs.FS) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = fs.Clone()
	return nil
}

func writeLocalFile(t *testing.T, root, path, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(path))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func assertFileContent(t *testing.T, fs *memfs.FS, path, want string) {
	t.Helper()
	f, ok := fs.Get(path)
	require.Truef(t, ok, "expected %q to exist", path)
	assert.Equal(t, want, string(f.Content))
}

func TestPipelineS1BasicInheritance(t *testing.T) {
	git := &fixtureGit{files: map[string]map[string]string{
		"https://example.com/r@v1.0.0": {"a.txt": "A", "b.txt": "B"},
	}}
	mgr := gitrepo.NewManager(git, newMemCache(), nil)

	localRoot := t.TempDir()
	writeLocalFile(t, localRoot, "c.txt", "C")

	local := &config.Configuration{Operations: []config.Operation{
		{Kind: config.OpRepo, Repo: &config.RepoOp{URL: "https://example.com/r", Ref: "v1.0.0"}},
		{Kind: config.OpInclude, Include: &config.PatternsOp{Patterns: []string{"**/*"}}},
	}}

	p := New(mgr, localRoot)
	result, err := p.Run(context.Background(), local)
	require.NoError(t, err)

	assert.Equal(t, 3, result.FS.Len())
	assertFileContent(t, result.FS, "a.txt", "A")
	assertFileContent(t, result.FS, "b.txt", "B")
	assertFileContent(t, result.FS, "c.txt", "C")
}

func TestPipelineS2LastWriteWinsWithWarning(t *testing.T) {
	git := &fixtureGit{files: map[string]map[string]string{
		"https://example.com/r1@main": {"ci.yml": "from-r1"},
		"https://example.com/r2@main": {"ci.yml": "from-r2"},
	}}
	mgr := gitrepo.NewManager(git, newMemCache(), nil)

	local := &config.Configuration{Operations: []config.Operation{
		{Kind: config.OpRepo, Repo: &config.RepoOp{URL: "https://example.com/r1", Ref: "main"}},
		{Kind: config.OpRepo, Repo: &config.RepoOp{URL: "https://example.com/r2", Ref: "main"}},
	}}

	p := New(mgr, t.TempDir())
	result, err := p.Run(context.Background(), local)
	require.NoError(t, err)

	assertFileContent(t, result.FS, "ci.yml", "from-r2")

	var sawConflict bool
	for _, w := range result.Warnings {
		if w.Kind == "MergeConflict" && w.Path == "ci.yml" {
			sawConflict = true
		}
	}
	assert.True(t, sawConflict, "expected a MergeConflict warning naming ci.yml")
}

func TestPipelineS4MarkdownSectionMerge(t *testing.T) {
	git := &fixtureGit{files: map[string]map[string]string{
		"https://example.com/docs@main": {
			"docs/README.md": "## Installation\nold\n## Usage\nusage body\n",
		},
	}}
	mgr := gitrepo.NewManager(git, newMemCache(), nil)

	localRoot := t.TempDir()
	writeLocalFile(t, localRoot, "frag.md", "new")

	local := &config.Configuration{Operations: []config.Operation{
		{Kind: config.OpRepo, Repo: &config.RepoOp{URL: "https://example.com/docs", Ref: "main"}},
		{Kind: config.OpInclude, Include: &config.PatternsOp{Patterns: []string{"**/*"}}},
		{Kind: config.OpMarkdown, Merge: &config.MergeOp{
			Format:   config.FormatMarkdown,
			Source:   "frag.md",
			Dest:     "docs/README.md",
			Section:  "Installation",
			Level:    2,
			Append:   true,
			Position: config.PositionEnd,
		}},
	}}

	p := New(mgr, localRoot)
	result, err := p.Run(context.Background(), local)
	require.NoError(t, err)

	f, ok := result.FS.Get("docs/README.md")
	require.True(t, ok)
	content := string(f.Content)

	installIdx := indexOf(content, "old")
	newIdx := indexOf(content, "new")
	usageIdx := indexOf(content, "## Usage")
	require.True(t, installIdx >= 0 && newIdx > installIdx && usageIdx > newIdx,
		"expected old, then new, then the Usage section, got: %q", content)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
