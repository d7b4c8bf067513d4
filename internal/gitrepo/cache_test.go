package gitrepo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gizzahub/common-repo/internal/memfs"
)

func TestDirCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache := NewDirCache(dir)

	key := CacheKey("https://example.com/org/repo.git", "v1.2.3", "")
	require.False(t, cache.Exists(key))

	tree := memfs.New()
	require.NoError(t, tree.Set("a.txt", memfs.File{Content: []byte("hello"), Permissions: 0o644}))
	require.NoError(t, tree.Set("nested/b.txt", memfs.File{Content: []byte("world"), Permissions: 0o644}))

	require.NoError(t, cache.SaveMemFS(key, tree))
	require.True(t, cache.Exists(key))

	loaded, err := cache.LoadIntoMemFS(key)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())

	f, ok := loaded.Get("a.txt")
	require.True(t, ok)
	require.Equal(t, "hello", string(f.Content))

	entries, err := cache.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 2, entries[0].FileCount)
}

func TestCacheKeyStableAndDistinct(t *testing.T) {
	a := CacheKey("https://example.com/org/repo.git", "v1.0.0", "")
	b := CacheKey("https://example.com/org/repo.git", "v1.0.0", "")
	c := CacheKey("https://example.com/org/repo.git", "v2.0.0", "")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}
