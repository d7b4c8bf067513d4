package memfs

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePathTraversal(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "plain", path: "a/b.txt", want: "a/b.txt"},
		{name: "backslashes", path: `a\b.txt`, want: "a/b.txt"},
		{name: "leading slash", path: "/a/b.txt", want: "a/b.txt"},
		{name: "dot segments collapse", path: "a/./b/../c.txt", want: "a/c.txt"},
		{name: "escape above root", path: "../secret", wantErr: true},
		{name: "escape deep", path: "a/../../secret", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetAfterSetIsNormalized(t *testing.T) {
	fs := New()
	require.NoError(t, fs.Set(`a\b/../c.txt`, File{Content: []byte("x")}))

	f, ok := fs.Get("a/c.txt")
	require.True(t, ok)
	assert.Equal(t, "x", string(f.Content))
}

func TestMergeFromOverwritesAndWarnsOnConflict(t *testing.T) {
	dst := New()
	require.NoError(t, dst.Set("ci.yml", File{Content: []byte("dst"), Origin: "left"}))
	require.NoError(t, dst.Set("only-dst.txt", File{Content: []byte("keep")}))

	src := New()
	require.NoError(t, src.Set("ci.yml", File{Content: []byte("src"), Origin: "right"}))

	warnings := dst.MergeFrom(src)
	require.Len(t, warnings, 1)
	assert.Equal(t, "ci.yml", warnings[0].Path)
	assert.Equal(t, "left", warnings[0].LeftOrigin)
	assert.Equal(t, "right", warnings[0].RightOrigin)

	f, ok := dst.Get("ci.yml")
	require.True(t, ok)
	assert.Equal(t, "src", string(f.Content))

	_, ok = dst.Get("only-dst.txt")
	assert.True(t, ok)
}

func TestIncludeExcludeRoundTrip(t *testing.T) {
	// Property: include(P) then exclude(P) leaves the FS unchanged, for any
	// pattern set P, because exclude removes exactly the keys include added
	// (assuming no pre-existing overlap).
	fs := New()
	require.NoError(t, fs.Set("keep.txt", File{Content: []byte("keep")}))

	src := New()
	require.NoError(t, src.Set("a.txt", File{Content: []byte("A")}))
	require.NoError(t, src.Set("dir/b.txt", File{Content: []byte("B")}))

	before := fs.Clone()

	added := src.ListAny([]string{"**/*"})
	for _, p := range added {
		f, _ := src.Get(p)
		require.NoError(t, fs.Set(p, f))
	}

	for _, p := range fs.ListAny([]string{"a.txt", "dir/b.txt"}) {
		fs.Remove(p)
	}

	assert.ElementsMatch(t, before.Paths(), fs.Paths())
}

func TestRenameAtomicNoCollisionUnlessWarned(t *testing.T) {
	fs := New()
	require.NoError(t, fs.Set("ci/github.yml", File{Content: []byte("gh")}))
	require.NoError(t, fs.Set("ci/gitlab.yml", File{Content: []byte("gl")}))

	results, err := fs.Rename([]RenameRule{
		{Pattern: regexp.MustCompile(`ci/(\w+)\.yml`), Target: "%[1]s.yml"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.False(t, r.Collision)
	}

	assert.True(t, fs.Exists("github.yml"))
	assert.True(t, fs.Exists("gitlab.yml"))
	assert.False(t, fs.Exists("ci/github.yml"))
}

func TestRenameCollisionReported(t *testing.T) {
	fs := New()
	require.NoError(t, fs.Set("a.txt", File{Content: []byte("a")}))
	require.NoError(t, fs.Set("b.txt", File{Content: []byte("b")}))

	results, err := fs.Rename([]RenameRule{
		{Pattern: regexp.MustCompile(`[ab]\.txt`), Target: "merged.txt"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[1].Collision)
}
