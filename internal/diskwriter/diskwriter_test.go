package diskwriter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gizzahub/common-repo/internal/memfs"
)

func newFS(t *testing.T, files map[string]string) *memfs.FS {
	t.Helper()
	fs := memfs.New()
	for p, content := range files {
		require.NoError(t, fs.Set(p, memfs.File{Content: []byte(content), Permissions: 0o644}))
	}
	return fs
}

func TestWriteCreatesFilesAndDirectories(t *testing.T) {
	root := t.TempDir()
	fs := newFS(t, map[string]string{
		"a.txt":        "A",
		"nested/b.txt": "B",
	})

	w := New()
	result, err := w.Write(context.Background(), fs, root, WriteOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Entries, 2)

	got, err := os.ReadFile(filepath.Join(root, "nested", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "B", string(got))
}

func TestWriteSkipsExistingWithoutForce(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "a.txt")
	require.NoError(t, os.WriteFile(dest, []byte("existing"), 0o644))

	fs := newFS(t, map[string]string{"a.txt": "new"})

	w := New()
	result, err := w.Write(context.Background(), fs, root, WriteOptions{})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "skip-exists", result.Entries[0].Action)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(got))
}

func TestWriteForceOverwritesExisting(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "a.txt")
	require.NoError(t, os.WriteFile(dest, []byte("existing"), 0o644))

	fs := newFS(t, map[string]string{"a.txt": "new"})

	w := New()
	_, err := w.Write(context.Background(), fs, root, WriteOptions{Force: true})
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestWriteDryRunTouchesNothing(t *testing.T) {
	root := t.TempDir()
	fs := newFS(t, map[string]string{"a.txt": "A"})

	w := New()
	result, err := w.Write(context.Background(), fs, root, WriteOptions{DryRun: true})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "dry-run", result.Entries[0].Action)

	_, statErr := os.Stat(filepath.Join(root, "a.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWritePartialFailureKeepsAlreadyWrittenFiles(t *testing.T) {
	root := t.TempDir()
	// Make "bad" a directory so writing a file at that path fails, while
	// "a.txt" (alphabetically first) should still land successfully.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bad"), 0o755))

	fs := newFS(t, map[string]string{
		"a.txt": "A",
		"bad":   "should fail",
	})

	w := New()
	result, err := w.Write(context.Background(), fs, root, WriteOptions{})
	require.Error(t, err)

	var aggErr *AggregateError
	require.ErrorAs(t, err, &aggErr)
	require.Len(t, aggErr.Errors, 1)
	assert.Equal(t, "bad", aggErr.Errors[0].Path)

	got, readErr := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "A", string(got))

	var wroteA bool
	for _, e := range result.Entries {
		if e.Path == "a.txt" && e.Action == "write" {
			wroteA = true
		}
	}
	assert.True(t, wroteA)
}
