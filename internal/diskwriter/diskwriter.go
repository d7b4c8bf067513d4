// Package diskwriter materializes a memfs.FS onto the real filesystem:
// spec §4.8 Phase 6. Writes are atomic per file (write to a temp name in
// the same directory, then rename over the destination) the way
// pkg/reposync's FileStateStore.Save persists its state file, applied here
// once per entry in the tree instead of once for a single state blob.
package diskwriter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gizzahub/common-repo/internal/memfs"
)

// WriteOptions controls Phase 6 materialization.
type WriteOptions struct {
	// DryRun reports what would be written without touching disk.
	DryRun bool
	// Force permits overwriting existing files. Without it, an existing
	// destination file is left alone and reported as a skip, not an error.
	Force bool
}

// Entry describes the outcome for a single path, returned in Result.Entries
// for dry-run reporting and for `ls`/`diff`-style summaries.
type Entry struct {
	Path   string
	Action string // "write", "skip-exists", "dry-run"
}

// Result is what Write returns: every path it touched (or would touch), in
// sorted order for deterministic CLI output.
type Result struct {
	Entries []Entry
}

// WriteError is one path's I/O failure, collected rather than raised
// immediately so a partial failure does not lose already-written files
// (spec §4.8 Phase 6: "partial failures ... must surface an aggregated
// error list").
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// AggregateError collects every WriteError from one Write call.
type AggregateError struct {
	Errors []*WriteError
}

func (a *AggregateError) Error() string {
	if len(a.Errors) == 1 {
		return a.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to write (first: %s)", len(a.Errors), a.Errors[0].Error())
}

// Writer materializes a MemFS onto disk under root.
type Writer struct{}

// New creates a Writer. It holds no state; a value is exposed for parity
// with the pipeline's other collaborator types and so callers have a
// natural seam to inject a test double in command tests.
func New() *Writer { return &Writer{} }

// Write implements spec §4.8 Phase 6 for every file in fs, ordered by path
// for deterministic output. Directory creation and permission handling
// happen per file; a failure on one path is recorded and writing continues
// with the rest, so the function never deletes a file it already wrote.
func (w *Writer) Write(ctx context.Context, fs *memfs.FS, root string, opts WriteOptions) (*Result, error) {
	paths := fs.Paths()
	sort.Strings(paths)

	result := &Result{Entries: make([]Entry, 0, len(paths))}
	var failures []*WriteError

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		f, ok := fs.Get(p)
		if !ok {
			continue
		}

		dest := filepath.Join(root, filepath.FromSlash(p))

		if opts.DryRun {
			result.Entries = append(result.Entries, Entry{Path: p, Action: "dry-run"})
			continue
		}

		exists := fileExists(dest)
		if exists && !opts.Force {
			result.Entries = append(result.Entries, Entry{Path: p, Action: "skip-exists"})
			continue
		}

		if err := writeFileAtomic(dest, f); err != nil {
			failures = append(failures, &WriteError{Path: p, Err: err})
			continue
		}
		result.Entries = append(result.Entries, Entry{Path: p, Action: "write"})
	}

	if len(failures) > 0 {
		return result, &AggregateError{Errors: failures}
	}
	return result, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// writeFileAtomic creates dest's parent directories, then writes content
// to a sibling temp file and renames it over dest — a rename on the same
// filesystem is the closest thing POSIX offers to atomic replacement, and
// an interrupted write never leaves a half-written dest behind.
// f.Permissions is applied with Chmod to the temp file before the rename,
// so the renamed file carries that mode onto dest.
func writeFileAtomic(dest string, f memfs.File) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	mode := os.FileMode(f.Permissions)
	if mode == 0 {
		mode = os.FileMode(memfs.DefaultMode)
	}

	tmp, err := os.CreateTemp(dir, ".common-repo-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(f.Content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
