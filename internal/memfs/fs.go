package memfs

import (
	"sort"
	"sync"
)

// DefaultMode is the permission mode applied to files that did not carry
// one from disk (platforms without POSIX modes always use this).
const DefaultMode = 0o644

// File is a single entry in a FS: its content and POSIX permission bits.
type File struct {
	Content     []byte
	Permissions uint32

	// Origin names the configuration site that last wrote this key
	// (e.g. "repo[0]" or "local"), used for MergeConflictWarning reporting.
	Origin string
}

// FS is the in-memory filesystem: a mapping from normalized relative path
// to File. It has no separate directory nodes — directories are inferred
// from path prefixes. FS is safe for concurrent reads; callers must not
// mutate a FS that is concurrently being read elsewhere (the pipeline
// treats each FS handed between phases as immutable, copying on change).
type FS struct {
	mu    sync.RWMutex
	files map[string]File
}

// New creates an empty FS.
func New() *FS {
	return &FS{files: make(map[string]File)}
}

// Clone returns a deep-enough copy of fs: a new FS with the same entries.
// File content slices are shared (operators that mutate content must
// allocate a new slice rather than writing through the old one).
func (fs *FS) Clone() *FS {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	out := New()
	for k, v := range fs.files {
		out.files[k] = v
	}
	return out
}

// Set adds or replaces the file at path p. p is normalized before storage.
func (fs *FS) Set(p string, f File) error {
	key, err := Normalize(p)
	if err != nil {
		return err
	}
	if key == "" {
		return &PathEscapeError{Path: p}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[key] = f
	return nil
}

// Exists reports whether path p is present.
func (fs *FS) Exists(p string) bool {
	key, err := Normalize(p)
	if err != nil {
		return false
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, ok := fs.files[key]
	return ok
}

// Get returns the file at path p.
func (fs *FS) Get(p string) (File, bool) {
	key, err := Normalize(p)
	if err != nil {
		return File{}, false
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()
	f, ok := fs.files[key]
	return f, ok
}

// Remove deletes the file at path p, if present.
func (fs *FS) Remove(p string) {
	key, err := Normalize(p)
	if err != nil {
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.files, key)
}

// Len returns the number of entries.
func (fs *FS) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.files)
}

// Paths returns all keys, sorted lexicographically.
func (fs *FS) Paths() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	out := make([]string, 0, len(fs.files))
	for k := range fs.files {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Walk calls fn for every entry, in path order. Stops early if fn returns
// false.
func (fs *FS) Walk(fn func(path string, f File) bool) {
	for _, p := range fs.Paths() {
		f, ok := fs.Get(p)
		if !ok {
			continue
		}
		if !fn(p, f) {
			return
		}
	}
}

// ConflictWarning records that a merge-from overwrote a key with a
// different value, per spec §4.2.
type ConflictWarning struct {
	Path        string
	LeftOrigin  string
	RightOrigin string
}

// MergeFrom overlays src onto fs: for every key in src, fs's value is
// overwritten (source wins on collisions). A ConflictWarning is emitted
// whenever the destination already held a different value for that key.
func (fs *FS) MergeFrom(src *FS) []ConflictWarning {
	var warnings []ConflictWarning

	src.mu.RLock()
	entries := make(map[string]File, len(src.files))
	for k, v := range src.files {
		entries[k] = v
	}
	src.mu.RUnlock()

	fs.mu.Lock()
	defer fs.mu.Unlock()

	for k, v := range entries {
		if existing, ok := fs.files[k]; ok && !bytesEqual(existing.Content, v.Content) {
			warnings = append(warnings, ConflictWarning{
				Path:        k,
				LeftOrigin:  existing.Origin,
				RightOrigin: v.Origin,
			})
		}
		fs.files[k] = v
	}

	return warnings
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
