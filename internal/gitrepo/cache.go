package gitrepo

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gizzahub/common-repo/internal/memfs"
)

// metaFileName is the single metadata file that accompanies each cache
// entry. SaveMemFS records captured_at and the file count in it;
// ref_string is written empty, since SaveMemFS receives only the key.
const metaFileName = ".common-repo-cache-meta.json"

type cacheMeta struct {
	RefString  string    `json:"ref_string"`
	CapturedAt time.Time `json:"captured_at"`
	FileCount  int       `json:"file_count"`
}

// DirCache is the default CacheOperations: a content-addressed directory
// layout rooted at a cache root, one subdirectory per key, written with a
// create-then-rename sequence so concurrent writers never observe a torn
// entry (spec §4.7, §5), adapted from the teacher's
// pkg/reposync.FileStateStore atomic-write pattern.
type DirCache struct {
	Root string
}

// NewDirCache returns a DirCache rooted at root.
func NewDirCache(root string) *DirCache {
	return &DirCache{Root: root}
}

func (c *DirCache) entryDir(key string) string {
	return filepath.Join(c.Root, key)
}

// Exists reports whether a cache entry for key is present.
func (c *DirCache) Exists(key string) bool {
	info, err := os.Stat(c.entryDir(key))
	return err == nil && info.IsDir()
}

// LoadIntoMemFS reads the cache entry for key back into a MemFS.
func (c *DirCache) LoadIntoMemFS(key string) (*memfs.FS, error) {
	dir := c.entryDir(key)
	out := memfs.New()

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == metaFileName {
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read cache entry %s: %w", p, err)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		return out.Set(rel, memfs.File{
			Content:     content,
			Permissions: uint32(info.Mode().Perm()),
			Origin:      "cache",
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load cache entry %s: %w", key, err)
	}
	return out, nil
}

// SaveMemFS persists fs under key using create-then-rename: the entry is
// fully written to a sibling temporary directory, then renamed into
// place, so a reader never observes a partially-written entry and two
// concurrent writers of the same key simply race on the final rename
// (spec §5: "the last rename wins and the loser's temporary is removed").
func (c *DirCache) SaveMemFS(key string, tree *memfs.FS) error {
	if err := os.MkdirAll(c.Root, 0o755); err != nil {
		return fmt.Errorf("create cache root: %w", err)
	}

	tmp, err := os.MkdirTemp(c.Root, ".tmp-"+key+"-*")
	if err != nil {
		return fmt.Errorf("create cache staging dir: %w", err)
	}
	cleanupTmp := true
	defer func() {
		if cleanupTmp {
			_ = os.RemoveAll(tmp)
		}
	}()

	var fileCount int
	var writeErr error
	tree.Walk(func(p string, f memfs.File) bool {
		dest := filepath.Join(tmp, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			writeErr = fmt.Errorf("create cache subdir for %s: %w", p, err)
			return false
		}
		mode := os.FileMode(f.Permissions)
		if mode == 0 {
			mode = memfs.DefaultMode
		}
		if err := os.WriteFile(dest, f.Content, mode); err != nil {
			writeErr = fmt.Errorf("write cache entry file %s: %w", p, err)
			return false
		}
		fileCount++
		return true
	})
	if writeErr != nil {
		return writeErr
	}

	meta := cacheMeta{CapturedAt: time.Now(), FileCount: fileCount}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(tmp, metaFileName), metaBytes, 0o644); err != nil {
		return fmt.Errorf("write cache metadata: %w", err)
	}

	dest := c.entryDir(key)
	_ = os.RemoveAll(dest) // a prior loser's stale attempt, if any
	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("rename cache entry into place: %w", err)
	}
	cleanupTmp = false
	return nil
}

// List enumerates cache entries for `cache list`.
func (c *DirCache) List() ([]CacheEntry, error) {
	entries, err := os.ReadDir(c.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache root: %w", err)
	}

	var out []CacheEntry
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		entry := CacheEntry{Key: e.Name(), ModTime: info.ModTime()}
		if data, err := os.ReadFile(filepath.Join(c.Root, e.Name(), metaFileName)); err == nil {
			var meta cacheMeta
			if json.Unmarshal(data, &meta) == nil {
				entry.FileCount = meta.FileCount
				entry.CapturedAt = meta.CapturedAt
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// Remove deletes a single cache entry.
func (c *DirCache) Remove(key string) error {
	return os.RemoveAll(c.entryDir(key))
}

// CacheEntry describes one entry for `cache list`.
type CacheEntry struct {
	Key        string
	ModTime    time.Time
	CapturedAt time.Time
	FileCount  int
}

// NoCache is a CacheOperations that never has anything and discards every
// save, for `apply --no-cache`: every fetch falls through to a real clone,
// and a network failure has no stale entry to fall back to.
type NoCache struct{}

func (NoCache) Exists(string) bool { return false }
func (NoCache) LoadIntoMemFS(string) (*memfs.FS, error) {
	return nil, fmt.Errorf("no-cache: nothing cached")
}
func (NoCache) SaveMemFS(string, *memfs.FS) error { return nil }
