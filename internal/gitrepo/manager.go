// Package gitrepo implements the Repository Manager of spec §4.7: a
// GitOperations/CacheOperations-fronted fetch(url, ref, path?) that
// returns a MemFS, backed by a content-addressed on-disk cache and an
// in-process fetch-slot table that coalesces concurrent requests for the
// same key. Shaped after pkg/reposync's Executor/StateStore split in the
// teacher repo: capability interfaces the Manager composes, not a single
// monolithic client.
package gitrepo

import (
	"context"
	"fmt"

	"github.com/gizzahub/common-repo/internal/clierr"
	"github.com/gizzahub/common-repo/internal/logx"
	"github.com/gizzahub/common-repo/internal/memfs"
)

// GitOperations is the capability the manager fronts for talking to real
// repositories (spec §4.7).
type GitOperations interface {
	CloneShallow(ctx context.Context, url, ref, dest string) error
	ListRefs(ctx context.Context, url string) ([]string, error)
}

// CacheOperations is the capability the manager fronts for the
// content-addressed cache (spec §4.7).
type CacheOperations interface {
	Exists(key string) bool
	LoadIntoMemFS(key string) (*memfs.FS, error)
	SaveMemFS(key string, fs *memfs.FS) error
}

// StaleCacheWarning is emitted when a fetch falls back to a cached entry
// after a network failure (spec §4.7).
type StaleCacheWarning struct {
	URL   string
	Ref   string
	Cause error
}

func (w *StaleCacheWarning) Error() string {
	return fmt.Sprintf("stale cache for %s@%s: network fetch failed: %v", w.URL, w.Ref, w.Cause)
}

// Manager implements fetch(url, ref, path?) per spec §4.7, coalescing
// concurrent requests for the same cache key onto one in-process slot.
type Manager struct {
	Git   GitOperations
	Cache CacheOperations
	Log   logx.Logger

	slots *slotTable
}

// NewManager constructs a Manager. log may be logx.Noop().
func NewManager(git GitOperations, cache CacheOperations, log logx.Logger) *Manager {
	if log == nil {
		log = logx.Noop()
	}
	return &Manager{Git: git, Cache: cache, Log: log, slots: newSlotTable()}
}

// FetchResult is what Fetch returns: the fetched tree plus any non-fatal
// warning produced along the way.
type FetchResult struct {
	FS      *memfs.FS
	Warning error // *StaleCacheWarning, or nil
}

// Fetch implements spec §4.7's fetch semantics: cache hit returns
// immediately; otherwise clone_shallow, saving to cache on success;
// on network failure with a cache hit, return the cached entry with a
// StaleCacheWarning; on network failure with no cache, fail with
// Network{url, ref, cause}. path, if non-empty, narrows the returned tree
// to that sub-path within the repository.
func (m *Manager) Fetch(ctx context.Context, url, ref, path string) (FetchResult, error) {
	key := CacheKey(url, ref, path)

	slot, first := m.slots.acquire(key)
	if !first {
		return slot.wait()
	}

	result, err := m.fetchUncoalesced(ctx, url, ref, path, key)
	slot.complete(result, err)
	return result, err
}

func (m *Manager) fetchUncoalesced(ctx context.Context, url, ref, path, key string) (FetchResult, error) {
	if m.Cache.Exists(key) {
		fs, err := m.Cache.LoadIntoMemFS(key)
		if err != nil {
			return FetchResult{}, clierr.New(clierr.KindCache, clierr.Origin{}, fmt.Sprintf("load cache entry %s", key), err)
		}
		return FetchResult{FS: fs}, nil
	}

	fs, cloneErr := m.cloneAndLoad(ctx, url, ref, path)
	if cloneErr == nil {
		if err := m.Cache.SaveMemFS(key, fs); err != nil {
			m.Log.Warn("failed to save cache entry for %s@%s: %v", url, ref, err)
		}
		return FetchResult{FS: fs}, nil
	}

	if m.Cache.Exists(key) {
		cached, err := m.Cache.LoadIntoMemFS(key)
		if err != nil {
			return FetchResult{}, clierr.New(clierr.KindCache, clierr.Origin{}, fmt.Sprintf("load stale cache entry %s", key), err)
		}
		warning := &StaleCacheWarning{URL: url, Ref: ref, Cause: cloneErr}
		m.Log.Warn("%v", warning)
		return FetchResult{FS: cached, Warning: warning}, nil
	}

	return FetchResult{}, clierr.New(clierr.KindNetwork, clierr.Origin{}, fmt.Sprintf("fetch %s@%s", url, ref), cloneErr)
}

func (m *Manager) cloneAndLoad(ctx context.Context, url, ref, path string) (*memfs.FS, error) {
	dir, cleanup, err := tempCloneDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := m.Git.CloneShallow(ctx, url, ref, dir); err != nil {
		return nil, err
	}

	fs, err := loadDirIntoMemFS(dir, path)
	if err != nil {
		return nil, err
	}
	if fs.Len() == 0 && path != "" {
		return nil, fmt.Errorf("sub-path %q not found in %s@%s", path, url, ref)
	}
	return fs, nil
}

// ListRefs exposes GitOperations.ListRefs for semver resolution (spec
// §4.6), wrapping transport errors with the Network error kind.
func (m *Manager) ListRefs(ctx context.Context, url string) ([]string, error) {
	refs, err := m.Git.ListRefs(ctx, url)
	if err != nil {
		return nil, clierr.New(clierr.KindNetwork, clierr.Origin{}, fmt.Sprintf("list refs %s", url), err)
	}
	return refs, nil
}
