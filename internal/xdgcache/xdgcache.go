// Package xdgcache resolves the default cache root for the repository
// manager (spec §4.7, §6), following the same "compute standard locations,
// let environment/flags override" shape as pkg/config/paths.go in the
// teacher repo, but rooted at the OS cache directory instead of the config
// directory.
package xdgcache

import (
	"os"
	"path/filepath"
	"runtime"
)

// EnvOverride is the environment variable that overrides the cache root
// (spec §6: "COMMON_REPO_CACHE ... override defaults").
const EnvOverride = "COMMON_REPO_CACHE"

// DirName is the leaf directory name under the platform cache home.
const DirName = "common-repo"

// Root resolves the cache root directory: EnvOverride if set, otherwise
// XDG_CACHE_HOME/common-repo on Linux, ~/Library/Caches/common-repo on
// macOS, and os.UserCacheDir()'s platform default elsewhere.
func Root() (string, error) {
	if v := os.Getenv(EnvOverride); v != "" {
		return v, nil
	}

	if runtime.GOOS == "darwin" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Caches", DirName), nil
	}

	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, DirName), nil
	}

	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}
