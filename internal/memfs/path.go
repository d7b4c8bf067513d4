// Package memfs implements the in-memory filesystem that the composition
// engine uses as its working representation: a flat map from normalized
// relative path to file content and permissions.
package memfs

import (
	"path"
	"strings"
)

// Normalize converts an ingress path into the canonical key form used by FS:
// forward slashes, no leading slash, "." and ".." collapsed against the
// root, and no escape above the root.
func Normalize(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "/")

	cleaned := path.Clean(p)
	cleaned = strings.TrimPrefix(cleaned, "/")

	if cleaned == "." {
		return "", nil
	}

	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", &PathEscapeError{Path: p}
	}

	return cleaned, nil
}

// PathEscapeError is returned when a path normalizes to a location above
// the MemFS root.
type PathEscapeError struct {
	Path string
}

func (e *PathEscapeError) Error() string {
	return "path escapes root: " + e.Path
}
