package gitrepo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gizzahub/common-repo/internal/memfs"
)

// tempCloneDir creates a scratch directory for a shallow clone and
// returns a cleanup function that removes it, per spec §5's "outstanding
// fetches should be abandoned and their temporary state cleaned up."
func tempCloneDir() (dir string, cleanup func(), err error) {
	dir, err = os.MkdirTemp("", "common-repo-clone-*")
	if err != nil {
		return "", nil, fmt.Errorf("create clone scratch dir: %w", err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

// loadDirIntoMemFS reads every regular file under root (optionally
// narrowed to a sub-path) into a MemFS, skipping .git.
func loadDirIntoMemFS(root, subPath string) (*memfs.FS, error) {
	base := root
	if subPath != "" {
		base = filepath.Join(root, subPath)
	}

	out := memfs.New()

	info, err := os.Stat(base)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("stat %s: %w", base, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sub-path %s is not a directory", base)
	}

	walkErr := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}

		finfo, err := d.Info()
		if err != nil {
			return err
		}

		return out.Set(filepath.ToSlash(rel), memfs.File{
			Content:     content,
			Permissions: uint32(finfo.Mode().Perm()),
			Origin:      "fetch",
		})
	})
	if walkErr != nil {
		return nil, fmt.Errorf("load %s: %w", base, walkErr)
	}

	return out, nil
}
