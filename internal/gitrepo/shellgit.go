package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ShellGit is the default GitOperations: it shells out to the git binary,
// adapted from the teacher's internal/gitcmd.Executor (a safe os/exec
// wrapper with timeout support) but narrowed to the two operations the
// manager needs.
type ShellGit struct {
	// Binary is the git executable; defaults to "git" (searched on PATH).
	Binary string

	// Timeout bounds each git invocation; zero means no timeout.
	Timeout time.Duration
}

// NewShellGit returns a ShellGit with sane defaults.
func NewShellGit() *ShellGit {
	return &ShellGit{Binary: "git", Timeout: 2 * time.Minute}
}

func (g *ShellGit) binary() string {
	if g.Binary == "" {
		return "git"
	}
	return g.Binary
}

func (g *ShellGit) run(ctx context.Context, args ...string) (stdout, stderr []byte, err error) {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, g.binary(), args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	return outBuf.Bytes(), errBuf.Bytes(), runErr
}

// CloneShallow implements GitOperations.CloneShallow via `git clone
// --depth 1 --branch <ref>`, falling back to a full clone + checkout when
// ref isn't a branch or tag name git clone accepts directly (e.g. a raw
// commit SHA).
func (g *ShellGit) CloneShallow(ctx context.Context, url, ref, dest string) error {
	_, stderr, err := g.run(ctx, "clone", "--quiet", "--depth", "1", "--branch", ref, url, dest)
	if err == nil {
		return nil
	}

	// Branch-style shallow clone failed; ref may be a bare commit SHA.
	// Fall back to clone + fetch + checkout of that single commit.
	if _, stderr2, cloneErr := g.run(ctx, "clone", "--quiet", "--no-checkout", url, dest); cloneErr != nil {
		return fmt.Errorf("git clone %s: %s", url, firstNonEmpty(stderr2, stderr))
	}

	if _, fetchErr, err := g.run(ctx, "-C", dest, "fetch", "--quiet", "--depth", "1", "origin", ref); err != nil {
		return fmt.Errorf("git fetch %s@%s: %s", url, ref, fetchErr)
	}
	if _, checkoutErr, err := g.run(ctx, "-C", dest, "checkout", "--quiet", ref); err != nil {
		return fmt.Errorf("git checkout %s@%s: %s", url, ref, checkoutErr)
	}
	return nil
}

// ListRefs implements GitOperations.ListRefs via `git ls-remote --tags
// --heads`, returning short ref names (tag/branch, without refs/.../
// prefixes) for semver resolution (spec §4.6).
func (g *ShellGit) ListRefs(ctx context.Context, url string) ([]string, error) {
	stdout, stderr, err := g.run(ctx, "ls-remote", "--tags", "--heads", url)
	if err != nil {
		return nil, fmt.Errorf("git ls-remote %s: %s", url, stderr)
	}

	var refs []string
	for _, line := range strings.Split(string(stdout), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		name := fields[1]
		name = strings.TrimPrefix(name, "refs/tags/")
		name = strings.TrimPrefix(name, "refs/heads/")
		name = strings.TrimSuffix(name, "^{}") // dereferenced annotated tag marker
		refs = append(refs, name)
	}
	return refs, nil
}

func firstNonEmpty(candidates ...[]byte) string {
	for _, c := range candidates {
		if len(c) > 0 {
			return strings.TrimSpace(string(c))
		}
	}
	return ""
}
