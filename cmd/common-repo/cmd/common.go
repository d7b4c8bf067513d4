package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gizzahub/common-repo/internal/clierr"
	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/gitrepo"
	"github.com/gizzahub/common-repo/internal/logx"
	"github.com/gizzahub/common-repo/internal/pipeline"
	"github.com/gizzahub/common-repo/internal/xdgcache"
)

// defaultConfigFile is the configuration file name spec §6 names as the
// default path at the working directory root.
const defaultConfigFile = ".common-repo.yaml"

// configPath resolves the effective configuration path: --config flag,
// then $COMMON_REPO_CONFIG, then the default file name.
func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	if v := os.Getenv("COMMON_REPO_CONFIG"); v != "" {
		return v
	}
	return defaultConfigFile
}

// loadLocalConfig reads and parses the configuration file, wrapping a
// missing file as a UsageError (there is nothing to compose without one).
func loadLocalConfig() (*config.Configuration, error) {
	path := configPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, clierr.New(clierr.KindUsage, clierr.Origin{File: path}, "configuration file not found", err)
		}
		return nil, clierr.New(clierr.KindUsage, clierr.Origin{File: path}, "read configuration file", err)
	}
	return config.Parse(data, path)
}

// cacheRoot resolves the effective cache directory: --cache-root flag,
// then xdgcache.Root's own $COMMON_REPO_CACHE/platform-default resolution.
func cacheRoot() (string, error) {
	if flagCacheRoot != "" {
		return flagCacheRoot, nil
	}
	return xdgcache.Root()
}

// newLogger builds the shared logx.Logger from the --verbose/--quiet flags.
func newLogger() logx.Logger {
	if flagQuiet {
		return logx.Noop()
	}
	level := logx.LevelInfo
	if flagVerbose {
		level = logx.LevelDebug
	}
	return logx.New(os.Stderr, level)
}

// newManager builds the repository manager used by every command that
// reads repo references: a forge-aware ListRefs fast path over shell git,
// backed by a content-addressed directory cache, with forge tokens sourced
// from internal/config.ForgeTokens if present.
func newManager(log logx.Logger) (*gitrepo.Manager, error) {
	root, err := cacheRoot()
	if err != nil {
		return nil, clierr.New(clierr.KindCache, clierr.Origin{}, "resolve cache root", err)
	}

	forgeCfg, err := config.LoadDefault()
	if err != nil {
		return nil, clierr.New(clierr.KindCache, clierr.Origin{}, "load forge credentials", err)
	}

	shell := gitrepo.NewShellGit()
	forgeAware := gitrepo.NewForgeAwareGit(shell, forgeCfg.GitHub.Token, forgeCfg.GitLab.Token, log)
	cache := gitrepo.NewDirCache(root)

	return gitrepo.NewManager(forgeAware, cache, log), nil
}

// runPipeline loads the local configuration and runs Phases 1-5, the
// common first step of ls and diff.
func runPipeline(ctx context.Context) (*pipeline.Result, error) {
	local, err := loadLocalConfig()
	if err != nil {
		return nil, err
	}

	log := newLogger()
	mgr, err := newManager(log)
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, clierr.New(clierr.KindUsage, clierr.Origin{}, "resolve working directory", err)
	}

	p := pipeline.New(mgr, cwd)
	return p.Run(ctx, local)
}

// exitCodeFor maps an error to spec §6's exit-code convention: 2 for a
// UsageError, 1 for anything else, 0 is never reached here (Execute only
// calls this on a non-nil error).
func exitCodeFor(err error) int {
	var clie *clierr.Error
	if errors.As(err, &clie) && clie.Kind == clierr.KindUsage {
		return 2
	}
	return 1
}

// printWarnings writes every collected pipeline.Warning to stderr.
func printWarnings(warnings []pipeline.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: [%s] %s: %s\n", w.Kind, w.Path, w.Message)
	}
}
