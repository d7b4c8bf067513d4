package gitrepo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"github.com/xanzy/go-gitlab"
	"golang.org/x/oauth2"

	"github.com/gizzahub/common-repo/internal/logx"
)

// ForgeAwareGit wraps a GitOperations, using the GitHub/GitLab REST APIs
// for ListRefs when url identifies a repository on one of those hosts (a
// single paginated API call beats a full `git ls-remote` round trip for
// large tag lists) and falling back to the wrapped implementation
// otherwise. CloneShallow always delegates: git still does the actual
// object transfer either way. Grounded on the teacher's pkg/github and
// pkg/gitlab provider wrappers around go-github/v66 and xanzy/go-gitlab.
type ForgeAwareGit struct {
	Fallback GitOperations

	GitHubToken string
	GitLabToken string

	Log logx.Logger
}

// NewForgeAwareGit wraps fallback with forge fast paths.
func NewForgeAwareGit(fallback GitOperations, githubToken, gitlabToken string, log logx.Logger) *ForgeAwareGit {
	if log == nil {
		log = logx.Noop()
	}
	return &ForgeAwareGit{Fallback: fallback, GitHubToken: githubToken, GitLabToken: gitlabToken, Log: log}
}

func (g *ForgeAwareGit) CloneShallow(ctx context.Context, url, ref, dest string) error {
	return g.Fallback.CloneShallow(ctx, url, ref, dest)
}

func (g *ForgeAwareGit) ListRefs(ctx context.Context, rawURL string) ([]string, error) {
	host, owner, repo, ok := parseForgeURL(rawURL)
	if !ok {
		return g.Fallback.ListRefs(ctx, rawURL)
	}

	switch host {
	case "github.com":
		refs, err := g.listGitHubRefs(ctx, owner, repo)
		if err != nil {
			g.Log.Debug("github ref listing failed for %s, falling back to git: %v", rawURL, err)
			return g.Fallback.ListRefs(ctx, rawURL)
		}
		return refs, nil

	case "gitlab.com":
		refs, err := g.listGitLabRefs(ctx, owner, repo)
		if err != nil {
			g.Log.Debug("gitlab ref listing failed for %s, falling back to git: %v", rawURL, err)
			return g.Fallback.ListRefs(ctx, rawURL)
		}
		return refs, nil

	default:
		return g.Fallback.ListRefs(ctx, rawURL)
	}
}

func (g *ForgeAwareGit) githubClient(ctx context.Context) *github.Client {
	if g.GitHubToken == "" {
		return github.NewClient(nil)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: g.GitHubToken})
	return github.NewClient(oauth2.NewClient(ctx, ts))
}

func (g *ForgeAwareGit) listGitHubRefs(ctx context.Context, owner, repo string) ([]string, error) {
	client := g.githubClient(ctx)

	var refs []string
	opts := &github.ListOptions{PerPage: 100}
	for {
		tags, resp, err := client.Repositories.ListTags(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list github tags for %s/%s: %w", owner, repo, err)
		}
		for _, t := range tags {
			refs = append(refs, t.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	branchOpts := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		branches, resp, err := client.Repositories.ListBranches(ctx, owner, repo, branchOpts)
		if err != nil {
			return nil, fmt.Errorf("list github branches for %s/%s: %w", owner, repo, err)
		}
		for _, b := range branches {
			refs = append(refs, b.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		branchOpts.Page = resp.NextPage
	}

	return refs, nil
}

func (g *ForgeAwareGit) gitlabClient() (*gitlab.Client, error) {
	if g.GitLabToken == "" {
		return gitlab.NewClient("")
	}
	return gitlab.NewClient(g.GitLabToken)
}

func (g *ForgeAwareGit) listGitLabRefs(ctx context.Context, owner, repo string) ([]string, error) {
	client, err := g.gitlabClient()
	if err != nil {
		return nil, fmt.Errorf("create gitlab client: %w", err)
	}

	project := owner + "/" + repo

	var refs []string
	opts := &gitlab.ListTagsOptions{ListOptions: gitlab.ListOptions{PerPage: 100}}
	for {
		tags, resp, err := client.Tags.ListTags(project, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("list gitlab tags for %s: %w", project, err)
		}
		for _, t := range tags {
			refs = append(refs, t.Name)
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	branchOpts := &gitlab.ListBranchesOptions{ListOptions: gitlab.ListOptions{PerPage: 100}}
	for {
		branches, resp, err := client.Branches.ListBranches(project, branchOpts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("list gitlab branches for %s: %w", project, err)
		}
		for _, b := range branches {
			refs = append(refs, b.Name)
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		branchOpts.Page = resp.NextPage
	}

	return refs, nil
}

// parseForgeURL extracts (host, owner, repo) from a github.com/gitlab.com
// HTTPS or SSH-style URL, e.g. "https://github.com/org/repo.git" or
// "git@github.com:org/repo.git".
func parseForgeURL(raw string) (host, owner, repo string, ok bool) {
	if strings.HasPrefix(raw, "git@") {
		rest := strings.TrimPrefix(raw, "git@")
		parts := strings.SplitN(rest, ":", 2)
		if len(parts) != 2 {
			return "", "", "", false
		}
		host = parts[0]
		return parsePath(host, parts[1])
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", "", "", false
	}
	return parsePath(u.Host, strings.TrimPrefix(u.Path, "/"))
}

func parsePath(host, path string) (string, string, string, bool) {
	path = strings.TrimSuffix(path, ".git")
	path = strings.Trim(path, "/")
	segs := strings.Split(path, "/")
	if len(segs) < 2 {
		return "", "", "", false
	}
	return host, segs[0], segs[1], true
}
