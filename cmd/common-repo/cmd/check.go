package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/semver"
)

var checkUpdates bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and, with --updates, report available tag bumps",
	Long: `check parses the configuration; without --updates it does not fetch
or resolve any repo reference. With --updates it also lists, for each repo operation pinned to a
semver tag, the highest compatible and latest tag found on the remote.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkUpdates, "updates", false, "report available semver updates for each repo reference")
}

// updateCandidate names one repo operation's available bumps.
type updateCandidate struct {
	url        string
	current    string
	compatible string
	latest     string
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	local, err := loadLocalConfig()
	if err != nil {
		return err
	}

	if !checkUpdates {
		fmt.Println("configuration OK")
		return nil
	}

	log := newLogger()
	mgr, err := newManager(log)
	if err != nil {
		return err
	}

	candidates, err := collectUpdateCandidates(ctx, mgr.ListRefs, local.Operations)
	if err != nil {
		return err
	}

	if len(candidates) == 0 {
		fmt.Println("all repo references are up to date")
		return nil
	}

	for _, c := range candidates {
		fmt.Printf("%s: current=%s compatible=%s latest=%s\n", c.url, c.current, orNone(c.compatible), orNone(c.latest))
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// listRefsFunc matches *gitrepo.Manager.ListRefs, narrowed so this file
// doesn't need the gitrepo import just to be testable in isolation.
type listRefsFunc func(ctx context.Context, url string) ([]string, error)

func collectUpdateCandidates(ctx context.Context, listRefs listRefsFunc, ops []config.Operation) ([]updateCandidate, error) {
	var out []updateCandidate
	for _, op := range ops {
		if op.Kind != config.OpRepo {
			continue
		}
		repo := op.Repo

		if _, ok := semver.ParseTag(repo.Ref); ok {
			tags, err := listRefs(ctx, repo.URL)
			if err != nil {
				return nil, err
			}

			c := updateCandidate{url: repo.URL, current: repo.Ref}
			if tag, ok := semver.Resolve(tags, repo.Ref, semver.Compatible); ok {
				c.compatible = tag
			}
			if tag, ok := semver.Resolve(tags, repo.Ref, semver.Latest); ok {
				c.latest = tag
			}
			if c.compatible != "" || c.latest != "" {
				out = append(out, c)
			}
		}

		nested, err := collectUpdateCandidates(ctx, listRefs, repo.With)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}
	return out, nil
}
