package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gizzahub/common-repo/internal/clierr"
	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/memfs"
	"github.com/gizzahub/common-repo/internal/operators"
	"github.com/gizzahub/common-repo/internal/template"
)

// loadLocalDir reads every regular file under root into a MemFS, skipping
// .git and any cache directory the tool itself manages, per spec §4.8
// Phase 5's "the local working directory's own tracked files form the
// local surface that local operations run against."
func loadLocalDir(root string) (*memfs.FS, error) {
	out := memfs.New()

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("local root %s is not a directory", root)
	}

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", ".common-repo-cache":
				return filepath.SkipDir
			}
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		rel, err := filepath.Rel(root, p)
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
			Origin:      "local",
		})
	})
	if walkErr != nil {
		return nil, fmt.Errorf("load local directory %s: %w", root, walkErr)
	}

	return out, nil
}

// buildLocalIntermediate applies localOps' non-merge, non-repo operators
// (include/exclude/rename/template/template_vars/tools) against source to
// produce the local MemFS. Unlike a RepoNode's own Phase 2 processing,
// none of C_local's merge operators run here: spec §4.8 Phase 5 states
// them as a separate step against the composite, after the local fold, so
// every merge operator found is returned unapplied for the caller to run
// then (there is no "immediate, against local's own tree" case for
// C_local the way there is for a RepoNode's own composite).
func buildLocalIntermediate(ops []config.Operation, source *memfs.FS, deps operators.Deps) (*memfs.FS, map[string]bool, []*config.MergeOp, []operators.Warning, error) {
	var nonMerge []config.Operation
	var merges []*config.MergeOp
	for _, op := range ops {
		if op.Kind == config.OpRepo {
			continue
		}
		if isMergeKind(op.Kind) {
			merges = append(merges, op.Merge)
			continue
		}
		nonMerge = append(nonMerge, op)
	}

	if len(nonMerge) == 0 {
		return source.Clone(), make(map[string]bool), merges, nil, nil
	}

	st := operators.NewState(source, template.NewContext())
	for _, op := range nonMerge {
		if err := operators.Apply(st, op, deps); err != nil {
			return nil, nil, nil, nil, clierr.New(clierr.KindOperator, clierr.Origin{File: op.Location.File, Index: op.Location.Index, Operator: string(op.Kind)}, "apply local operation", err)
		}
	}

	return st.Working, st.Tagged, merges, st.Warnings, nil
}

// foldLocal runs spec §4.8 Phase 5: load the local working directory,
// apply C_local's own non-merge operations against it, fold the result
// into the composite (local wins on conflicts, per memfs.FS.MergeFrom's
// source-wins semantics), then apply every one of C_local's merge
// operators against the composite (Source=the local MemFS just built,
// Dest=composite) and substitute local's own Tagged keys using the
// already-fully-resolved global TemplateContext.
//
// Substituting local's Tagged keys here, after the fold, rather than
// inside Phase 4 proper, is a reading of spec §4.8: Phase 4 names the
// composite substitution pass before Phase 5's file loading even begins,
// which local's own template() tags cannot satisfy since their target
// files do not exist yet at that point. Running a second, otherwise
// identical substitution pass immediately after the local fold keeps the
// same variable resolution order §4.3 requires while remaining
// well-defined.
func foldLocal(localRoot string, localOps []config.Operation, composite *memfs.FS, vars *template.Context, deps operators.Deps) ([]Warning, error) {
	localSource, err := loadLocalDir(localRoot)
	if err != nil {
		return nil, clierr.New(clierr.KindOperator, clierr.Origin{File: localRoot}, "load local working directory", err)
	}

	working, tagged, merges, opWarnings, err := buildLocalIntermediate(localOps, localSource, deps)
	if err != nil {
		return nil, err
	}

	var warnings []Warning
	for _, w := range opWarnings {
		warnings = append(warnings, Warning{Kind: w.Kind, Path: w.Path, Message: w.Message})
	}

	for _, c := range composite.MergeFrom(working) {
		warnings = append(warnings, Warning{
			Kind:    "MergeConflict",
			Path:    c.Path,
			Message: fmt.Sprintf("local overwrote %s at %s", c.LeftOrigin, c.Path),
		})
	}

	for _, merge := range merges {
		ctx := operators.MergeContext{Source: working, Dest: composite}
		if err := applyMerge(ctx, merge); err != nil {
			return nil, clierr.New(clierr.KindOperator, clierr.Origin{Operator: string(merge.Format)}, "apply local merge operation", err)
		}
	}

	if err := substituteTagged(composite, tagged, vars, deps.Getenv); err != nil {
		return nil, err
	}

	return warnings, nil
}

// nonRepoOperations filters out the top-level `repo` operations of a
// configuration, which the graph already turned into nodes composed in
// Phase 3/4; everything else is local's own Phase 5 operation list.
func nonRepoOperations(ops []config.Operation) []config.Operation {
	out := make([]config.Operation, 0, len(ops))
	for _, op := range ops {
		if op.Kind == config.OpRepo {
			continue
		}
		out = append(out, op)
	}
	return out
}
