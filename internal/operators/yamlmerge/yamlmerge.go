// Package yamlmerge implements the `yaml` structured-merge operator of
// spec §4.5: parse both documents, navigate to path (creating missing
// intermediate containers), merge source into destination by key union
// with array-mode-aware arrays, re-serialize.
package yamlmerge

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/memfs"
	"github.com/gizzahub/common-repo/internal/merge"
	"github.com/gizzahub/common-repo/internal/operators"
)

// Apply merges op.Source into op.Dest within ctx, per the yaml row of
// spec §4.5's per-format behavior table.
func Apply(ctx operators.MergeContext, op *config.MergeOp) error {
	srcFile, ok := ctx.Source.Get(op.Source)
	if !ok {
		return fmt.Errorf("yaml merge: source %q not found", op.Source)
	}

	var srcDoc any
	if err := yaml.Unmarshal(srcFile.Content, &srcDoc); err != nil {
		return fmt.Errorf("yaml merge: parse source %q: %w", op.Source, err)
	}

	var destDoc any
	if destFile, ok := ctx.Dest.Get(op.Dest); ok {
		if err := yaml.Unmarshal(destFile.Content, &destDoc); err != nil {
			return fmt.Errorf("yaml merge: parse dest %q: %w", op.Dest, err)
		}
	}

	segs, err := merge.ParsePath(op.Path)
	if err != nil {
		return fmt.Errorf("yaml merge: %w", err)
	}

	existing, _ := merge.GetAt(destDoc, segs)

	mode := merge.ArrayMode(op.ArrayMode)
	if mode == "" {
		mode = merge.ArrayReplace
	}

	merged, err := merge.MergeInto(existing, srcDoc, mode)
	if err != nil {
		return fmt.Errorf("yaml merge %q -> %q: %w", op.Source, op.Dest, err)
	}

	newDoc, err := merge.SetAt(destDoc, segs, merged, "yaml", op.Path)
	if err != nil {
		return fmt.Errorf("yaml merge %q -> %q: %w", op.Source, op.Dest, err)
	}

	out, err := yaml.Marshal(newDoc)
	if err != nil {
		return fmt.Errorf("yaml merge: serialize %q: %w", op.Dest, err)
	}

	return ctx.Dest.Set(op.Dest, memfs.File{Content: out, Origin: "yaml-merge"})
}
