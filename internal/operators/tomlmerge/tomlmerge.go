// Package tomlmerge implements the `toml` structured-merge operator of
// spec §4.5, built on pelletier/go-toml/v2 the same way the mazdak-vibeman
// config loader in the example pack decodes TOML into a generic map.
package tomlmerge

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/memfs"
	"github.com/gizzahub/common-repo/internal/merge"
	"github.com/gizzahub/common-repo/internal/operators"
)

// Apply merges op.Source into op.Dest within ctx.
func Apply(ctx operators.MergeContext, op *config.MergeOp) error {
	srcFile, ok := ctx.Source.Get(op.Source)
	if !ok {
		return fmt.Errorf("toml merge: source %q not found", op.Source)
	}

	var srcDoc map[string]any
	if err := toml.Unmarshal(srcFile.Content, &srcDoc); err != nil {
		return fmt.Errorf("toml merge: parse source %q: %w", op.Source, err)
	}

	var destDoc any = map[string]any{}
	var destFile memfs.File
	if f, ok := ctx.Dest.Get(op.Dest); ok {
		destFile = f
		var decoded map[string]any
		if err := toml.Unmarshal(f.Content, &decoded); err != nil {
			return fmt.Errorf("toml merge: parse dest %q: %w", op.Dest, err)
		}
		destDoc = decoded
	}

	segs, err := merge.ParsePath(op.Path)
	if err != nil {
		return fmt.Errorf("toml merge: %w", err)
	}

	existing, _ := merge.GetAt(destDoc, segs)

	mode := merge.ArrayMode(op.ArrayMode)
	if mode == "" {
		mode = merge.ArrayReplace
	}

	merged, err := merge.MergeInto(existing, mapAny(srcDoc), mode)
	if err != nil {
		return fmt.Errorf("toml merge %q -> %q: %w", op.Source, op.Dest, err)
	}

	newDoc, err := merge.SetAt(destDoc, segs, merged, "toml", op.Path)
	if err != nil {
		return fmt.Errorf("toml merge %q -> %q: %w", op.Source, op.Dest, err)
	}

	out, err := toml.Marshal(newDoc)
	if err != nil {
		return fmt.Errorf("toml merge: serialize %q: %w", op.Dest, err)
	}

	if op.PreserveComments && len(destFile.Content) > 0 {
		out = reattachComments(destFile.Content, out)
	}

	return ctx.Dest.Set(op.Dest, memfs.File{Content: out, Origin: "toml-merge"})
}

func mapAny(m map[string]any) any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
