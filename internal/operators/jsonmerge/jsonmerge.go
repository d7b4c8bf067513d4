// Package jsonmerge implements the `json` structured-merge operator of
// spec §4.5: the same key-union/array-mode merge as yaml, plus the
// json-specific append+position shorthand for array targets.
package jsonmerge

import (
	"encoding/json"
	"fmt"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/memfs"
	"github.com/gizzahub/common-repo/internal/merge"
	"github.com/gizzahub/common-repo/internal/operators"
)

// Apply merges op.Source into op.Dest within ctx.
func Apply(ctx operators.MergeContext, op *config.MergeOp) error {
	srcFile, ok := ctx.Source.Get(op.Source)
	if !ok {
		return fmt.Errorf("json merge: source %q not found", op.Source)
	}

	var srcDoc any
	if err := json.Unmarshal(srcFile.Content, &srcDoc); err != nil {
		return fmt.Errorf("json merge: parse source %q: %w", op.Source, err)
	}

	var destDoc any
	if destFile, ok := ctx.Dest.Get(op.Dest); ok {
		if err := json.Unmarshal(destFile.Content, &destDoc); err != nil {
			return fmt.Errorf("json merge: parse dest %q: %w", op.Dest, err)
		}
	}

	segs, err := merge.ParsePath(op.Path)
	if err != nil {
		return fmt.Errorf("json merge: %w", err)
	}

	existing, _ := merge.GetAt(destDoc, segs)

	var result any
	if op.Append {
		result = appendAtPosition(existing, srcDoc, op.Position)
	} else {
		mode := merge.ArrayMode(op.ArrayMode)
		if mode == "" {
			mode = merge.ArrayReplace
		}
		result, err = merge.MergeInto(existing, srcDoc, mode)
		if err != nil {
			return fmt.Errorf("json merge %q -> %q: %w", op.Source, op.Dest, err)
		}
	}

	newDoc, err := merge.SetAt(destDoc, segs, result, "json", op.Path)
	if err != nil {
		return fmt.Errorf("json merge %q -> %q: %w", op.Source, op.Dest, err)
	}

	out, err := json.MarshalIndent(newDoc, "", "  ")
	if err != nil {
		return fmt.Errorf("json merge: serialize %q: %w", op.Dest, err)
	}
	out = append(out, '\n')

	return ctx.Dest.Set(op.Dest, memfs.File{Content: out, Origin: "json-merge"})
}

// appendAtPosition implements spec §4.5's "json additionally supports
// append: true + position: start|end when the target is an array."
// source may itself be an array (its elements are spliced in) or a
// single value (appended as one element).
func appendAtPosition(existing, source any, position config.Position) []any {
	target, _ := existing.([]any)

	var items []any
	if arr, ok := source.([]any); ok {
		items = arr
	} else {
		items = []any{source}
	}

	if position == config.PositionStart {
		out := make([]any, 0, len(items)+len(target))
		out = append(out, items...)
		out = append(out, target...)
		return out
	}

	out := make([]any, 0, len(target)+len(items))
	out = append(out, target...)
	out = append(out, items...)
	return out
}
