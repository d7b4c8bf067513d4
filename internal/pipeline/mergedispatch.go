package pipeline

import (
	"fmt"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/operators"
	"github.com/gizzahub/common-repo/internal/operators/inimerge"
	"github.com/gizzahub/common-repo/internal/operators/jsonmerge"
	"github.com/gizzahub/common-repo/internal/operators/mdmerge"
	"github.com/gizzahub/common-repo/internal/operators/tomlmerge"
	"github.com/gizzahub/common-repo/internal/operators/yamlmerge"
)

// applyMerge routes op to its format's structured-merge implementation
// (spec §4.5). ctx.Source/ctx.Dest are set by the caller depending on
// whether this is an immediate (Phase 2) or deferred (Phase 4) merge.
func applyMerge(ctx operators.MergeContext, op *config.MergeOp) error {
	switch op.Format {
	case config.FormatYAML:
		return yamlmerge.Apply(ctx, op)
	case config.FormatJSON:
		return jsonmerge.Apply(ctx, op)
	case config.FormatTOML:
		return tomlmerge.Apply(ctx, op)
	case config.FormatINI:
		return inimerge.Apply(ctx, op)
	case config.FormatMarkdown:
		return mdmerge.Apply(ctx, op)
	default:
		return fmt.Errorf("unrecognized merge format %q", op.Format)
	}
}
