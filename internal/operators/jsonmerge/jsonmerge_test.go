package jsonmerge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/memfs"
	"github.com/gizzahub/common-repo/internal/operators"
)

func TestApplyAppendAtEnd(t *testing.T) {
	src := memfs.New()
	require.NoError(t, src.Set("patch.json", memfs.File{Content: []byte(`["c", "d"]`)}))

	dest := memfs.New()
	require.NoError(t, dest.Set("list.json", memfs.File{Content: []byte(`{"items": ["a", "b"]}`)}))

	op := &config.MergeOp{
		Format: config.FormatJSON, Source: "patch.json", Dest: "list.json",
		Path: "items", Append: true, Position: config.PositionEnd,
	}
	err := Apply(operators.MergeContext{Source: src, Dest: dest}, op)
	require.NoError(t, err)

	f, _ := dest.Get("list.json")
	require.JSONEq(t, `{"items": ["a", "b", "c", "d"]}`, string(f.Content))
}

func TestApplyMergeByKeyUnion(t *testing.T) {
	src := memfs.New()
	require.NoError(t, src.Set("patch.json", memfs.File{Content: []byte(`{"b": 2}`)}))

	dest := memfs.New()
	require.NoError(t, dest.Set("config.json", memfs.File{Content: []byte(`{"a": 1}`)}))

	op := &config.MergeOp{Format: config.FormatJSON, Source: "patch.json", Dest: "config.json"}
	err := Apply(operators.MergeContext{Source: src, Dest: dest}, op)
	require.NoError(t, err)

	f, _ := dest.Get("config.json")
	require.JSONEq(t, `{"a": 1, "b": 2}`, string(f.Content))
}
