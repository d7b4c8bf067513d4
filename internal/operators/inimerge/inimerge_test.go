package inimerge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/memfs"
	"github.com/gizzahub/common-repo/internal/operators"
)

func TestApplyReplacesExistingKeys(t *testing.T) {
	src := memfs.New()
	require.NoError(t, src.Set("patch.ini", memfs.File{Content: []byte("[server]\nhost = patched\nport = 9090\n")}))

	dest := memfs.New()
	require.NoError(t, dest.Set("config.ini", memfs.File{Content: []byte("[server]\nhost = original\n")}))

	op := &config.MergeOp{Format: config.FormatINI, Source: "patch.ini", Dest: "config.ini", Section: "server"}
	err := Apply(operators.MergeContext{Source: src, Dest: dest}, op)
	require.NoError(t, err)

	f, _ := dest.Get("config.ini")
	require.Contains(t, string(f.Content), "host = patched")
	require.Contains(t, string(f.Content), "port = 9090")
}

func TestApplyAppendDoesNotReplaceExisting(t *testing.T) {
	src := memfs.New()
	require.NoError(t, src.Set("patch.ini", memfs.File{Content: []byte("[server]\nhost = patched\nextra = 1\n")}))

	dest := memfs.New()
	require.NoError(t, dest.Set("config.ini", memfs.File{Content: []byte("[server]\nhost = original\n")}))

	op := &config.MergeOp{Format: config.FormatINI, Source: "patch.ini", Dest: "config.ini", Section: "server", Append: true}
	err := Apply(operators.MergeContext{Source: src, Dest: dest}, op)
	require.NoError(t, err)

	f, _ := dest.Get("config.ini")
	require.Contains(t, string(f.Content), "host = original")
	require.Contains(t, string(f.Content), "extra = 1")
}
