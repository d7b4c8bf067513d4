package operators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/memfs"
	"github.com/gizzahub/common-repo/internal/template"
)

func newSourceFS(t *testing.T, files map[string]string) *memfs.FS {
	t.Helper()
	fs := memfs.New()
	for p, content := range files {
		require.NoError(t, fs.Set(p, memfs.File{Content: []byte(content), Origin: "source"}))
	}
	return fs
}

func TestApplyIncludeCopiesMatchingFiles(t *testing.T) {
	src := newSourceFS(t, map[string]string{
		"src/main.go":        "package main",
		"src/util.go":        "package main",
		"docs/readme.md":     "# readme",
		"src/test/a_test.go": "package main",
	})

	st := NewState(src, template.NewContext())
	err := applyInclude(st, &config.PatternsOp{Patterns: []string{"src/**"}})
	require.NoError(t, err)

	assert.Equal(t, 3, st.Working.Len())
	assert.True(t, st.Working.Exists("src/main.go"))
	assert.False(t, st.Working.Exists("docs/readme.md"))
}

func TestApplyExcludeRemovesMatchingAndUntagsThem(t *testing.T) {
	st := NewState(memfs.New(), template.NewContext())
	require.NoError(t, st.Working.Set("src/test/a_test.go", memfs.File{Content: []byte("x")}))
	require.NoError(t, st.Working.Set("src/main.go", memfs.File{Content: []byte("x")}))
	st.Tagged["src/test/a_test.go"] = true

	err := applyExclude(st, &config.PatternsOp{Patterns: []string{"src/test/**"}})
	require.NoError(t, err)

	assert.False(t, st.Working.Exists("src/test/a_test.go"))
	assert.True(t, st.Working.Exists("src/main.go"))
	assert.False(t, st.Tagged["src/test/a_test.go"])
}

func TestApplyRenameEmitsCollisionWarning(t *testing.T) {
	st := NewState(memfs.New(), template.NewContext())
	require.NoError(t, st.Working.Set("old.txt", memfs.File{Content: []byte("old")}))
	require.NoError(t, st.Working.Set("new.txt", memfs.File{Content: []byte("existing")}))

	op := &config.RenameOp{Entries: []config.RenameEntry{
		{Pattern: `old\.txt`, Target: "new.txt"},
	}}

	err := applyRename(st, op)
	require.NoError(t, err)

	require.Len(t, st.Warnings, 1)
	assert.Equal(t, "RenameCollision", st.Warnings[0].Kind)

	f, ok := st.Working.Get("new.txt")
	require.True(t, ok)
	assert.Equal(t, "old", string(f.Content))
}

func TestApplyTemplateTagMarksMatches(t *testing.T) {
	st := NewState(memfs.New(), template.NewContext())
	require.NoError(t, st.Working.Set("config/app.yaml", memfs.File{Content: []byte("x")}))

	err := applyTemplateTag(st, &config.PatternsOp{Patterns: []string{"config/**"}})
	require.NoError(t, err)
	assert.True(t, st.Tagged["config/app.yaml"])
}

func TestApplyTemplateVarsResolvesAgainstEnv(t *testing.T) {
	st := NewState(memfs.New(), template.NewContext())
	getenv := func(name string) (string, bool) {
		if name == "REGION" {
			return "us-east-1", true
		}
		return "", false
	}

	op := &config.TemplateVarsOp{Entries: []config.KV{
		{Key: "region", Value: "${REGION}"},
		{Key: "tier", Value: "${TIER:-backend}"},
	}}

	err := applyTemplateVars(st, op, getenv)
	require.NoError(t, err)

	v, ok := st.Vars.Lookup("region")
	require.True(t, ok)
	assert.Equal(t, "us-east-1", v)

	v, ok = st.Vars.Lookup("tier")
	require.True(t, ok)
	assert.Equal(t, "backend", v)
}

func TestApplyTemplateVarsUndefinedFails(t *testing.T) {
	st := NewState(memfs.New(), template.NewContext())
	getenv := func(string) (string, bool) { return "", false }

	op := &config.TemplateVarsOp{Entries: []config.KV{{Key: "x", Value: "${MISSING}"}}}
	err := applyTemplateVars(st, op, getenv)
	assert.Error(t, err)
}

func TestApplyToolsWarnsOnMissingAndMismatch(t *testing.T) {
	st := NewState(memfs.New(), template.NewContext())

	toolVersion := func(name string) (string, bool) {
		switch name {
		case "terraform":
			return "1.5.0", true
		case "kubectl":
			return "", false
		}
		return "", false
	}

	op := &config.ToolsOp{Entries: []config.KV{
		{Key: "terraform", Value: ">= 1.6.0"},
		{Key: "kubectl", Value: ""},
	}}

	applyTools(st, op, toolVersion)

	require.Len(t, st.Warnings, 2)
	kinds := map[string]bool{}
	for _, w := range st.Warnings {
		kinds[w.Kind] = true
	}
	assert.True(t, kinds["ToolVersionMismatch"])
	assert.True(t, kinds["ToolMissing"])
}
