package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCanonicalShape(t *testing.T) {
	doc := []byte(`
- repo:
    url: owner/repo
    ref: v1.0.0
- include:
    - "**/*"
- exclude:
    - "*.bak"
`)

	cfg, err := Parse(doc, "test.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Operations, 3)

	assert.Equal(t, OpRepo, cfg.Operations[0].Kind)
	assert.Equal(t, "https://github.com/owner/repo", cfg.Operations[0].Repo.URL)
	assert.Equal(t, "v1.0.0", cfg.Operations[0].Repo.Ref)

	assert.Equal(t, OpInclude, cfg.Operations[1].Kind)
	assert.Equal(t, []string{"**/*"}, cfg.Operations[1].Include.Patterns)

	assert.Equal(t, OpExclude, cfg.Operations[2].Kind)
}

func TestParseLegacyShape(t *testing.T) {
	doc := []byte(`
repos:
  - url: https://github.com/org/a
    ref: main
  - url: https://github.com/org/b
    ref: v2.0.0
include:
  - "**/*"
`)

	cfg, err := Parse(doc, "legacy.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Operations, 3)
	assert.Equal(t, OpRepo, cfg.Operations[0].Kind)
	assert.Equal(t, OpRepo, cfg.Operations[1].Kind)
	assert.Equal(t, OpInclude, cfg.Operations[2].Kind)
}

func TestParseRejectsMultiKeyEntry(t *testing.T) {
	doc := []byte(`
- include: ["**/*"]
  exclude: ["*.bak"]
`)
	_, err := Parse(doc, "bad.yaml")
	require.Error(t, err)
}

func TestParseRejectsUnknownOperation(t *testing.T) {
	doc := []byte(`
- frobnicate:
    foo: bar
`)
	_, err := Parse(doc, "bad.yaml")
	require.Error(t, err)
}

func TestParseRepoRequiresURLAndRef(t *testing.T) {
	_, err := Parse([]byte(`
- repo:
    ref: main
`), "bad.yaml")
	require.Error(t, err)

	_, err = Parse([]byte(`
- repo:
    url: owner/repo
`), "bad.yaml")
	require.Error(t, err)
}

func TestParseRenameValidatesRegex(t *testing.T) {
	_, err := Parse([]byte(`
- rename:
    - "[unterminated": "x"
`), "bad.yaml")
	require.Error(t, err)
}

func TestParseMergeRequiresSourceDestXorAutoMerge(t *testing.T) {
	_, err := Parse([]byte(`
- yaml:
    path: "a.b"
`), "bad.yaml")
	require.Error(t, err)

	_, err = Parse([]byte(`
- yaml:
    source: a.yaml
    dest: b.yaml
    auto-merge: c.yaml
`), "bad.yaml")
	require.Error(t, err)

	cfg, err := Parse([]byte(`
- markdown:
    auto-merge: CLAUDE.md
    append: true
    section: "## Rules"
`), "ok.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Operations, 1)
	m := cfg.Operations[0].Merge
	require.NotNil(t, m)
	assert.Equal(t, "CLAUDE.md", m.Source)
	assert.Equal(t, "CLAUDE.md", m.Dest)
	assert.True(t, m.Defer)
	assert.True(t, m.Append)
}

func TestParseToolsValidatesConstraint(t *testing.T) {
	_, err := Parse([]byte(`
- tools:
    git: "not-a-constraint!!"
`), "bad.yaml")
	require.Error(t, err)

	cfg, err := Parse([]byte(`
- tools:
    git: ">=2.30"
    jq: "*"
`), "ok.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Operations[0].Tools.Entries, 2)
}

func TestExpandRepoURL(t *testing.T) {
	assert.Equal(t, "https://github.com/owner/repo", ExpandRepoURL("owner/repo"))
	assert.Equal(t, "https://example.com/owner/repo.git", ExpandRepoURL("https://example.com/owner/repo.git"))
	assert.Equal(t, "git@github.com:owner/repo.git", ExpandRepoURL("git@github.com:owner/repo.git"))
}

func TestCanonicalizeURL(t *testing.T) {
	assert.Equal(t, "https://github.com/owner/repo", CanonicalizeURL("https://GitHub.com/owner/repo.git"))
	assert.Equal(t, "git@github.com:owner/repo", CanonicalizeURL("git@GitHub.com:owner/repo"))
}
