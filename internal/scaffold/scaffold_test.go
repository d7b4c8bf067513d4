package scaffold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gizzahub/common-repo/internal/config"
)

func TestRenderBasicProducesParseableConfig(t *testing.T) {
	out, err := Render(Basic, BasicData{
		URL:      "https://github.com/acme/shared-ci",
		Ref:      "v1.0.0",
		Patterns: []string{"**/*.yml", ".github/**"},
	})
	require.NoError(t, err)

	cfg, err := config.Parse([]byte(out), "generated.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Operations, 1)
	assert.Equal(t, config.OpRepo, cfg.Operations[0].Kind)
	assert.Equal(t, "v1.0.0", cfg.Operations[0].Repo.Ref)
	assert.Len(t, cfg.Operations[0].Repo.With, 1)
}

func TestRenderWithRenameProducesParseableConfig(t *testing.T) {
	out, err := Render(WithRename, WithRenameData{
		URL:         "https://github.com/acme/shared-ci",
		Ref:         "main",
		Patterns:    []string{"**/*"},
		ProjectName: "demo",
	})
	require.NoError(t, err)

	cfg, err := config.Parse([]byte(out), "generated.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Operations, 2)
	assert.Equal(t, config.OpTemplateVars, cfg.Operations[1].Kind)
}

func TestRenderLocalOnlyProducesParseableConfig(t *testing.T) {
	out, err := Render(LocalOnly, LocalOnlyData{
		Patterns:    []string{"**/*"},
		ProjectName: "demo",
	})
	require.NoError(t, err)

	cfg, err := config.Parse([]byte(out), "generated.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Operations, 2)
	assert.Equal(t, config.OpInclude, cfg.Operations[0].Kind)
}

func TestRenderMultiRepoProducesParseableConfig(t *testing.T) {
	out, err := Render(MultiRepo, MultiRepoData{
		PrimaryURL:   "https://github.com/acme/shared-ci",
		PrimaryRef:   "v1.0.0",
		SecondaryURL: "https://github.com/acme/shared-docs",
		SecondaryRef: "main",
		ProjectName:  "demo",
	})
	require.NoError(t, err)

	cfg, err := config.Parse([]byte(out), "generated.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Operations, 3)
	assert.Equal(t, config.OpRepo, cfg.Operations[0].Kind)
	assert.Equal(t, config.OpRepo, cfg.Operations[1].Kind)
	assert.Equal(t, config.OpTemplateVars, cfg.Operations[2].Kind)
}

func TestListReturnsAllTemplates(t *testing.T) {
	assert.Len(t, List(), 4)
}
