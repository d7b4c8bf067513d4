package mdmerge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/memfs"
	"github.com/gizzahub/common-repo/internal/operators"
)

func TestApplyReplacesExistingSection(t *testing.T) {
	src := memfs.New()
	require.NoError(t, src.Set("frag.md", memfs.File{Content: []byte("New usage text.\n")}))

	dest := memfs.New()
	require.NoError(t, dest.Set("README.md", memfs.File{Content: []byte(
		"# Title\n\n## Usage\n\nOld usage text.\n\n## License\n\nMIT\n",
	)}))

	op := &config.MergeOp{Format: config.FormatMarkdown, Source: "frag.md", Dest: "README.md", Section: "Usage", Level: 2}
	err := Apply(operators.MergeContext{Source: src, Dest: dest}, op)
	require.NoError(t, err)

	f, _ := dest.Get("README.md")
	content := string(f.Content)
	require.Contains(t, content, "New usage text.")
	require.NotContains(t, content, "Old usage text.")
	require.Contains(t, content, "## License")
}

func TestApplyCreatesSectionWhenMissing(t *testing.T) {
	src := memfs.New()
	require.NoError(t, src.Set("frag.md", memfs.File{Content: []byte("Contributing notes.\n")}))

	dest := memfs.New()
	require.NoError(t, dest.Set("README.md", memfs.File{Content: []byte("# Title\n\nIntro.\n")}))

	op := &config.MergeOp{
		Format: config.FormatMarkdown, Source: "frag.md", Dest: "README.md",
		Section: "Contributing", Level: 2, CreateSection: true,
	}
	err := Apply(operators.MergeContext{Source: src, Dest: dest}, op)
	require.NoError(t, err)

	f, _ := dest.Get("README.md")
	content := string(f.Content)
	require.Contains(t, content, "## Contributing")
	require.Contains(t, content, "Contributing notes.")
}

func TestApplyMissingSectionWithoutCreateFails(t *testing.T) {
	src := memfs.New()
	require.NoError(t, src.Set("frag.md", memfs.File{Content: []byte("x\n")}))

	dest := memfs.New()
	require.NoError(t, dest.Set("README.md", memfs.File{Content: []byte("# Title\n")}))

	op := &config.MergeOp{Format: config.FormatMarkdown, Source: "frag.md", Dest: "README.md", Section: "Missing", Level: 2}
	err := Apply(operators.MergeContext{Source: src, Dest: dest}, op)
	require.Error(t, err)
}
