package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCompatibleAndLatest(t *testing.T) {
	tags := []string{"v1.0.0", "v1.2.3", "v2.0.0", "not-a-version", "main"}

	compat, ok := Resolve(tags, "v1.0.0", Compatible)
	assert.True(t, ok)
	assert.Equal(t, "v1.2.3", compat)

	latest, ok := Resolve(tags, "v1.0.0", Latest)
	assert.True(t, ok)
	assert.Equal(t, "v2.0.0", latest)
}

func TestResolveEmptyWhenNothingGreater(t *testing.T) {
	_, ok := Resolve([]string{"v1.0.0"}, "v2.0.0", Latest)
	assert.False(t, ok)
}

func TestResolveNeverReturnsNonSemverTag(t *testing.T) {
	tags := []string{"main", "feature/x", "deadbeef"}
	_, ok := Resolve(tags, "v1.0.0", Latest)
	assert.False(t, ok)
}

func TestResolveOrdersPrereleaseBelowRelease(t *testing.T) {
	tags := []string{"v1.1.0-beta.1", "v1.1.0"}
	best, ok := Resolve(tags, "v1.0.0", Latest)
	assert.True(t, ok)
	assert.Equal(t, "v1.1.0", best)
}

func TestHighestSemverFallsBackToNone(t *testing.T) {
	_, ok := HighestSemver([]string{"main", "dev"})
	assert.False(t, ok)

	tag, ok := HighestSemver([]string{"v0.1.0", "v1.0.0", "v0.9.0"})
	assert.True(t, ok)
	assert.Equal(t, "v1.0.0", tag)
}

func TestWarnsPreStable(t *testing.T) {
	assert.True(t, WarnsPreStable([]string{"v0.1.0", "v0.2.0"}))
	assert.False(t, WarnsPreStable([]string{"v0.1.0", "v1.0.0"}))
	assert.False(t, WarnsPreStable([]string{"main"}))
}
