// Package commonrepo holds build-time version metadata for the
// common-repo tool, overridable via -ldflags the same way the teacher's
// module-root version.go is.
//
//	go build -ldflags "-X github.com/gizzahub/common-repo.GitCommit=$(git rev-parse HEAD)"
package commonrepo

import (
	"fmt"
	"runtime"
)

var (
	// Version is the tool's version, following semantic versioning.
	Version = "0.1.0"

	// GitCommit is the git commit SHA of the build.
	GitCommit = "unknown"

	// BuildDate is the date the binary was built.
	BuildDate = "unknown"
)

// VersionInfo returns version, gitCommit, buildDate, and goVersion as a map.
func VersionInfo() map[string]string {
	return map[string]string{
		"version":   Version,
		"gitCommit": GitCommit,
		"buildDate": BuildDate,
		"goVersion": runtime.Version(),
	}
}

// VersionString returns a formatted version string for `common-repo version`.
func VersionString() string {
	return fmt.Sprintf("common-repo version v%s (commit: %s, built: %s)",
		Version, GitCommit, BuildDate)
}

// ShortVersion returns just the version number without prefix.
func ShortVersion() string {
	return Version
}
