package memfs

import "testing"

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"*.txt", "a.txt", true},
		{"*.txt", "dir/a.txt", false},
		{"**/*.txt", "dir/a.txt", true},
		{"**/*.txt", "dir/sub/a.txt", true},
		{"**/*.txt", "a.txt", true},
		{"**/*", "a/b/c", true},
		{".*", ".gitignore", true},
		{".*", "gitignore", false},
		{".*/**/*", ".github/workflows/ci.yml", true},
		{".*/**/*", "github/workflows/ci.yml", false},
		{"ci/*.yml", "ci/github.yml", true},
		{"ci/*.yml", "ci/nested/github.yml", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"#"+tt.path, func(t *testing.T) {
			if got := MatchGlob(tt.pattern, tt.path); got != tt.want {
				t.Errorf("MatchGlob(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}
