package operators

import "github.com/gizzahub/common-repo/internal/memfs"

// MergeContext is the input surface shared by all structured-merge
// operators (yaml/json/toml/ini/markdown): the FS holding op.Source and
// the FS receiving op.Dest. For an operator running immediately against
// its own node (Phase 2), Source and Dest are the same working FS; for a
// deferred operator applied at composition time (Phase 4), Source is the
// declaring repo's own IntermediateFS and Dest is the composite under
// construction (spec §4.4, §4.5).
type MergeContext struct {
	Source *memfs.FS
	Dest   *memfs.FS
}
