package gitrepo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gizzahub/common-repo/internal/config"
)

// CacheKey derives the stable, filesystem-safe cache key for (url, ref,
// path) per spec §4.7: "a stable encoding of the canonical URL, the ref
// string, and the optional sub-path." The key embeds a short, readable
// slug (for `cache list` output) plus a content hash (to keep it
// collision-resistant and path-safe regardless of what characters the URL
// contains). url is canonicalized here too, so callers that didn't go
// through config decoding still collapse to the same key.
func CacheKey(url, ref, path string) string {
	url = config.CanonicalizeURL(url)
	slug := slugify(url)
	sum := sha256.Sum256([]byte(strings.Join([]string{url, ref, path}, "\x00")))
	return fmt.Sprintf("%s-%s-%s", slug, slugify(ref), hex.EncodeToString(sum[:])[:16])
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if len(out) > 64 {
		out = out[:64]
	}
	if out == "" {
		return "_"
	}
	return out
}
