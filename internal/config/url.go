package config

import (
	"regexp"
	"strings"
)

var shortFormPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// ExpandRepoURL expands the `owner/repo` short form into a full GitHub URL.
// URLs that are already absolute (contain a scheme) are returned unchanged.
func ExpandRepoURL(url string) string {
	if isAbsoluteURL(url) {
		return url
	}
	if shortFormPattern.MatchString(url) {
		return "https://github.com/" + url
	}
	return url
}

func isAbsoluteURL(url string) bool {
	for _, scheme := range []string{"https://", "http://", "ssh://", "git://", "git@"} {
		if strings.HasPrefix(url, scheme) {
			return true
		}
	}
	return false
}

// CanonicalizeURL implements the cache-key canonicalization rule of spec
// §3: lowercase the host, strip a trailing ".git".
func CanonicalizeURL(url string) string {
	url = strings.TrimSuffix(url, ".git")

	// Find the host segment and lowercase only that part, to avoid
	// mangling a case-sensitive path (e.g. on gitlab.com, repo paths are
	// case-sensitive).
	schemeSplit := strings.SplitN(url, "://", 2)
	if len(schemeSplit) == 2 {
		scheme, rest := schemeSplit[0], schemeSplit[1]
		hostEnd := strings.IndexByte(rest, '/')
		if hostEnd < 0 {
			hostEnd = len(rest)
		}
		host := strings.ToLower(rest[:hostEnd])
		return scheme + "://" + host + rest[hostEnd:]
	}

	// scp-like syntax: git@host:owner/repo
	if idx := strings.Index(url, "@"); idx >= 0 {
		if colon := strings.Index(url[idx:], ":"); colon >= 0 {
			host := url[idx+1 : idx+colon]
			return url[:idx+1] + strings.ToLower(host) + url[idx+colon:]
		}
	}

	return url
}
