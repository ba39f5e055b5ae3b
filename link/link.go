// Package link holds the predicates and normalizers applied to every candidate URL.
package link

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// VideoExtensions are the file extensions treated as directly playable.
var VideoExtensions = []string{".mp4", ".m3u8", ".webm", ".mkv", ".avi"}

var (
	controlRe   = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f]`)
	backslashRe = regexp.MustCompile(`\\{2,}`)
	caretRe     = regexp.MustCompile(`\^{2,}`)
	spaceRunRe  = regexp.MustCompile(`\s{2,}`)
)

// IsCorrupted reports whether u shows signs of a garbled decode: control
// characters, line breaks, whitespace runs, or repeated backslashes or carets.
// The empty string is not corrupted.
func IsCorrupted(u string) bool {
	if u == "" {
		return false
	}

	if strings.ContainsAny(u, "\r\n") {
		return true
	}

	return controlRe.MatchString(u) ||
		spaceRunRe.MatchString(u) ||
		backslashRe.MatchString(u) ||
		caretRe.MatchString(u)
}

// IsWellFormed reports whether u is either an http(s) URL or a plausible
// scheme-less host reference.
func IsWellFormed(u string) bool {
	if HasScheme(u) {
		return true
	}
	return strings.Contains(u, ".") && !strings.Contains(u, " ") && len(u) > 3
}

// HasScheme reports whether u starts with http:// or https://.
func HasScheme(u string) bool {
	lower := strings.ToLower(u)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// EnsureScheme prefixes https:// to scheme-less references.
func EnsureScheme(u string) string {
	switch {
	case HasScheme(u):
		return u
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	default:
		return "https://" + strings.TrimLeft(u, "/")
	}
}

// Extension returns the lowercased path extension of u, ignoring query and fragment.
func Extension(u string) string {
	if parsed, err := url.Parse(u); err == nil {
		return strings.ToLower(path.Ext(parsed.Path))
	}

	u, _, _ = strings.Cut(u, "?")
	u, _, _ = strings.Cut(u, "#")
	return strings.ToLower(path.Ext(u))
}

// HasVideoExtension reports whether u points straight at a media file or manifest.
func HasVideoExtension(u string) bool {
	return lo.Contains(VideoExtensions, Extension(u))
}

// Host returns the lowercased hostname of u without port, or "" when u does not parse.
func Host(u string) string {
	parsed, err := url.Parse(EnsureScheme(strings.TrimSpace(u)))
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// HostMatches reports whether the host of u equals one of domains or is a subdomain of it.
// Domains without a dot match any host label, so "streamtape" matches streamtape.to.
func HostMatches(u string, domains ...string) bool {
	_, ok := MatchHost(u, domains...)
	return ok
}

// MatchHost returns the first of domains that the host of u matches.
func MatchHost(u string, domains ...string) (string, bool) {
	host := Host(u)
	if host == "" {
		return "", false
	}

	return lo.Find(domains, func(d string) bool {
		if !strings.Contains(d, ".") {
			return lo.Contains(strings.Split(host, "."), d)
		}
		return host == d || strings.HasSuffix(host, "."+d)
	})
}
