package extract

import (
	"bufio"
	"net/url"
	"regexp"
	"strings"
)

const (
	manifestHeader = "#EXTM3U"
	streamInf      = "#EXT-X-STREAM-INF"
)

var manifestResolutionRe = regexp.MustCompile(`RESOLUTION=(\d+)x(\d+)`)

// IsManifest reports whether a response is an HLS playlist, judging by its
// content type or its first bytes.
func IsManifest(contentType, body string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "mpegurl") {
		return true
	}
	return strings.HasPrefix(strings.TrimSpace(body), manifestHeader)
}

// ParseManifest lists the variant streams of a master playlist. Relative stream
// URIs are resolved against manifestURL.
func ParseManifest(body, manifestURL string) []Candidate {
	base, _ := url.Parse(manifestURL)

	var (
		candidates []Candidate
		pending    string
		tagged     bool
	)

	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, streamInf) {
			tagged = true
			pending = ""
			if m := manifestResolutionRe.FindStringSubmatch(line); m != nil {
				pending = m[2] + "p"
			}
			continue
		}

		if strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case tagged:
			candidates = append(candidates, Candidate{
				URL:     resolveAgainst(base, line),
				Quality: qualityOr(pending, "Unknown"),
				Format:  FormatM3U8,
			})
			tagged, pending = false, ""
		case strings.Contains(line, ".m3u8"):
			candidates = append(candidates, Candidate{
				URL:     resolveAgainst(base, line),
				Quality: "Unknown",
				Format:  FormatM3U8,
			})
		}
	}

	return candidates
}

func qualityOr(q, fallback string) string {
	if q == "" {
		return fallback
	}
	return q
}

func resolveAgainst(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
