// Package extract pulls candidate video URLs out of hosting pages and HLS manifests and picks the best one.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/anisan-cli/anibridge/link"
)

// Formats recognized when scoring.
const (
	FormatMP4  = "mp4"
	FormatM3U8 = "m3u8"
)

// Candidate is a possible playable URL.
type Candidate struct {
	URL     string `json:"url"`
	Quality string `json:"quality,omitempty"`
	// Format overrides the extension-derived format, for sources that declare it.
	Format string `json:"format,omitempty"`
	// Headers are extra request headers the host asked for.
	Headers map[string]string `json:"headers,omitempty"`
}

func (c Candidate) String() string {
	if c.Quality == "" {
		return c.URL
	}
	return c.Quality + " " + c.URL
}

// Kind returns the declared format or the one implied by the URL extension.
func (c Candidate) Kind() string {
	if c.Format != "" {
		return c.Format
	}

	switch link.Extension(c.URL) {
	case ".mp4":
		return FormatMP4
	case ".m3u8":
		return FormatM3U8
	}

	lower := strings.ToLower(c.URL)
	switch {
	case strings.Contains(lower, ".mp4"):
		return FormatMP4
	case strings.Contains(lower, ".m3u8"):
		return FormatM3U8
	}
	return ""
}

var resolutionRe = regexp.MustCompile(`(?i)(?:^|[^0-9])(2160|1440|1080|720|480|360|240)p?(?:[^0-9]|$)`)

// Height returns the vertical resolution hinted by the quality label or the URL, or 0.
func (c Candidate) Height() int {
	for _, s := range []string{c.Quality, c.URL} {
		if m := resolutionRe.FindStringSubmatch(s); m != nil {
			h, _ := strconv.Atoi(m[1])
			return h
		}
	}
	return 0
}
