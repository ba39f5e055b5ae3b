package extract

import (
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anisan-cli/anibridge/constant"
	"github.com/anisan-cli/anibridge/link"
	"github.com/samber/lo"
)

// Page is what a hosting page yielded.
type Page struct {
	Candidates []Candidate
	// Frames are embedded third-party players worth a separate resolution pass.
	Frames []string
}

var (
	mediaRe  = regexp.MustCompile(`https?://[^\s"'<>\\]+?\.(?:mp4|m3u8|webm|mkv)(?:\?[^\s"'<>\\]*)?`)
	objectRe = regexp.MustCompile(`["']?\b(?:file|url|src)["']?\s*:\s*["']([^"']+)["']`)
	videoish = []string{".mp4", ".m3u8", ".webm", ".mkv", ".avi", "video", "stream"}
)

// FromHTML scans a hosting page for video and source tags, media URLs inside
// inline scripts, and iframes pointing at known embed hosts.
func FromHTML(r io.Reader, pageURL string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Page{}, err
	}

	base, _ := url.Parse(pageURL)

	var raw []string
	doc.Find("video[src], source[src]").Each(func(_ int, s *goquery.Selection) {
		raw = append(raw, s.AttrOr("src", ""))
	})

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		raw = append(raw, ScanScript(s.Text())...)
	})

	var frames []string
	doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src := Normalize(s.AttrOr("src", ""), base)
		if link.HostMatches(src, constant.EmbedHosts...) {
			frames = append(frames, src)
		}
	})

	candidates := lo.FilterMap(raw, func(r string, _ int) (Candidate, bool) {
		u := Normalize(r, base)
		return Candidate{URL: u}, Keep(u)
	})

	return Page{
		Candidates: lo.UniqBy(candidates, func(c Candidate) string { return c.URL }),
		Frames:     lo.Uniq(frames),
	}, nil
}

// ScanScript returns the media URLs and player config values found in a script body.
func ScanScript(script string) []string {
	script = unescape(script)

	found := mediaRe.FindAllString(script, -1)
	for _, m := range objectRe.FindAllStringSubmatch(script, -1) {
		found = append(found, m[1])
	}
	return found
}

// Normalize makes a raw reference absolute: protocol-relative references get
// https, relative ones are resolved against base, escaped slashes are undone.
func Normalize(raw string, base *url.URL) string {
	u := strings.TrimSpace(unescape(raw))
	switch {
	case u == "":
		return ""
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case link.HasScheme(u), base == nil:
		return u
	}

	ref, err := url.Parse(u)
	if err != nil {
		return u
	}
	return base.ResolveReference(ref).String()
}

// Keep reports whether u is worth scoring.
func Keep(u string) bool {
	if u == "" || !link.IsWellFormed(u) || link.IsCorrupted(u) {
		return false
	}

	lower := strings.ToLower(u)
	return lo.SomeBy(videoish, func(s string) bool { return strings.Contains(lower, s) })
}

func unescape(s string) string {
	return strings.ReplaceAll(s, `\/`, "/")
}
