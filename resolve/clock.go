package resolve

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/anisan-cli/anibridge/extract"
	"github.com/anisan-cli/anibridge/link"
	"github.com/anisan-cli/anibridge/source"
	"github.com/samber/lo"
)

type clockLink struct {
	Link          string            `json:"link"`
	ResolutionStr string            `json:"resolutionStr"`
	HLS           bool              `json:"hls"`
	MP4           bool              `json:"mp4"`
	Headers       map[string]string `json:"headers"`
}

type clockResponse struct {
	Links []clockLink `json:"links"`
}

// clock reads the JSON link list served by the catalog's clock endpoints.
func (r *Router) clock(ctx context.Context, u string) (*source.Resolved, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.get(ctx, u, r.referer)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload clockResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fail(ReasonUpstream, u, err)
	}

	candidates := lo.FilterMap(payload.Links, func(l clockLink, _ int) (extract.Candidate, bool) {
		c := extract.Candidate{
			URL:     strings.ReplaceAll(strings.TrimSpace(l.Link), `\`, ""),
			Quality: l.ResolutionStr,
			Headers: l.Headers,
		}
		switch {
		case l.HLS:
			c.Format = extract.FormatM3U8
		case l.MP4:
			c.Format = extract.FormatMP4
		}
		return c, link.HasScheme(c.URL) && !link.IsCorrupted(c.URL)
	})

	best, ok := extract.Select(candidates).Get()
	if !ok {
		return nil, fail(ReasonNoSources, u, nil)
	}
	return resolvedFrom(best, r.headers(r.referer)), nil
}
