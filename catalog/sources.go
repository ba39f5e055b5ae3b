package catalog

import (
	"context"
	"strings"

	"github.com/anisan-cli/anibridge/constant"
	"github.com/anisan-cli/anibridge/decoder"
	"github.com/anisan-cli/anibridge/link"
	"github.com/anisan-cli/anibridge/log"
	"github.com/anisan-cli/anibridge/source"
	"github.com/samber/lo"
)

type sourceURL struct {
	SourceName string  `json:"sourceName"`
	SourceURL  string  `json:"sourceUrl"`
	Priority   float64 `json:"priority"`
	Type       string  `json:"type"`
}

type sourcesResponse struct {
	Episode *struct {
		EpisodeString string      `json:"episodeString"`
		SourceURLs    []sourceURL `json:"sourceUrls"`
	} `json:"episode"`
}

// Sources lists the raw source references of one episode. When any reference
// points at a direct-embed host, that reference alone is returned.
func (c *Client) Sources(ctx context.Context, animeID, episode string) []*source.Record {
	animeID, episode = strings.TrimSpace(animeID), strings.TrimSpace(episode)
	if animeID == "" || episode == "" {
		return []*source.Record{}
	}

	var response sourcesResponse
	err := c.query(ctx, sourcesQuery, sourcesVariables{
		ShowID:          animeID,
		TranslationType: TranslationType,
		EpisodeString:   episode,
	}, &response)
	if err != nil {
		log.With(log.Fields{"anime": animeID, "episode": episode}).Error(err)
		return []*source.Record{}
	}

	if response.Episode == nil {
		return []*source.Record{}
	}

	return classify(response.Episode.SourceURLs)
}

func classify(urls []sourceURL) []*source.Record {
	for _, su := range urls {
		raw := strings.TrimSpace(su.SourceURL)
		if raw == "" {
			continue
		}

		decoded := decoder.Decode(raw)
		if host, ok := link.MatchHost(decoded, constant.DirectEmbedHosts...); ok {
			return []*source.Record{{
				Name:    host,
				URL:     decoded,
				Kind:    source.KindEmbed,
				Quality: "embed",
			}}
		}
	}

	return lo.FilterMap(urls, func(su sourceURL, _ int) (*source.Record, bool) {
		raw := strings.TrimSpace(su.SourceURL)
		if raw == "" {
			return nil, false
		}

		return &source.Record{
			Name: lo.Ternary(strings.TrimSpace(su.SourceName) == "", "Unknown", strings.TrimSpace(su.SourceName)),
			URL:  raw,
			Kind: kindOf(decoder.Decode(raw)),
		}, true
	})
}

func kindOf(decoded string) source.Kind {
	switch {
	case link.HostMatches(decoded, constant.DirectEmbedHosts...), strings.Contains(decoded, "fast4speed"):
		return source.KindEmbed
	case link.Extension(decoded) == ".m3u8":
		return source.KindManifest
	default:
		return source.KindUnknown
	}
}
