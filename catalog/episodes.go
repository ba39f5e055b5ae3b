package catalog

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/anisan-cli/anibridge/log"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

type episodesResponse struct {
	Show *struct {
		ID                      string                       `json:"_id"`
		AvailableEpisodesDetail map[string][]json.RawMessage `json:"availableEpisodesDetail"`
	} `json:"show"`
}

// Episodes lists the episode identifiers of the sub track in playback order.
func (c *Client) Episodes(ctx context.Context, animeID string) []string {
	animeID = strings.TrimSpace(animeID)
	if animeID == "" {
		return []string{}
	}

	var response episodesResponse
	if err := c.query(ctx, episodesQuery, episodesVariables{ShowID: animeID}, &response); err != nil {
		log.With(log.Fields{"anime": animeID}).Error(err)
		return []string{}
	}

	if response.Show == nil {
		return []string{}
	}

	episodes := lo.FilterMap(response.Show.AvailableEpisodesDetail[TranslationType], func(raw json.RawMessage, _ int) (string, bool) {
		id := episodeString(raw)
		return id, id != ""
	})

	return SortEpisodes(episodes)
}

// episodeString accepts both quoted and bare numeric identifiers.
func episodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

var numericEpisode = regexp.MustCompile(`^\d+(\.\d+)?$`)

// SortEpisodes orders numeric identifiers ascending by value and places every
// non-numeric identifier after them, keeping their relative order.
func SortEpisodes(episodes []string) []string {
	sorted := slices.Clone(episodes)

	slices.SortStableFunc(sorted, func(a, b string) int {
		av, aNum := episodeNumber(a)
		bv, bNum := episodeNumber(b)

		switch {
		case aNum && bNum:
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		case aNum:
			return -1
		case bNum:
			return 1
		}
		return 0
	})

	return sorted
}

func episodeNumber(id string) (float64, bool) {
	if !numericEpisode.MatchString(id) {
		return 0, false
	}
	v, err := strconv.ParseFloat(id, 64)
	return v, err == nil
}
