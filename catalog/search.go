package catalog

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/anisan-cli/anibridge/log"
	"github.com/anisan-cli/anibridge/source"
	"github.com/samber/lo"
)

type showEdge struct {
	ID                string          `json:"_id"`
	Name              string          `json:"name"`
	AvailableEpisodes json.RawMessage `json:"availableEpisodes"`
	Thumbnail         string          `json:"thumbnail"`
	Description       string          `json:"description"`
	Status            string          `json:"status"`
	Genres            []string        `json:"genres"`
	Score             json.Number     `json:"score"`
}

type searchResponse struct {
	Shows struct {
		Edges []*showEdge `json:"edges"`
	} `json:"shows"`
}

// DefaultSearchLimit is used when a caller passes a non-positive limit.
const DefaultSearchLimit = 40

// Search returns the shows matching query. A blank query returns nothing without
// contacting the catalog. Edges without an id or a name are dropped.
func (c *Client) Search(ctx context.Context, query string, limit int) []*source.Anime {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*source.Anime{}
	}

	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	log.Infof("Searching catalog for %q", query)
	var response searchResponse
	err := c.query(ctx, searchQuery, searchVariables{
		Search:          searchInput{Query: query},
		Limit:           limit,
		Page:            1,
		TranslationType: TranslationType,
		CountryOrigin:   "ALL",
	}, &response)
	if err != nil {
		log.With(log.Fields{"query": query}).Error(err)
		return []*source.Anime{}
	}

	animes := lo.FilterMap(response.Shows.Edges, func(edge *showEdge, _ int) (*source.Anime, bool) {
		if edge == nil {
			return nil, false
		}
		anime := edge.toAnime()
		return anime, anime.ID != "" && anime.Title != ""
	})

	log.Infof("Catalog returned %d results for %q", len(animes), query)
	return animes
}

func (e *showEdge) toAnime() *source.Anime {
	score, _ := e.Score.Float64()
	id := strings.TrimSpace(e.ID)

	return &source.Anime{
		ID:          id,
		CatalogID:   id,
		Title:       strings.TrimSpace(e.Name),
		Episodes:    subCount(e.AvailableEpisodes),
		Thumbnail:   strings.TrimSpace(e.Thumbnail),
		Description: strings.TrimSpace(e.Description),
		Status:      strings.TrimSpace(e.Status),
		Genres:      lo.Ternary(e.Genres == nil, []string{}, e.Genres),
		Score:       score,
	}
}

// subCount reads availableEpisodes.sub, tolerating a missing or oddly shaped value.
func subCount(raw json.RawMessage) int {
	var counts map[string]json.Number
	if len(raw) == 0 || json.Unmarshal(raw, &counts) != nil {
		return 0
	}

	n, err := counts[TranslationType].Float64()
	if err != nil {
		return 0
	}
	return int(n)
}
