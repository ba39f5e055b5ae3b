// Package source defines the records exchanged between the catalog, the metadata aggregator and the resolver.
package source

import "fmt"

// Anime is the normalized listing record produced by catalog searches and metadata listings.
type Anime struct {
	// ID is the catalog identifier when known, otherwise the Anilist identifier.
	ID string `json:"id" jsonschema:"description=Catalog identifier when known, otherwise the Anilist identifier."`
	// SecondaryID is the Anilist identifier for metadata-originated records.
	SecondaryID string `json:"secondary_id,omitempty" jsonschema:"description=Anilist identifier for metadata-originated records."`
	// CatalogID is set when the record was matched against the catalog.
	CatalogID string `json:"catalog_id,omitempty" jsonschema:"description=Catalog identifier when the record was matched."`
	Title     string `json:"title" jsonschema:"description=Display title."`
	// Episodes is the available episode count.
	Episodes    int      `json:"episodes" jsonschema:"description=Available episode count."`
	Thumbnail   string   `json:"thumbnail" jsonschema:"description=Cover image URL."`
	Description string   `json:"description" jsonschema:"description=Plain text synopsis."`
	Status      string   `json:"status" jsonschema:"description=Airing status."`
	Genres      []string `json:"genres" jsonschema:"description=Genre names."`
	Score       float64  `json:"score" jsonschema:"description=Average score, 0 when unknown."`

	Popularity int      `json:"popularity,omitempty"`
	Trending   int      `json:"trending,omitempty"`
	Studios    []string `json:"studios,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	StartDate  string   `json:"start_date,omitempty" jsonschema:"description=Start date as YYYY-MM-DD with unknown parts zeroed."`
	Year       int      `json:"year,omitempty"`
	Season     string   `json:"season,omitempty" jsonschema:"enum=WINTER,enum=SPRING,enum=SUMMER,enum=FALL"`
	Format     string   `json:"type,omitempty"`
	AltNames   []string `json:"alt_names,omitempty"`

	// NextEpisode and TimeUntilNext describe the next scheduled airing of a releasing show.
	NextEpisode   int `json:"next_episode,omitempty"`
	TimeUntilNext int `json:"time_until_next,omitempty" jsonschema:"description=Seconds until the next episode airs."`
	// RatingRank is the 1-based position in a top-rated listing.
	RatingRank int `json:"rating_rank,omitempty"`
}

func (a *Anime) String() string {
	return fmt.Sprintf("%s (%s)", a.Title, a.ID)
}

// Matched reports whether the record carries a catalog identifier.
func (a *Anime) Matched() bool {
	return a.CatalogID != ""
}
