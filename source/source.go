package source

import "context"

// Searcher finds catalog records by title.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) []*Anime
}

// Catalog is the full catalog capability: search, episode listing and source listing.
// Implementations report upstream failures as empty results.
type Catalog interface {
	Searcher
	Episodes(ctx context.Context, animeID string) []string
	Sources(ctx context.Context, animeID, episode string) []*Record
}
