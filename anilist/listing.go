package anilist

import (
	"context"
	"strings"
	"time"

	"github.com/anisan-cli/anibridge/internal/cache"
	"github.com/anisan-cli/anibridge/log"
	"github.com/anisan-cli/anibridge/source"
	"github.com/samber/lo"
)

// Max-ages per listing category.
const (
	TrendingMaxAge = 30 * time.Minute
	RecentMaxAge   = time.Hour
	SeasonalMaxAge = 12 * time.Hour
	TopRatedMaxAge = 24 * time.Hour
)

// MinTopScore is the lowest average score kept in top-rated listings.
const MinTopScore = 70

const seasonalPerPage = 30

// Seasons in calendar order.
var Seasons = []string{"WINTER", "SPRING", "SUMMER", "FALL"}

// CurrentSeason returns the Anilist season t falls in. December counts as winter.
func CurrentSeason(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return "WINTER"
	case time.March, time.April, time.May:
		return "SPRING"
	case time.June, time.July, time.August:
		return "SUMMER"
	default:
		return "FALL"
	}
}

// listing is one cacheable metadata request.
type listing struct {
	key      string
	maxAge   time.Duration
	document string
	vars     map[string]any
	// keep filters media before cross-referencing.
	keep func(m *media) bool
	// episodes takes the episode count of matched titles from the catalog.
	episodes bool
}

func (a *Aggregator) run(ctx context.Context, l listing) []*source.Anime {
	if cached, ok := cache.LoadInto[[]*source.Anime](a.store, l.key, l.maxAge).Get(); ok {
		return cached
	}

	found, err := a.page(ctx, l.document, l.vars)
	if err != nil {
		log.With(log.Fields{"listing": l.key}).Error(err)
		return []*source.Anime{}
	}

	if l.keep != nil {
		found = lo.Filter(found, func(m *media, _ int) bool { return l.keep(m) })
	}

	records := make([]*source.Anime, 0, len(found))
	for _, m := range found {
		rec := m.record()
		a.crossReference(ctx, m, rec, l.episodes)
		records = append(records, rec)
	}

	if len(records) > 0 {
		if err := a.store.Store(l.key, records); err != nil {
			log.Warn(err)
		}
	}

	log.Infof("Anilist listing %s: %d titles", l.key, len(records))
	return records
}

func (a *Aggregator) crossReference(ctx context.Context, m *media, rec *source.Anime, episodes bool) {
	if a.catalog == nil {
		return
	}

	id, ok := a.FindCatalogID(ctx, m.Name(), m.alternatives()).Get()
	if !ok {
		return
	}

	rec.ID = id
	rec.CatalogID = id

	if episodes {
		if list := a.catalog.Episodes(ctx, id); len(list) > 0 {
			rec.Episodes = len(list)
		}
	}
}

// Trending lists the most active titles for period, one of day, week, month or all_time.
// Unknown periods fall back to plain trending order.
func (a *Aggregator) Trending(ctx context.Context, limit int, period string) []*source.Anime {
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" {
		period = "week"
	}

	return a.run(ctx, listing{
		key:      cache.Key("trending", period, limit),
		maxAge:   TrendingMaxAge,
		document: trendingQuery,
		vars:     map[string]any{"perPage": limit, "sort": sortFor(period)},
		episodes: true,
	})
}

// Seasonal lists the most popular titles of a season. A zero year or blank season
// is taken from the current date.
func (a *Aggregator) Seasonal(ctx context.Context, year int, season string) []*source.Anime {
	now := a.now()
	season = strings.ToUpper(strings.TrimSpace(season))
	if season == "" {
		season = CurrentSeason(now)
	}
	if year <= 0 {
		year = now.Year()
	}

	return a.run(ctx, listing{
		key:      cache.Key("seasonal", year, season),
		maxAge:   SeasonalMaxAge,
		document: seasonalQuery,
		vars:     map[string]any{"season": season, "seasonYear": year, "perPage": seasonalPerPage},
	})
}

// TopRated lists the highest scored titles, keeping only those scored at least MinTopScore.
// Each record carries its 1-based rank.
func (a *Aggregator) TopRated(ctx context.Context, limit int) []*source.Anime {
	records := a.run(ctx, listing{
		key:      cache.Key("top_rated", limit),
		maxAge:   TopRatedMaxAge,
		document: topRatedQuery,
		vars:     map[string]any{"perPage": limit},
		keep:     func(m *media) bool { return m.AverageScore >= MinTopScore },
	})

	for i, rec := range records {
		rec.RatingRank = i + 1
	}
	return records
}

// Recent lists currently releasing titles with their next airing episode.
func (a *Aggregator) Recent(ctx context.Context, limit int) []*source.Anime {
	return a.run(ctx, listing{
		key:      cache.Key("recent_releases", limit),
		maxAge:   RecentMaxAge,
		document: recentQuery,
		vars:     map[string]any{"perPage": limit},
	})
}
