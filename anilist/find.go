package anilist

import (
	"context"
	"strings"

	"github.com/anisan-cli/anibridge/log"
	"github.com/anisan-cli/anibridge/source"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	// minTitleLength is the shortest title worth searching the catalog for.
	minTitleLength = 3
	searchLimit    = 2
	minJaccard     = 0.8
)

// normalizedName returns a lowercased, trimmed string for consistent comparison.
func normalizedName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Similar reports whether two titles name the same show: one contains the other
// after lowercasing, or their word sets overlap by more than 0.8 (Jaccard).
func Similar(a, b string) bool {
	a, b = normalizedName(a), normalizedName(b)
	if a == "" || b == "" {
		return false
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return Jaccard(a, b) > minJaccard
}

// Jaccard returns the word-set similarity of a and b.
func Jaccard(a, b string) float64 {
	left := lo.Uniq(strings.Fields(normalizedName(a)))
	right := lo.Uniq(strings.Fields(normalizedName(b)))

	union := len(lo.Union(left, right))
	if union == 0 {
		return 0
	}
	return float64(len(lo.Intersect(left, right))) / float64(union)
}

// FindCatalogID looks up the catalog identifier of a metadata title, trying up to
// the configured number of synonyms when the title itself does not match.
// Matches and misses are remembered across runs.
func (a *Aggregator) FindCatalogID(ctx context.Context, title string, synonyms []string) mo.Option[string] {
	if a.catalog == nil {
		return mo.None[string]()
	}

	names := append([]string{title}, lo.Slice(synonyms, 0, a.synonymLimit)...)

	for _, name := range names {
		if id, ok := a.binds.Get(name).Get(); ok {
			return mo.Some(id)
		}
	}

	for _, name := range names {
		if id, ok := a.search(ctx, name).Get(); ok {
			_ = a.binds.Set(title, id)
			return mo.Some(id)
		}

		if ctx.Err() != nil {
			break
		}
	}

	log.Debugf("no catalog match for %q", title)
	return mo.None[string]()
}

// search runs one spaced catalog search for name and picks the closest similar result.
func (a *Aggregator) search(ctx context.Context, name string) mo.Option[string] {
	name = normalizedName(name)
	if len([]rune(name)) < minTitleLength {
		return mo.None[string]()
	}

	if a.misses.Get(name).IsPresent() {
		return mo.None[string]()
	}

	if err := a.pause.Wait(ctx); err != nil {
		return mo.None[string]()
	}

	results := a.catalog.Search(ctx, name, searchLimit)
	accepted := lo.Filter(results, func(r *source.Anime, _ int) bool {
		return Similar(name, r.Title)
	})

	if len(accepted) == 0 {
		// Empty results are not remembered as misses.
		if len(results) > 0 {
			_ = a.misses.Set(name, a.now())
		}
		return mo.None[string]()
	}

	closest := lo.MinBy(accepted, func(x, y *source.Anime) bool {
		return levenshtein.Distance(name, normalizedName(x.Title)) <
			levenshtein.Distance(name, normalizedName(y.Title))
	})

	log.Infof("Matched %q to catalog %s", name, closest)
	_ = a.binds.Set(name, closest.ID)
	return mo.Some(closest.ID)
}
