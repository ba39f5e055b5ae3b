// Package inline runs the non-interactive search, episode, source and resolve pipeline
// and writes its result as JSON.
package inline

import (
	"context"
	"errors"
	"os"

	"github.com/anisan-cli/anibridge/log"
	"github.com/anisan-cli/anibridge/query"
	"github.com/anisan-cli/anibridge/resolve"
	"github.com/anisan-cli/anibridge/source"
	"github.com/samber/lo"
)

// Resolver turns source records into a playable URL.
type Resolver interface {
	ResolveFirst(ctx context.Context, records []*source.Record) (*source.Resolved, error)
}

// ErrNoQuery is returned when Run is called without a query.
var ErrNoQuery = errors.New("query is required")

// Run searches the catalog and expands the selected titles according to options.
func Run(ctx context.Context, catalog source.Catalog, resolver Resolver, options *Options) error {
	if options.Query == "" {
		return ErrNoQuery
	}

	if options.Out == nil {
		options.Out = os.Stdout
	}

	animes := catalog.Search(ctx, options.Query, options.Limit)
	_ = query.Remember(options.Query, lo.Map(animes, func(a *source.Anime, _ int) string { return a.Title })...)

	selected := animes
	if picker, ok := options.AnimePicker.Get(); ok {
		selected = lo.Compact([]*source.Anime{picker(animes)})
	}

	result := make([]*Anime, 0, len(selected))
	for _, anime := range selected {
		result = append(result, expand(ctx, catalog, resolver, anime, options))
	}

	return Write(options.Out, &Output{Query: options.Query, Result: result}, options.Pretty)
}

func expand(ctx context.Context, catalog source.Catalog, resolver Resolver, anime *source.Anime, options *Options) *Anime {
	out := &Anime{Anime: anime, Episodes: []*Episode{}}

	if options.EpisodesFilter.IsAbsent() && !options.Sources && !options.Resolve {
		return out
	}

	episodes := catalog.Episodes(ctx, anime.ID)
	if filter, ok := options.EpisodesFilter.Get(); ok {
		episodes = filter(episodes)
	}

	for _, id := range episodes {
		episode := &Episode{ID: id}
		out.Episodes = append(out.Episodes, episode)

		if !options.Sources && !options.Resolve {
			continue
		}

		records := catalog.Sources(ctx, anime.ID, id)
		if options.Sources {
			episode.Sources = records
		}

		if options.Resolve {
			res := resolve.Response(resolver.ResolveFirst(ctx, records))
			episode.Resolved = &res
			log.With(log.Fields{"anime": anime.ID, "episode": id}).Debug("resolved: ", res.Success)
		}
	}

	return out
}
