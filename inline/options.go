package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/anisan-cli/anibridge/source"
	"github.com/anisan-cli/anibridge/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type (
	AnimePicker    func([]*source.Anime) *source.Anime
	EpisodesFilter func([]string) []string
)

// Options configures Run.
type Options struct {
	Out            io.Writer
	Pretty         bool
	Query          string
	Limit          int
	AnimePicker    mo.Option[AnimePicker]
	EpisodesFilter mo.Option[EpisodesFilter]
	// Sources includes the source records of every selected episode.
	Sources bool
	// Resolve resolves the first playable source of every selected episode.
	Resolve bool
}

// ParseAnimePicker parses an anime selector: first, last, exact or a 0-based index.
// The exact selector compares titles against value, case-insensitively.
func ParseAnimePicker(kind, value string) (AnimePicker, error) {
	switch kind {
	case "first":
		return func(animes []*source.Anime) *source.Anime {
			if len(animes) == 0 {
				return nil
			}
			return animes[0]
		}, nil
	case "last":
		return func(animes []*source.Anime) *source.Anime {
			if len(animes) == 0 {
				return nil
			}
			return animes[len(animes)-1]
		}, nil
	case "exact":
		return func(animes []*source.Anime) *source.Anime {
			found, _ := lo.Find(animes, func(a *source.Anime) bool {
				return strings.EqualFold(a.Title, value)
			})
			return found
		}, nil
	}

	idx, err := strconv.ParseUint(kind, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("unknown anime selector: %s", kind)
	}

	return func(animes []*source.Anime) *source.Anime {
		if len(animes) == 0 {
			return nil
		}
		return animes[util.Min(idx, uint64(len(animes)-1))]
	}, nil
}

// ParseEpisodesFilter parses an episode selector.
//
//	first, last, all
//	[number]       the episode with that identifier
//	[from]-[to]    numeric episodes in the inclusive range
//	@[substring]@  episodes whose identifier contains substring
func ParseEpisodesFilter(description string) (EpisodesFilter, error) {
	switch description {
	case "first":
		return func(episodes []string) []string {
			return lo.Slice(episodes, 0, 1)
		}, nil
	case "last":
		return func(episodes []string) []string {
			return lo.Slice(episodes, len(episodes)-1, len(episodes))
		}, nil
	case "all":
		return func(episodes []string) []string {
			return episodes
		}, nil
	}

	if strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") && len(description) > 1 {
		sub := strings.ToLower(description[1 : len(description)-1])
		return func(episodes []string) []string {
			return lo.Filter(episodes, func(e string, _ int) bool {
				return strings.Contains(strings.ToLower(e), sub)
			})
		}, nil
	}

	if from, to, found := strings.Cut(description, "-"); found {
		lower, err1 := strconv.ParseFloat(from, 64)
		upper, err2 := strconv.ParseFloat(to, 64)
		if err1 == nil && err2 == nil {
			return func(episodes []string) []string {
				return lo.Filter(episodes, func(e string, _ int) bool {
					n, err := strconv.ParseFloat(e, 64)
					return err == nil && n >= lower && n <= upper
				})
			}, nil
		}
	}

	if _, err := strconv.ParseFloat(description, 64); err == nil {
		return func(episodes []string) []string {
			return lo.Filter(episodes, func(e string, _ int) bool { return e == description })
		}, nil
	}

	return nil, fmt.Errorf("invalid episode filter: %s", description)
}
