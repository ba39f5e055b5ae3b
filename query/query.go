// Package query keeps a ranked history of catalog searches and the titles they
// turned up, and suggests past queries back with fuzzy matching.
package query

import (
	"strings"
	"sync"
	"time"

	"github.com/anisan-cli/anibridge/filesystem"
	"github.com/anisan-cli/anibridge/key"
	"github.com/anisan-cli/anibridge/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// maxTitles caps how many catalog titles are kept per query.
const maxTitles = 10

type entry struct {
	Query  string    `json:"query"`
	Rank   int       `json:"rank"`
	Titles []string  `json:"titles,omitempty"`
	Last   time.Time `json:"last"`
}

// History is a persistent search history. It is safe for concurrent use.
type History struct {
	cache *gache.Cache[map[string]*entry]
	now   func() time.Time
	mu    sync.Mutex
}

// Open returns the history stored at path.
func Open(path string) *History {
	return &History{
		cache: gache.New[map[string]*entry](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
		now: time.Now,
	}
}

var (
	defaultOnce    sync.Once
	defaultHistory *History
)

// Default returns the history kept in the user cache directory.
func Default() *History {
	defaultOnce.Do(func() {
		defaultHistory = Open(where.Queries())
	})
	return defaultHistory
}

func (h *History) load() map[string]*entry {
	entries, expired, err := h.cache.Get()
	if err != nil || expired || entries == nil {
		return make(map[string]*entry)
	}
	return entries
}

// Remember bumps the rank of q and records the catalog titles it returned.
func (h *History) Remember(q string, titles ...string) error {
	q = normalize(q)
	if q == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.load()
	e, ok := entries[q]
	if !ok {
		e = &entry{Query: q}
		entries[q] = e
	}

	e.Rank++
	e.Last = h.now()
	e.Titles = lo.Slice(lo.Uniq(append(lo.Compact(titles), e.Titles...)), 0, maxTitles)

	return h.cache.Set(entries)
}

// Suggest returns past queries matching partial, by the query itself or by one
// of the titles it found. Higher ranks come first, then the most recent.
func (h *History) Suggest(partial string) []string {
	partial = normalize(partial)

	h.mu.Lock()
	entries := lo.Values(h.load())
	h.mu.Unlock()

	matched := lo.Filter(entries, func(e *entry, _ int) bool {
		return fuzzy.MatchFold(partial, e.Query) || lo.SomeBy(e.Titles, func(title string) bool {
			return fuzzy.MatchFold(partial, title)
		})
	})

	slices.SortFunc(matched, func(a, b *entry) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return b.Last.Compare(a.Last)
	})

	return lo.Map(matched, func(e *entry, _ int) string { return e.Query })
}

// Titles returns the catalog titles last seen for q.
func (h *History) Titles(q string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if e, ok := h.load()[normalize(q)]; ok {
		return e.Titles
	}
	return []string{}
}

// Remember records q in the default history.
func Remember(q string, titles ...string) error {
	return Default().Remember(q, titles...)
}

// SuggestMany returns suggestions from the default history, or none when
// suggestions are turned off.
func SuggestMany(partial string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}
	return Default().Suggest(partial)
}

func normalize(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
