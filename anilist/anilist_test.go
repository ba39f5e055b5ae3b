package anilist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anisan-cli/anibridge/config"
	"github.com/anisan-cli/anibridge/filesystem"
	"github.com/anisan-cli/anibridge/internal/cache"
	"github.com/anisan-cli/anibridge/source"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeCatalog struct {
	mu       sync.Mutex
	shows    map[string][]*source.Anime
	episodes map[string][]string
	searches []string
}

func (f *fakeCatalog) Search(_ context.Context, query string, limit int) []*source.Anime {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.searches = append(f.searches, query)
	found := f.shows[query]
	if len(found) > limit {
		found = found[:limit]
	}
	return found
}

func (f *fakeCatalog) Episodes(_ context.Context, id string) []string {
	return f.episodes[id]
}

func (f *fakeCatalog) Sources(context.Context, string, string) []*source.Record {
	return nil
}

func (f *fakeCatalog) searched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type fakeAnilist struct {
	*httptest.Server
	requests atomic.Int32
	status   atomic.Int32
	mu       sync.Mutex
	last     graphqlRequest
}

const mediaPage = `{"data":{"Page":{"media":[
	{"id":154587,"title":{"romaji":"Sousou no Frieren","english":"Frieren: Beyond Journey's End","native":"葬送のフリーレン"},
	 "episodes":28,"coverImage":{"large":"https://img.example.com/frieren.jpg"},"description":"An elf mage.",
	 "status":"FINISHED","format":"TV","season":"FALL","seasonYear":2023,"genres":["Adventure","Fantasy"],
	 "averageScore":91,"meanScore":90,"popularity":400000,"trending":120,
	 "startDate":{"year":2023,"month":9,"day":29},"studios":{"nodes":[{"name":"Madhouse"}]},
	 "tags":[{"name":"Elf"}],"synonyms":["Frieren at the Funeral"],"nextAiringEpisode":null},
	{"id":2,"title":{"romaji":"","english":"Obscure Show","native":""},
	 "episodes":12,"coverImage":{"large":""},"description":"","status":"RELEASING","genres":null,
	 "averageScore":0,"meanScore":64,"popularity":10,"trending":1,
	 "startDate":{"year":2024,"month":1,"day":0},"studios":{"nodes":[]},"tags":[],"synonyms":[],
	 "nextAiringEpisode":{"episode":5,"timeUntilAiring":3600}}
]}}}`

func newFakeAnilist() *fakeAnilist {
	f := &fakeAnilist{}
	f.status.Store(http.StatusOK)

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)

		var req graphqlRequest
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)

		f.mu.Lock()
		f.last = req
		f.mu.Unlock()

		if code := int(f.status.Load()); code != http.StatusOK {
			w.WriteHeader(code)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, mediaPage)
	}))
	return f
}

func (f *fakeAnilist) lastRequest() graphqlRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

var fixtures atomic.Int32

func newAggregator(server *fakeAnilist, catalog source.Catalog, opts ...Option) (*Aggregator, *cache.Store) {
	n := fixtures.Add(1)
	store := cache.New(fmt.Sprintf("/cache/%d/data", n))

	opts = append([]Option{
		WithEndpoint(server.URL),
		WithHTTPClient(server.Client()),
		WithInterval(0),
		WithCrossrefDelay(0),
		WithRelations(fmt.Sprintf("/cache/%d/binds.json", n), fmt.Sprintf("/cache/%d/misses.json", n)),
	}, opts...)

	return New(catalog, store, config.Static{}, opts...), store
}

func frierenCatalog() *fakeCatalog {
	return &fakeCatalog{
		shows: map[string][]*source.Anime{
			"sousou no frieren": {
				{ID: "ReooPAxPMsHM4KPMY", Title: "Sousou no Frieren"},
				{ID: "x2", Title: "Sousou no Frieren Specials"},
			},
		},
		episodes: map[string][]string{"ReooPAxPMsHM4KPMY": {"1", "2", "3"}},
	}
}

func TestTrending(t *testing.T) {
	filesystem.SetMemMapFs()
	ctx := context.Background()

	Convey("Given a trending listing", t, func() {
		server := newFakeAnilist()
		defer server.Close()

		catalog := frierenCatalog()
		agg, _ := newAggregator(server, catalog)

		records := agg.Trending(ctx, 10, "week")

		Convey("It sends the period's sort order and page size", func() {
			req := server.lastRequest()
			So(req.Variables["perPage"], ShouldEqual, float64(10))
			So(req.Variables["sort"], ShouldResemble, []any{"TRENDING_DESC", "SCORE_DESC"})
		})

		Convey("Matched titles take the catalog identifier and episode count", func() {
			So(records, ShouldHaveLength, 2)

			frieren := records[0]
			So(frieren.ID, ShouldEqual, "ReooPAxPMsHM4KPMY")
			So(frieren.CatalogID, ShouldEqual, "ReooPAxPMsHM4KPMY")
			So(frieren.SecondaryID, ShouldEqual, "154587")
			So(frieren.Title, ShouldEqual, "Sousou no Frieren")
			So(frieren.Episodes, ShouldEqual, 3)
			So(frieren.Score, ShouldEqual, 91.0)
			So(frieren.Studios, ShouldResemble, []string{"Madhouse"})
			So(frieren.StartDate, ShouldEqual, "2023-09-29")
			So(frieren.AltNames, ShouldResemble, []string{"Frieren at the Funeral"})
		})

		Convey("Unmatched titles keep the Anilist identifier", func() {
			obscure := records[1]
			So(obscure.ID, ShouldEqual, "2")
			So(obscure.Matched(), ShouldBeFalse)
			So(obscure.Title, ShouldEqual, "Obscure Show")
			So(obscure.Score, ShouldEqual, 64.0)
			So(obscure.Genres, ShouldBeEmpty)
			So(obscure.Format, ShouldEqual, "TV")
		})

		Convey("A second call is served from the cache", func() {
			again := agg.Trending(ctx, 10, "week")
			So(server.requests.Load(), ShouldEqual, int32(1))
			So(again, ShouldHaveLength, 2)
			So(again[0].ID, ShouldEqual, "ReooPAxPMsHM4KPMY")
		})

		Convey("Other periods are cached separately", func() {
			agg.Trending(ctx, 10, "day")
			So(server.requests.Load(), ShouldEqual, int32(2))
			So(server.lastRequest().Variables["sort"], ShouldResemble, []any{"TRENDING_DESC", "POPULARITY_DESC"})
		})
	})

	Convey("Given a failing Anilist", t, func() {
		server := newFakeAnilist()
		defer server.Close()
		server.status.Store(http.StatusInternalServerError)

		agg, store := newAggregator(server, frierenCatalog())

		Convey("The listing is empty and nothing is cached", func() {
			records := agg.Trending(ctx, 5, "month")
			So(records, ShouldNotBeNil)
			So(records, ShouldBeEmpty)
			So(store.Load(cache.Key("trending", "month", 5), time.Hour).IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestListings(t *testing.T) {
	filesystem.SetMemMapFs()
	ctx := context.Background()

	Convey("Given the other listings", t, func() {
		server := newFakeAnilist()
		defer server.Close()

		december := time.Date(2024, time.December, 5, 0, 0, 0, 0, time.UTC)
		agg, store := newAggregator(server, frierenCatalog(), WithClock(func() time.Time { return december }))

		Convey("Seasonal defaults to the current season", func() {
			records := agg.Seasonal(ctx, 0, "")
			So(records, ShouldHaveLength, 2)

			req := server.lastRequest()
			So(req.Variables["season"], ShouldEqual, "WINTER")
			So(req.Variables["seasonYear"], ShouldEqual, float64(2024))
			So(store.Load("seasonal_2024_winter.json", SeasonalMaxAge).IsPresent(), ShouldBeTrue)
		})

		Convey("Top rated drops low scores and ranks the rest", func() {
			records := agg.TopRated(ctx, 20)
			So(records, ShouldHaveLength, 1)
			So(records[0].RatingRank, ShouldEqual, 1)
			So(records[0].Title, ShouldEqual, "Sousou no Frieren")
		})

		Convey("Recent carries next airing information", func() {
			records := agg.Recent(ctx, 20)
			So(records, ShouldHaveLength, 2)
			So(records[1].NextEpisode, ShouldEqual, 5)
			So(records[1].TimeUntilNext, ShouldEqual, 3600)
			So(server.lastRequest().Query, ShouldContainSubstring, "RELEASING")
		})
	})
}

func TestFindCatalogID(t *testing.T) {
	filesystem.SetMemMapFs()
	ctx := context.Background()

	Convey("Given a catalog", t, func() {
		server := newFakeAnilist()
		defer server.Close()

		catalog := &fakeCatalog{
			shows: map[string][]*source.Anime{
				"frieren": {{ID: "f1", Title: "Sousou no Frieren"}},
				"kimi no na wa": {
					{ID: "k9", Title: "Your Name"},
				},
				"your name": {{ID: "k1", Title: "Kimi no Na wa."}, {ID: "k2", Title: "Your Name"}},
				"bleach":    {{ID: "n1", Title: "Naruto"}},
			},
		}
		agg, _ := newAggregator(server, catalog)

		Convey("Substring titles match", func() {
			id, ok := agg.FindCatalogID(ctx, "Frieren", nil).Get()
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "f1")
		})

		Convey("Titles shorter than three characters are never searched", func() {
			So(agg.FindCatalogID(ctx, "K", nil).IsAbsent(), ShouldBeTrue)
			So(catalog.searched(), ShouldBeEmpty)
		})

		Convey("Synonyms are tried after a miss", func() {
			id, ok := agg.FindCatalogID(ctx, "Kimi no Na wa", []string{"Your Name"}).Get()
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "k2")
			So(catalog.searched(), ShouldResemble, []string{"kimi no na wa", "your name"})

			Convey("And the match is remembered", func() {
				id, ok := agg.FindCatalogID(ctx, "Kimi no Na wa", nil).Get()
				So(ok, ShouldBeTrue)
				So(id, ShouldEqual, "k2")
				So(catalog.searched(), ShouldHaveLength, 2)
			})
		})

		Convey("Misses are remembered", func() {
			So(agg.FindCatalogID(ctx, "Kimi no Na wa", nil).IsAbsent(), ShouldBeTrue)
			So(agg.FindCatalogID(ctx, "Kimi no Na wa", nil).IsAbsent(), ShouldBeTrue)
			So(catalog.searched(), ShouldResemble, []string{"kimi no na wa"})
		})

		Convey("Each miss expires on its own", func() {
			start := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
			now := start
			clocked, _ := newAggregator(server, catalog, WithClock(func() time.Time { return now }))

			So(clocked.FindCatalogID(ctx, "Kimi no Na wa", nil).IsAbsent(), ShouldBeTrue)

			now = start.Add(5 * time.Hour)
			So(clocked.FindCatalogID(ctx, "Bleach", nil).IsAbsent(), ShouldBeTrue)
			So(clocked.FindCatalogID(ctx, "Kimi no Na wa", nil).IsAbsent(), ShouldBeTrue)
			So(catalog.searched(), ShouldResemble, []string{"kimi no na wa", "bleach"})

			now = start.Add(7 * time.Hour)
			So(clocked.FindCatalogID(ctx, "Kimi no Na wa", nil).IsAbsent(), ShouldBeTrue)
			So(clocked.FindCatalogID(ctx, "Bleach", nil).IsAbsent(), ShouldBeTrue)
			So(catalog.searched(), ShouldResemble, []string{"kimi no na wa", "bleach", "kimi no na wa"})
		})

		Convey("At most three synonyms are tried", func() {
			synonyms := []string{"first alias", "second alias", "third alias", "fourth alias", "fifth alias"}
			So(agg.FindCatalogID(ctx, "Unknown Show", synonyms).IsAbsent(), ShouldBeTrue)
			So(catalog.searched(), ShouldResemble, []string{
				"unknown show", "first alias", "second alias", "third alias",
			})
		})

		Convey("Successive searches are spaced by the cross-reference delay", func() {
			paced, _ := newAggregator(server, catalog, WithCrossrefDelay(40*time.Millisecond))

			began := time.Now()
			So(paced.FindCatalogID(ctx, "Unknown Show", []string{"Another Show"}).IsAbsent(), ShouldBeTrue)
			So(time.Since(began), ShouldBeGreaterThanOrEqualTo, 30*time.Millisecond)
			So(catalog.searched(), ShouldHaveLength, 2)
		})

		Convey("Without a catalog nothing is matched", func() {
			bare, _ := newAggregator(server, nil)
			So(bare.FindCatalogID(ctx, "Frieren", nil).IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestAlternatives(t *testing.T) {
	Convey("Given a media node", t, func() {
		var m media
		m.Title.Romaji = "Sousou no Frieren"
		m.Title.English = "Frieren: Beyond Journey's End"
		m.Synonyms = []string{"frieren: beyond journey's end", "Sousou no Frieren", "Frieren at the Funeral"}

		Convey("The english title comes first and duplicates of any name are dropped", func() {
			So(m.alternatives(), ShouldResemble, []string{"Frieren: Beyond Journey's End", "Frieren at the Funeral"})
		})

		Convey("Without an english title only synonyms remain", func() {
			m.Title.English = ""
			So(m.alternatives(), ShouldResemble, []string{"frieren: beyond journey's end", "Frieren at the Funeral"})
		})
	})
}

func TestSimilarity(t *testing.T) {
	Convey("Similar", t, func() {
		So(Similar("Naruto", "naruto shippuden"), ShouldBeTrue)
		So(Similar("One Piece Film Red", "film red one piece"), ShouldBeTrue)
		So(Similar("Bleach", "Naruto"), ShouldBeFalse)
		So(Similar("", "Naruto"), ShouldBeFalse)
	})

	Convey("Jaccard", t, func() {
		So(Jaccard("a b c d", "a b c d"), ShouldEqual, 1.0)
		So(Jaccard("a b", "c d"), ShouldEqual, 0.0)
		So(Jaccard("a b c", "a b d"), ShouldEqual, 0.5)
	})
}

func TestCurrentSeason(t *testing.T) {
	Convey("CurrentSeason", t, func() {
		season := func(m time.Month) string {
			return CurrentSeason(time.Date(2024, m, 15, 0, 0, 0, 0, time.UTC))
		}

		So(season(time.January), ShouldEqual, "WINTER")
		So(season(time.December), ShouldEqual, "WINTER")
		So(season(time.April), ShouldEqual, "SPRING")
		So(season(time.July), ShouldEqual, "SUMMER")
		So(season(time.October), ShouldEqual, "FALL")
	})
}
