package anilist

import (
	"fmt"
	"strconv"

	"github.com/anisan-cli/anibridge/source"
	"github.com/samber/lo"
)

type date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (d date) String() string {
	if d.Year == 0 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

type named struct {
	Name string `json:"name"`
}

// media is one AniList media node as returned by the listing queries.
type media struct {
	ID    int `json:"id"`
	Title struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
		Native  string `json:"native"`
	} `json:"title"`
	Episodes   int `json:"episodes"`
	CoverImage struct {
		Large string `json:"large"`
	} `json:"coverImage"`
	Description  string   `json:"description"`
	Status       string   `json:"status"`
	Format       string   `json:"format"`
	Season       string   `json:"season"`
	SeasonYear   int      `json:"seasonYear"`
	Genres       []string `json:"genres"`
	AverageScore int      `json:"averageScore"`
	MeanScore    int      `json:"meanScore"`
	Popularity   int      `json:"popularity"`
	Trending     int      `json:"trending"`
	StartDate    date     `json:"startDate"`
	Studios      struct {
		Nodes []named `json:"nodes"`
	} `json:"studios"`
	Tags              []named  `json:"tags"`
	Synonyms          []string `json:"synonyms"`
	NextAiringEpisode *struct {
		Episode         int `json:"episode"`
		TimeUntilAiring int `json:"timeUntilAiring"`
	} `json:"nextAiringEpisode"`
}

// Name returns the first non-empty of the romaji, english and native titles.
func (m *media) Name() string {
	return lo.Ternary(m.Title.Romaji != "", m.Title.Romaji,
		lo.Ternary(m.Title.English != "", m.Title.English, m.Title.Native))
}

// alternatives lists the other names worth searching the catalog with:
// the english title first, then the synonyms.
func (m *media) alternatives() []string {
	names := append([]string{m.Title.English}, m.Synonyms...)
	main := normalizedName(m.Name())

	return lo.UniqBy(lo.Filter(names, func(n string, _ int) bool {
		n = normalizedName(n)
		return n != "" && n != main
	}), normalizedName)
}

func (m *media) score() float64 {
	if m.AverageScore > 0 {
		return float64(m.AverageScore)
	}
	return float64(m.MeanScore)
}

func (m *media) record() *source.Anime {
	id := strconv.Itoa(m.ID)

	rec := &source.Anime{
		ID:          id,
		SecondaryID: id,
		Title:       m.Name(),
		Episodes:    m.Episodes,
		Thumbnail:   m.CoverImage.Large,
		Description: m.Description,
		Status:      m.Status,
		Genres:      lo.Ternary(m.Genres != nil, m.Genres, []string{}),
		Score:       m.score(),
		Popularity:  m.Popularity,
		Trending:    m.Trending,
		Studios:     lo.Map(m.Studios.Nodes, func(n named, _ int) string { return n.Name }),
		Tags:        lo.Map(m.Tags, func(n named, _ int) string { return n.Name }),
		StartDate:   m.StartDate.String(),
		Year:        lo.Ternary(m.StartDate.Year != 0, m.StartDate.Year, m.SeasonYear),
		Season:      m.Season,
		Format:      lo.Ternary(m.Format != "", m.Format, "TV"),
		AltNames:    m.Synonyms,
	}

	if next := m.NextAiringEpisode; next != nil {
		rec.NextEpisode = next.Episode
		rec.TimeUntilNext = next.TimeUntilAiring
	}
	return rec
}
