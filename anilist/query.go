package anilist

import "fmt"

// mediaSubquery is the selection set shared by every listing.
var mediaSubquery = `
id
title {
	romaji
	english
	native
}
episodes
coverImage {
	large
}
description(asHtml: false)
status
format
season
seasonYear
genres
averageScore
meanScore
popularity
trending
startDate {
	year
	month
	day
}
studios(isMain: true) {
	nodes {
		name
	}
}
tags {
	name
}
synonyms
nextAiringEpisode {
	episode
	timeUntilAiring
}
`

var trendingQuery = fmt.Sprintf(`
query ($perPage: Int, $sort: [MediaSort]) {
	Page (page: 1, perPage: $perPage) {
		media (type: ANIME, sort: $sort, isAdult: false) {
			%s
		}
	}
}
`, mediaSubquery)

var seasonalQuery = fmt.Sprintf(`
query ($season: MediaSeason, $seasonYear: Int, $perPage: Int) {
	Page (page: 1, perPage: $perPage) {
		media (type: ANIME, season: $season, seasonYear: $seasonYear, sort: [POPULARITY_DESC, SCORE_DESC], isAdult: false) {
			%s
		}
	}
}
`, mediaSubquery)

var topRatedQuery = fmt.Sprintf(`
query ($perPage: Int) {
	Page (page: 1, perPage: $perPage) {
		media (type: ANIME, sort: [SCORE_DESC, POPULARITY_DESC], isAdult: false) {
			%s
		}
	}
}
`, mediaSubquery)

var recentQuery = fmt.Sprintf(`
query ($perPage: Int) {
	Page (page: 1, perPage: $perPage) {
		media (type: ANIME, status: RELEASING, sort: [START_DATE_DESC, POPULARITY_DESC], isAdult: false) {
			%s
		}
	}
}
`, mediaSubquery)

// periodSorts maps a trending period to its sort order.
var periodSorts = map[string][]string{
	"day":      {"TRENDING_DESC", "POPULARITY_DESC"},
	"week":     {"TRENDING_DESC", "SCORE_DESC"},
	"month":    {"POPULARITY_DESC", "SCORE_DESC"},
	"all_time": {"POPULARITY_DESC", "SCORE_DESC"},
}

func sortFor(period string) []string {
	if sort, ok := periodSorts[period]; ok {
		return sort
	}
	return []string{"TRENDING_DESC"}
}

type pageResponse struct {
	Page struct {
		Media []*media `json:"media"`
	} `json:"Page"`
}
