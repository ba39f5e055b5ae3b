package catalog

const searchQuery = `
query(
	$search: SearchInput
	$limit: Int
	$page: Int
	$translationType: VaildTranslationTypeEnumType
	$countryOrigin: VaildCountryOriginEnumType
) {
	shows(
		search: $search
		limit: $limit
		page: $page
		translationType: $translationType
		countryOrigin: $countryOrigin
	) {
		edges {
			_id
			name
			availableEpisodes
			__typename
			thumbnail
			description
			status
			genres
			score
		}
	}
}`

const episodesQuery = `
query($showId: String!) {
	show(_id: $showId) {
		_id
		availableEpisodesDetail
	}
}`

const sourcesQuery = `
query(
	$showId: String!
	$translationType: VaildTranslationTypeEnumType!
	$episodeString: String!
) {
	episode(
		showId: $showId
		translationType: $translationType
		episodeString: $episodeString
	) {
		episodeString
		sourceUrls
	}
}`

// TranslationType is the only track the catalog client lists.
const TranslationType = "sub"

type searchInput struct {
	AllowAdult   bool   `json:"allowAdult"`
	AllowUnknown bool   `json:"allowUnknown"`
	Query        string `json:"query"`
}

type searchVariables struct {
	Search          searchInput `json:"search"`
	Limit           int         `json:"limit"`
	Page            int         `json:"page"`
	TranslationType string      `json:"translationType"`
	CountryOrigin   string      `json:"countryOrigin"`
}

type episodesVariables struct {
	ShowID string `json:"showId"`
}

type sourcesVariables struct {
	ShowID          string `json:"showId"`
	TranslationType string `json:"translationType"`
	EpisodeString   string `json:"episodeString"`
}
