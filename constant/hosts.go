package constant

// Catalog defaults.
const (
	CatalogAPI     = "https://api.allanime.day"
	CatalogBase    = "allmanga.to"
	CatalogReferer = "https://allmanga.to"
	MetadataAPI    = "https://graphql.anilist.co"

	// ClockBase is the origin of root-relative clock references.
	ClockBase = "https://allanime.day"
)

// DirectEmbedHosts are hosts whose player URLs are handed to the client as is.
var DirectEmbedHosts = []string{"ok.ru"}

// EmbedHosts are third-party players recognized inside hosting pages.
var EmbedHosts = []string{
	"ok.ru",
	"streamtape",
	"mp4upload",
	"filemoon",
	"dood",
	"streamwish",
	"vidhide",
	"mixdrop",
	"streamlare",
}
