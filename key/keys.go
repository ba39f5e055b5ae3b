// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Catalog - the AllAnime GraphQL API and its request shaping.
const (
	CatalogAPIURL        = "catalog.api_url"
	CatalogReferer       = "catalog.referer"
	CatalogUserAgent     = "catalog.user_agent"
	CatalogMinIntervalMs = "catalog.min_interval_ms"
	CatalogTimeout       = "catalog.timeout_seconds"
	CatalogBrowserTLS    = "catalog.browser_tls"
)

// Metadata - the AniList GraphQL API and catalog cross-referencing.
const (
	MetadataAPIURL          = "metadata.api_url"
	MetadataMinIntervalMs   = "metadata.min_interval_ms"
	MetadataCrossrefDelayMs = "metadata.crossref_delay_ms"
	MetadataSynonymLimit    = "metadata.synonym_limit"
)

// Resolve - fetching of hosting pages and JSON endpoints.
const (
	ResolveTimeout = "resolve.timeout_seconds"
)

// Cache - on-disk response cache.
const (
	CacheEnabled = "cache.enabled"
)

// Search - CLI search helpers.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Logs
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI
const (
	CliColored = "cli.colored"
)
