package source

// Kind classifies an episode source reference before resolution.
type Kind string

const (
	KindEmbed    Kind = "embed"
	KindManifest Kind = "manifest"
	KindUnknown  Kind = "unknown"
)

// Record is one source reference listed by the catalog for an episode.
type Record struct {
	Name string `json:"source" jsonschema:"description=Provider label as reported by the catalog."`
	// URL may still be obfuscated.
	URL     string `json:"url" jsonschema:"description=Source reference. May still be obfuscated."`
	Kind    Kind   `json:"type" jsonschema:"enum=embed,enum=manifest,enum=unknown"`
	Quality string `json:"quality,omitempty"`
}

func (r *Record) String() string {
	if r.Name == "" {
		return r.URL
	}
	return r.Name
}
