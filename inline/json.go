package inline

import (
	"encoding/json"
	"io"

	"github.com/anisan-cli/anibridge/source"
)

// Episode is one selected episode with its optional sources and resolution.
type Episode struct {
	ID       string           `json:"id" jsonschema:"description=Episode identifier as listed by the catalog."`
	Sources  []*source.Record `json:"sources,omitempty"`
	Resolved *source.Result   `json:"resolved,omitempty"`
}

// Anime is one selected catalog record with its selected episodes.
type Anime struct {
	Anime    *source.Anime `json:"anime"`
	Episodes []*Episode    `json:"episodes"`
}

// Output is the document written by Run.
type Output struct {
	Query  string   `json:"query"`
	Result []*Anime `json:"result"`
}

// Write encodes v as JSON, indented when pretty is set.
func Write(out io.Writer, v any, pretty bool) error {
	encoder := json.NewEncoder(out)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
