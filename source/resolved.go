package source

// Resolved is a playable URL with the headers the client must send to fetch it.
type Resolved struct {
	URL     string            `json:"playable_url"`
	Type    string            `json:"source_type" jsonschema:"description=direct, mp4, m3u8, iframe or the embed host name."`
	Headers map[string]string `json:"headers,omitempty"`
	Quality string            `json:"quality,omitempty"`
}

// Result is the response shape returned for a resolution attempt.
type Result struct {
	Success     bool              `json:"success"`
	PlayableURL string            `json:"playable_url,omitempty"`
	SourceType  string            `json:"source_type,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// Succeeded builds a successful Result from r.
func Succeeded(r *Resolved) Result {
	return Result{
		Success:     true,
		PlayableURL: r.URL,
		SourceType:  r.Type,
		Headers:     r.Headers,
	}
}

// Failed builds a failed Result carrying msg.
func Failed(msg string) Result {
	return Result{Error: msg}
}
