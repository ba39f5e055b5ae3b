package resolve

import (
	"errors"
	"fmt"

	"github.com/anisan-cli/anibridge/source"
)

// Reason tags why a resolution failed.
type Reason string

const (
	ReasonCorrupted Reason = "corrupted"
	ReasonMalformed Reason = "malformed"
	ReasonUpstream  Reason = "upstream"
	ReasonNoSources Reason = "no_sources"
)

// NoSourcesMessage is the error reported when extraction found nothing playable.
const NoSourcesMessage = "no sources found"

// Failure is the error returned by Router.Resolve.
type Failure struct {
	Reason Reason
	URL    string
	Err    error
}

func (f *Failure) Error() string {
	switch f.Reason {
	case ReasonNoSources:
		return NoSourcesMessage
	case ReasonCorrupted:
		return "corrupted source url"
	case ReasonMalformed:
		return "malformed source url"
	}

	if f.Err != nil {
		return fmt.Sprintf("upstream request failed: %v", f.Err)
	}
	return "upstream request failed"
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func fail(reason Reason, u string, err error) *Failure {
	return &Failure{Reason: reason, URL: u, Err: err}
}

// Response converts the outcome of Resolve into the response shape handed to clients.
func Response(res *source.Resolved, err error) source.Result {
	if err == nil && res != nil {
		return source.Succeeded(res)
	}

	var f *Failure
	if errors.As(err, &f) {
		return source.Failed(f.Error())
	}
	if err != nil {
		return source.Failed(err.Error())
	}
	return source.Failed(NoSourcesMessage)
}
