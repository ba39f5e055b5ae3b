// Package network provides the HTTP clients shared by the catalog, metadata and resolver packages.
package network

import (
	"net/http"
	"time"
)

// Client is the default HTTP client. Per-request deadlines come from the caller's context.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 20
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

// Doer is anything that can execute an HTTP request.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// WithoutRedirects returns a Doer that hands 3xx responses back instead of following them.
// Only *http.Client can be reconfigured; any other Doer is returned as is.
func WithoutRedirects(d Doer) Doer {
	c, ok := d.(*http.Client)
	if !ok {
		return d
	}

	single := *c
	single.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &single
}
