// Package resolve turns source references into playable URLs.
//
// A reference is decoded, validated and given a scheme, then routed to the first
// matching strategy: direct-embed passthrough, direct media file, the catalog's
// clock endpoints, the fast4speed tools host, or a generic page scrape.
// Nothing is retried.
package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anisan-cli/anibridge/config"
	"github.com/anisan-cli/anibridge/constant"
	"github.com/anisan-cli/anibridge/decoder"
	"github.com/anisan-cli/anibridge/extract"
	"github.com/anisan-cli/anibridge/key"
	"github.com/anisan-cli/anibridge/link"
	"github.com/anisan-cli/anibridge/log"
	"github.com/anisan-cli/anibridge/network"
	"github.com/anisan-cli/anibridge/source"
)

// TypeDirect marks URLs that already point at a media file.
const (
	TypeDirect = "direct"
	TypeIframe = "iframe"
)

const maxBody = 4 << 20

// Router resolves source references. It holds no per-call state.
type Router struct {
	http       network.Doer
	single     network.Doer
	timeout    time.Duration
	userAgent  string
	referer    string
	clockBase  string
	clockHosts []string
	toolsHosts []string
}

// Option customizes a Router.
type Option func(*Router)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(doer network.Doer) Option {
	return func(r *Router) { r.http = doer }
}

// WithClockHosts replaces the hosts serving clock JSON link lists.
func WithClockHosts(hosts ...string) Option {
	return func(r *Router) { r.clockHosts = hosts }
}

// WithToolsHosts replaces the hosts handled as redirecting tools hosts.
func WithToolsHosts(hosts ...string) Option {
	return func(r *Router) { r.toolsHosts = hosts }
}

// WithClockBase sets the origin joined to root-relative decoded references.
func WithClockBase(base string) Option {
	return func(r *Router) { r.clockBase = base }
}

// New builds a Router from configuration.
func New(cfg config.Provider, opts ...Option) *Router {
	r := &Router{
		http:       network.Client,
		timeout:    config.Seconds(cfg, key.ResolveTimeout, 5*time.Second),
		userAgent:  config.String(cfg, key.CatalogUserAgent, constant.UserAgent),
		referer:    config.String(cfg, key.CatalogReferer, constant.CatalogReferer),
		clockBase:  constant.ClockBase,
		clockHosts: []string{"allanime.day", "allanime.pro", "allmanga.to"},
		toolsHosts: []string{"fast4speed"},
	}

	for _, opt := range opts {
		opt(r)
	}

	r.single = network.WithoutRedirects(r.http)
	return r
}

// Prepare decodes, validates and completes a raw reference without touching the network.
func (r *Router) Prepare(raw string) (string, error) {
	u := strings.TrimSpace(decoder.DecodeWithBase(raw, r.clockBase))

	if link.IsCorrupted(u) {
		return "", fail(ReasonCorrupted, raw, nil)
	}
	if !link.IsWellFormed(u) {
		return "", fail(ReasonMalformed, raw, nil)
	}
	return link.EnsureScheme(u), nil
}

// Resolve returns the playable URL behind raw or a *Failure.
func (r *Router) Resolve(ctx context.Context, raw string) (*source.Resolved, error) {
	u, err := r.Prepare(raw)
	if err != nil {
		return nil, err
	}

	entry := log.With(log.Fields{"url": u})

	if host, ok := link.MatchHost(u, constant.DirectEmbedHosts...); ok {
		entry.Debug("direct embed")
		return &source.Resolved{URL: u, Type: host}, nil
	}

	if link.HasVideoExtension(u) {
		entry.Debug("direct media")
		return &source.Resolved{URL: u, Type: TypeDirect}, nil
	}

	var res *source.Resolved
	switch {
	case r.isClock(u):
		res, err = r.clock(ctx, u)
	case link.HostMatches(u, r.toolsHosts...):
		res, err = r.tools(ctx, u)
	default:
		res, err = r.page(ctx, u)
	}

	if err != nil {
		entry.Warn(err)
		return nil, err
	}

	entry.Info("resolved to " + res.URL)
	return res, nil
}

// ResolveRecord resolves a catalog source record.
func (r *Router) ResolveRecord(ctx context.Context, rec *source.Record) (*source.Resolved, error) {
	if rec == nil {
		return nil, fail(ReasonMalformed, "", nil)
	}

	res, err := r.Resolve(ctx, rec.URL)
	if err != nil {
		return nil, err
	}

	if res.Quality == "" && rec.Quality != "embed" {
		res.Quality = rec.Quality
	}
	return res, nil
}

// ResolveFirst resolves records in order and returns the first success. Each
// record is attempted once. The last failure is returned when none resolves.
func (r *Router) ResolveFirst(ctx context.Context, records []*source.Record) (*source.Resolved, error) {
	var last error = fail(ReasonNoSources, "", nil)

	for _, rec := range records {
		res, err := r.ResolveRecord(ctx, rec)
		if err == nil {
			return res, nil
		}
		last = err

		if ctx.Err() != nil {
			break
		}
	}
	return nil, last
}

func (r *Router) isClock(u string) bool {
	if !link.HostMatches(u, r.clockHosts...) {
		return false
	}
	return strings.Contains(u, "/apivtwo/") || strings.Contains(u, "clock.json")
}

func (r *Router) headers(referer string) map[string]string {
	h := map[string]string{"User-Agent": r.userAgent}
	if referer != "" {
		h["Referer"] = referer
	}
	return h
}

// get issues a GET and hands back the response only when it is a 200.
func (r *Router) get(ctx context.Context, u, referer string) (*http.Response, error) {
	resp, err := r.send(ctx, r.http, u, referer)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fail(ReasonUpstream, u, fmt.Errorf("invalid response code %d", resp.StatusCode))
	}
	return resp, nil
}

// send issues a GET through doer and accepts a 200 or a redirect carrying a Location.
func (r *Router) send(ctx context.Context, doer network.Doer, u, referer string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fail(ReasonMalformed, u, err)
	}

	for k, v := range r.headers(referer) {
		req.Header.Set(k, v)
	}

	resp, err := doer.Do(req)
	if err != nil {
		return nil, fail(ReasonUpstream, u, err)
	}

	if _, moved := location(resp); resp.StatusCode != http.StatusOK && !moved {
		_ = resp.Body.Close()
		return nil, fail(ReasonUpstream, u, fmt.Errorf("invalid response code %d", resp.StatusCode))
	}
	return resp, nil
}

// location returns the absolute redirect target of a 3xx response.
func location(resp *http.Response) (string, bool) {
	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return "", false
	}

	loc, err := resp.Location()
	if err != nil {
		return "", false
	}
	return loc.String(), true
}

func readBody(resp *http.Response) (string, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fail(ReasonUpstream, resp.Request.URL.String(), err)
	}
	return string(body), nil
}

func resolvedFrom(c extract.Candidate, headers map[string]string) *source.Resolved {
	for k, v := range c.Headers {
		headers[k] = v
	}

	kind := c.Kind()
	if kind == "" {
		kind = TypeDirect
	}

	return &source.Resolved{
		URL:     c.URL,
		Type:    kind,
		Headers: headers,
		Quality: c.Quality,
	}
}
