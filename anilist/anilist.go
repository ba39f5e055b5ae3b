// Package anilist builds trending, seasonal, top-rated and recent listings from the
// Anilist GraphQL API and cross-references each title against the catalog.
//
// Listings are cached per category. Upstream failures produce empty listings and
// titles without a catalog match keep their Anilist identifier.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/anisan-cli/anibridge/config"
	"github.com/anisan-cli/anibridge/constant"
	"github.com/anisan-cli/anibridge/internal/cache"
	"github.com/anisan-cli/anibridge/key"
	"github.com/anisan-cli/anibridge/log"
	"github.com/anisan-cli/anibridge/network"
	"github.com/anisan-cli/anibridge/source"
	"github.com/anisan-cli/anibridge/where"
	"golang.org/x/time/rate"
)

// Aggregator produces metadata listings. It is safe for concurrent use.
type Aggregator struct {
	endpoint     string
	timeout      time.Duration
	http         network.Doer
	limiter      *rate.Limiter
	pause        *rate.Limiter
	synonymLimit int
	now          func() time.Time

	catalog source.Catalog
	store   cache.Provider

	binds  *cacher[string, string]
	misses *cacher[string, time.Time]
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(doer network.Doer) Option {
	return func(a *Aggregator) { a.http = doer }
}

// WithEndpoint points the aggregator at another GraphQL endpoint.
func WithEndpoint(endpoint string) Option {
	return func(a *Aggregator) { a.endpoint = endpoint }
}

// WithInterval sets the minimum spacing between metadata requests.
func WithInterval(d time.Duration) Option {
	return func(a *Aggregator) { a.limiter = newLimiter(d) }
}

// WithCrossrefDelay sets the pause between successive catalog cross-reference searches.
func WithCrossrefDelay(d time.Duration) Option {
	return func(a *Aggregator) { a.pause = newLimiter(d) }
}

// WithClock replaces time.Now, used to derive the current season.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithRelations stores catalog matches and misses in the given files.
func WithRelations(bindsPath, missesPath string) Option {
	return func(a *Aggregator) {
		a.binds = newCacher[string](bindsPath, nil)
		a.misses = newCacher(missesPath, func(at time.Time) bool {
			return a.now().Sub(at) >= missLifetime
		})
	}
}

// New builds an Aggregator. A nil catalog disables cross-referencing.
func New(catalog source.Catalog, store cache.Provider, cfg config.Provider, opts ...Option) *Aggregator {
	a := &Aggregator{
		endpoint:     config.String(cfg, key.MetadataAPIURL, constant.MetadataAPI),
		timeout:      10 * time.Second,
		http:         network.Client,
		limiter:      newLimiter(config.Millis(cfg, key.MetadataMinIntervalMs, 500*time.Millisecond)),
		pause:        newLimiter(config.Millis(cfg, key.MetadataCrossrefDelayMs, 100*time.Millisecond)),
		synonymLimit: config.Int(cfg, key.MetadataSynonymLimit, 3),
		now:          time.Now,
		catalog:      catalog,
		store:        store,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.binds == nil {
		WithRelations(where.CatalogBinds(), where.CatalogMisses())(a)
	}
	return a
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// post sends one GraphQL request and decodes its data member into out.
func (a *Aggregator) post(ctx context.Context, document string, variables map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{
		"query":     document,
		"variables": variables,
	})
	if err != nil {
		return err
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Debug("Sending request to Anilist")
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("Anilist returned status code " + strconv.Itoa(resp.StatusCode))
		return fmt.Errorf("invalid response code %d", resp.StatusCode)
	}

	return network.DecodeGraphQL(resp.Body, out)
}

func (a *Aggregator) page(ctx context.Context, document string, variables map[string]any) ([]*media, error) {
	var response pageResponse
	if err := a.post(ctx, document, variables, &response); err != nil {
		return nil, err
	}
	return response.Page.Media, nil
}
