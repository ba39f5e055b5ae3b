// Package catalog queries the AllAnime GraphQL API for shows, episode lists and per-episode sources.
//
// Every upstream failure is logged and reported to the caller as an empty result.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anisan-cli/anibridge/config"
	"github.com/anisan-cli/anibridge/constant"
	"github.com/anisan-cli/anibridge/key"
	"github.com/anisan-cli/anibridge/network"
	"golang.org/x/time/rate"
)

// Client talks to the catalog. It is safe for concurrent use; the limiter serializes request starts.
type Client struct {
	endpoint  string
	referer   string
	userAgent string
	timeout   time.Duration
	limiter   *rate.Limiter
	http      network.Doer
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(doer network.Doer) Option {
	return func(c *Client) { c.http = doer }
}

// WithEndpoint points the client at apiURL instead of the configured catalog.
func WithEndpoint(apiURL string) Option {
	return func(c *Client) { c.endpoint = endpointOf(apiURL) }
}

// WithInterval sets the minimum spacing between requests.
func WithInterval(d time.Duration) Option {
	return func(c *Client) { c.limiter = newLimiter(d) }
}

// New builds a Client from configuration.
func New(cfg config.Provider, opts ...Option) *Client {
	c := &Client{
		endpoint:  endpointOf(config.String(cfg, key.CatalogAPIURL, constant.CatalogAPI)),
		referer:   config.String(cfg, key.CatalogReferer, constant.CatalogReferer),
		userAgent: config.String(cfg, key.CatalogUserAgent, constant.UserAgent),
		timeout:   config.Seconds(cfg, key.CatalogTimeout, 10*time.Second),
		limiter:   newLimiter(config.Millis(cfg, key.CatalogMinIntervalMs, 500*time.Millisecond)),
		http:      network.Client,
	}

	if config.Bool(cfg, key.CatalogBrowserTLS, false) {
		c.http = network.NewBrowserClient(c.timeout)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

func endpointOf(apiURL string) string {
	return strings.TrimRight(apiURL, "/") + "/api"
}

// query issues one GET request carrying the GraphQL document and its variables.
func (c *Client) query(ctx context.Context, document string, variables, out any) error {
	vars, err := json.Marshal(variables)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("variables", string(vars))
	params.Set("query", document)

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Referer", c.referer)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("invalid response code %d", resp.StatusCode)
	}

	return network.DecodeGraphQL(resp.Body, out)
}
