// Package api fetches forecast datasets from the forecast HTTP API.
//
// The API serves GET {base}/stocks/{ticker}/forecast with a JSON dataset
// body. [Client] caches response bodies in any [cache.Cache], retries
// transient failures with exponential backoff and limits its own request
// rate.
//
//	c, err := api.NewClient("https://forecast.example.com",
//	    api.WithCache(fileCache, 0),
//	    api.WithRateLimit(5, 10),
//	)
//	ds, err := c.Dataset(ctx, "AAPL")
//
// [cache.Cache]: github.com/matzehuels/forecastviz/pkg/cache#Cache
package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/matzehuels/forecastviz/pkg/cache"
	"github.com/matzehuels/forecastviz/pkg/errors"
	"github.com/matzehuels/forecastviz/pkg/forecast"
	"github.com/matzehuels/forecastviz/pkg/httputil"
	"github.com/matzehuels/forecastviz/pkg/observability"
)

const (
	httpTimeout  = 10 * time.Second
	maxBodyBytes = 8 << 20
	userAgent    = "forecastviz"
)

// Client is a [source.Source] backed by the forecast API.
//
// [source.Source]: github.com/matzehuels/forecastviz/pkg/source#Source
type Client struct {
	base     *url.URL
	http     *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	refresh  bool
	limiter  *rate.Limiter
	attempts int
	delay    time.Duration
	headers  map[string]string
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithCache caches response bodies in cc for ttl ([cache.TTLHTTP] when 0).
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Client) { c.cache, c.ttl = cc, ttl }
}

// WithKeyer sets the cache key layout.
func WithKeyer(k cache.Keyer) Option { return func(c *Client) { c.keyer = k } }

// WithRefresh bypasses cached bodies while still storing fresh ones.
func WithRefresh(on bool) Option { return func(c *Client) { c.refresh = on } }

// WithRateLimit allows rps requests per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithRetry sets the attempt count and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) { c.attempts, c.delay = attempts, delay }
}

// WithHeader adds a header to every request, e.g. an API token.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse API url")
	}
	c := &Client{
		base:     u,
		http:     &http.Client{Timeout: httpTimeout},
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		limiter:  rate.NewLimiter(10, 20),
		attempts: 3,
		delay:    time.Second,
		headers:  map[string]string{"Accept": "application/json", "User-Agent": userAgent},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ttl <= 0 {
		c.ttl = cache.TTLHTTP
	}
	return c, nil
}

func (c *Client) Name() string { return "api" }

// URL returns the forecast endpoint for ticker.
func (c *Client) URL(ticker string) string {
	u := *c.base
	u.Path = u.Path + "/stocks/" + url.PathEscape(strings.ToUpper(ticker)) + "/forecast"
	return u.String()
}

// Dataset fetches and decodes the forecast for ticker.
func (c *Client) Dataset(ctx context.Context, ticker string) (*forecast.Dataset, error) {
	if err := errors.ValidateTicker(ticker); err != nil {
		return nil, err
	}
	endpoint := c.URL(ticker)
	key := c.keyer.HTTPKey(c.base.Host, endpoint)

	body, hit, err := httputil.Cached(ctx, c.cache, key, c.ttl, c.refresh, func() ([]byte, error) {
		var data []byte
		err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
			var err error
			data, err = c.get(ctx, endpoint)
			return err
		})
		return data, err
	})
	if err != nil {
		return nil, err
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, "http")
	} else {
		observability.Cache().OnCacheMiss(ctx, "http")
		observability.Cache().OnCacheSet(ctx, "http", len(body))
	}

	ds, err := forecast.Decode(bytes.NewReader(body))
	if err != nil {
		_ = c.cache.Delete(ctx, key)
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode %s", endpoint)
	}
	if ds.Ticker == "" {
		ds.Ticker = strings.ToUpper(ticker)
	}
	return ds, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", endpoint))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := httputil.CheckStatus(resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", endpoint))
	}
	return data, nil
}
