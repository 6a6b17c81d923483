// Package fetch retrieves the static JSON documents the page is built
// from. Fetches are polite: per-host rate limiting, a byte cap, a redirect
// cap, and an honest User-Agent.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/time/rate"

	"github.com/whaleprotocol/watchdesk/internal/model"
)

// Client fetches JSON documents over HTTP.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perHost  rate.Limit
}

// NewClient builds a client from the outbound HTTP configuration.
func NewClient(cfg model.HTTPConfig) *Client {
	perHost := rate.Limit(cfg.RatePerHost)
	if perHost <= 0 {
		perHost = 1
	}

	transport := &http.Transport{
		Proxy: proxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		limiters:  make(map[string]*rate.Limiter),
		perHost:   perHost,
	}
}

// FetchJSON retrieves rawURL and returns the response body, capped at the
// configured byte limit. Non-2xx statuses are errors.
func (c *Client) FetchJSON(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.wait(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// wait blocks until the per-host rate limiter clears the request.
func (c *Client) wait(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}

	c.mu.Lock()
	limiter, ok := c.limiters[u.Host]
	if !ok {
		limiter = rate.NewLimiter(c.perHost, 2)
		c.limiters[u.Host] = limiter
	}
	c.mu.Unlock()

	return limiter.Wait(ctx)
}

// proxyFunc prefers explicit proxy settings over the process environment.
func proxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}
	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
