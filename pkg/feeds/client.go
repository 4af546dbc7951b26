package feeds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/matzehuels/seqtracks/pkg/cache"
	"github.com/matzehuels/seqtracks/pkg/observability"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 8 * time.Second

// cacheNamespace prefixes cache keys of feed responses.
const cacheNamespace = "feed"

// maxBody caps the size of a feed response.
const maxBody = 64 << 20

var (
	// ErrNotFound is returned when the feed responds 404.
	ErrNotFound = errors.New("feed not found")

	// ErrNetwork is returned for transport failures and non-2xx responses.
	ErrNetwork = errors.New("network error")
)

// Fetcher retrieves the body behind a URL. Implementations must be safe for
// concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }

// Client is an HTTP Fetcher with an optional response cache.
//
// All methods are safe for concurrent use.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	refresh bool
	headers map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTTL sets how long responses stay cached.
func WithTTL(d time.Duration) Option {
	return func(c *Client) { c.ttl = d }
}

// WithRefresh bypasses cached responses while still storing fresh ones.
func WithRefresh(refresh bool) Option {
	return func(c *Client) { c.refresh = refresh }
}

// WithHeaders sets headers sent with every request.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) { c.headers = h }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a Client backed by store. A nil store disables caching.
func NewClient(store cache.Cache, opts ...Option) *Client {
	if store == nil {
		store = cache.NewNullCache()
	}
	c := &Client{
		http:  &http.Client{Timeout: DefaultTimeout},
		cache: store,
		ttl:   cache.TTLFeed,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch returns the body at url, from cache when possible.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := cache.Key(cacheNamespace, url)
	hooks := observability.Cache()
	if !c.refresh {
		if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, cacheNamespace)
			return data, nil
		}
		hooks.OnCacheMiss(ctx, cacheNamespace)
	}

	data, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err == nil {
		hooks.OnCacheSet(ctx, cacheNamespace, len(data))
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/plain;q=0.9, */*;q=0.8")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := splitURL(url)
	hooks.OnRequest(ctx, req.Method, host, path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, fmt.Errorf("%w: %s: %w", ErrNetwork, url, err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, fmt.Errorf("%w: %s", err, url)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrNetwork, url, err)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func splitURL(raw string) (host, path string) {
	u, err := neturl.Parse(raw)
	if err != nil {
		return "", raw
	}
	return u.Host, u.Path
}
