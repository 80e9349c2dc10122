package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

const maxBodySize = 10 << 20 // 10 MiB

var errBodyTooLarge = errors.New("response body exceeds size limit")

// Fetcher retrieves and parses feed documents with a two-tier network
// strategy: a direct fetch first, then the proxy collaborator on any
// failure. There is no third tier. Successful results from either tier are
// written through the TTL cache.
type Fetcher struct {
	client    *http.Client
	proxy     ProxyClient
	cache     *Cache
	limiter   *rate.Limiter
	parser    *gofeed.Parser
	userAgent string
	timeout   time.Duration
}

func NewFetcher(proxy ProxyClient, cache *Cache, timeout time.Duration, userAgent string, ratePerSec float64) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		proxy:     proxy,
		cache:     cache,
		limiter:   rate.NewLimiter(rate.Limit(ratePerSec), 1),
		parser:    gofeed.NewParser(),
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// Fetch returns the parsed document for a canonical feed URL. A fresh cache
// entry short-circuits all network work unless skipCache is set.
func (f *Fetcher) Fetch(ctx context.Context, url string, skipCache bool) (*gofeed.Feed, error) {
	if !skipCache {
		if cached, ok := f.cache.Get(url); ok {
			slog.Debug("Feed cache hit", "url", url)
			return cached, nil
		}
	}

	parsed, directErr := f.fetchDirect(ctx, url)
	if directErr == nil {
		return f.cache.Put(url, parsed), nil
	}

	if f.proxy == nil {
		return nil, f.classify(url, directErr)
	}

	slog.Warn("Direct fetch failed, falling back to proxy", "url", url, "error", directErr)

	parsed, proxyErr := f.fetchViaProxy(ctx, url)
	if proxyErr != nil {
		return nil, f.classify(url, proxyErr)
	}

	return f.cache.Put(url, parsed), nil
}

func (f *Fetcher) fetchDirect(ctx context.Context, url string) (*gofeed.Feed, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > maxBodySize {
		return nil, errBodyTooLarge
	}

	return f.parse(data)
}

func (f *Fetcher) fetchViaProxy(ctx context.Context, url string) (*gofeed.Feed, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	data, err := f.proxy.Get(timeoutCtx, url)
	if err != nil {
		return nil, err
	}

	return f.parse(data)
}

var errInvalidFormat = errors.New("document is not a parseable feed")

func (f *Fetcher) parse(data []byte) (*gofeed.Feed, error) {
	parsed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidFormat, err)
	}
	return parsed, nil
}

// classify wraps the terminal failure of the second tier (or the first, when
// no proxy is configured) into a kinded FetchError.
func (f *Fetcher) classify(url string, err error) *FetchError {
	kind := FetchNetwork
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = FetchTimeout
	case errors.Is(err, errBodyTooLarge):
		kind = FetchSizeExceeded
	case errors.Is(err, errInvalidFormat):
		kind = FetchInvalidFormat
	}

	return &FetchError{Kind: kind, URL: url, Err: err}
}
