package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ProxyClient fetches a raw document through an intermediary service. Used
// as the second fetch tier when a direct fetch fails.
type ProxyClient interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

var _ ProxyClient = (*HTTPProxyClient)(nil)

// HTTPProxyClient requests documents through a relay endpoint that accepts
// the target URL as a query parameter.
type HTTPProxyClient struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

func NewHTTPProxyClient(baseURL, userAgent string, timeout time.Duration) *HTTPProxyClient {
	return &HTTPProxyClient{
		client:    &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}

func (p *HTTPProxyClient) Get(ctx context.Context, rawURL string) ([]byte, error) {
	reqURL := fmt.Sprintf("%s?url=%s", p.baseURL, url.QueryEscape(rawURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("proxy HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read proxy response: %w", err)
	}
	if len(data) > maxBodySize {
		return nil, errBodyTooLarge
	}

	return data, nil
}
