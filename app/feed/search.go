package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var _ ChannelSearcher = (*HTTPChannelSearcher)(nil)

// HTTPChannelSearcher queries an external channel search service.
type HTTPChannelSearcher struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewHTTPChannelSearcher(baseURL, apiKey string, timeout time.Duration) *HTTPChannelSearcher {
	return &HTTPChannelSearcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type searchResponse struct {
	BestMatch  *ChannelMatch  `json:"best_match"`
	Alternates []ChannelMatch `json:"alternates"`
}

func (s *HTTPChannelSearcher) Search(ctx context.Context, query string) (*ChannelMatch, []ChannelMatch, error) {
	reqURL := fmt.Sprintf("%s?q=%s", s.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create search request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("search HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return result.BestMatch, result.Alternates, nil
}
