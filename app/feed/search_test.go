package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPChannelSearcher_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "some channel" {
			t.Errorf("Expected query 'some channel', got: %s", got)
		}
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("Expected API key header, got: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"best_match": {"channel_id": "UCabcdefghijklmnopqrstuv", "title": "Some Channel"},
			"alternates": [{"channel_id": "UC0000000000000000000001", "title": "Alt"}]
		}`))
	}))
	defer server.Close()

	searcher := NewHTTPChannelSearcher(server.URL, "secret", 5*time.Second)

	best, alternates, err := searcher.Search(context.Background(), "some channel")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if best == nil || best.ChannelID != "UCabcdefghijklmnopqrstuv" {
		t.Fatalf("Expected best match, got: %v", best)
	}
	if len(alternates) != 1 {
		t.Errorf("Expected 1 alternate, got: %d", len(alternates))
	}
}

func TestHTTPChannelSearcher_Search_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"best_match": null, "alternates": []}`))
	}))
	defer server.Close()

	searcher := NewHTTPChannelSearcher(server.URL, "", 5*time.Second)

	best, _, err := searcher.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if best != nil {
		t.Errorf("Expected nil best match, got: %v", best)
	}
}

func TestHTTPChannelSearcher_Search_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	searcher := NewHTTPChannelSearcher(server.URL, "", 5*time.Second)

	if _, _, err := searcher.Search(context.Background(), "anything"); err == nil {
		t.Error("Expected error on non-200 response")
	}
}

func TestHTTPProxyClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("url"); got != "https://example.com/feed.xml" {
			t.Errorf("Expected target URL in query, got: %s", got)
		}
		w.Write([]byte("document body"))
	}))
	defer server.Close()

	proxy := NewHTTPProxyClient(server.URL, "TestAgent/1.0", 5*time.Second)

	data, err := proxy.Get(context.Background(), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(data) != "document body" {
		t.Errorf("Expected proxied body, got: %s", data)
	}
}

func TestHTTPProxyClient_Get_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	proxy := NewHTTPProxyClient(server.URL, "TestAgent/1.0", 5*time.Second)

	if _, err := proxy.Get(context.Background(), "https://example.com/feed.xml"); err == nil {
		t.Error("Expected error on non-200 response")
	}
}
