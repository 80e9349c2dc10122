package feed

import (
	"testing"

	"github.com/mmcdole/gofeed"
)

func TestExtractVideoID_FromGUIDTail(t *testing.T) {
	item := &gofeed.Item{GUID: "yt:video:dQw4w9WgXcQ"}

	if id := ExtractVideoID(item); id != "dQw4w9WgXcQ" {
		t.Errorf("Expected id 'dQw4w9WgXcQ', got: %s", id)
	}
}

func TestExtractVideoID_FromBareGUID(t *testing.T) {
	item := &gofeed.Item{GUID: "dQw4w9WgXcQ"}

	if id := ExtractVideoID(item); id != "dQw4w9WgXcQ" {
		t.Errorf("Expected id 'dQw4w9WgXcQ', got: %s", id)
	}
}

func TestExtractVideoID_FromWatchURL(t *testing.T) {
	item := &gofeed.Item{Link: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}

	if id := ExtractVideoID(item); id != "dQw4w9WgXcQ" {
		t.Errorf("Expected id 'dQw4w9WgXcQ', got: %s", id)
	}
}

func TestExtractVideoID_FromShortLink(t *testing.T) {
	item := &gofeed.Item{Link: "https://youtu.be/dQw4w9WgXcQ"}

	if id := ExtractVideoID(item); id != "dQw4w9WgXcQ" {
		t.Errorf("Expected id 'dQw4w9WgXcQ', got: %s", id)
	}
}

func TestExtractVideoID_FromEmbedURL(t *testing.T) {
	item := &gofeed.Item{Link: "https://www.youtube.com/embed/dQw4w9WgXcQ"}

	if id := ExtractVideoID(item); id != "dQw4w9WgXcQ" {
		t.Errorf("Expected id 'dQw4w9WgXcQ', got: %s", id)
	}
}

func TestExtractVideoID_FromShortsURL(t *testing.T) {
	item := &gofeed.Item{Link: "https://www.youtube.com/shorts/dQw4w9WgXcQ"}

	if id := ExtractVideoID(item); id != "dQw4w9WgXcQ" {
		t.Errorf("Expected id 'dQw4w9WgXcQ', got: %s", id)
	}
}

func TestExtractVideoID_GUIDWinsOverLink(t *testing.T) {
	item := &gofeed.Item{
		GUID: "yt:video:aaaaaaaaaaa",
		Link: "https://www.youtube.com/watch?v=bbbbbbbbbbb",
	}

	if id := ExtractVideoID(item); id != "aaaaaaaaaaa" {
		t.Errorf("Expected guid-derived id to win, got: %s", id)
	}
}

func TestExtractVideoID_InvalidGUIDFallsThroughToLink(t *testing.T) {
	item := &gofeed.Item{
		GUID: "urn:uuid:not-a-video-identifier",
		Link: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	}

	if id := ExtractVideoID(item); id != "dQw4w9WgXcQ" {
		t.Errorf("Expected link-derived id, got: %s", id)
	}
}

func TestExtractVideoID_FromDescriptionURL(t *testing.T) {
	item := &gofeed.Item{
		Description: "New upload! Watch it here: https://youtu.be/dQw4w9WgXcQ and subscribe.",
	}

	if id := ExtractVideoID(item); id != "dQw4w9WgXcQ" {
		t.Errorf("Expected description-derived id, got: %s", id)
	}
}

func TestExtractVideoID_FromThumbnail(t *testing.T) {
	item := &gofeed.Item{
		Image: &gofeed.Image{URL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg"},
	}

	if id := ExtractVideoID(item); id != "dQw4w9WgXcQ" {
		t.Errorf("Expected thumbnail-derived id, got: %s", id)
	}
}

func TestExtractVideoID_RejectsWrongLength(t *testing.T) {
	cases := []struct {
		name string
		guid string
	}{
		{"ten characters", "yt:video:abcdefghij"},
		{"twelve characters", "yt:video:abcdefghijkl"},
	}

	for _, tc := range cases {
		item := &gofeed.Item{GUID: tc.guid}
		if id := ExtractVideoID(item); id != "" {
			t.Errorf("%s: expected no id, got: %s", tc.name, id)
		}
	}
}

func TestExtractVideoID_NothingUsable(t *testing.T) {
	item := &gofeed.Item{
		Title:       "A plain announcement",
		Description: "No identifiers anywhere in here.",
	}

	if id := ExtractVideoID(item); id != "" {
		t.Errorf("Expected no id, got: %s", id)
	}
}

func TestIsValidVideoID(t *testing.T) {
	if !IsValidVideoID("dQw4w9WgXcQ") {
		t.Error("Expected 11-character id to be valid")
	}
	if IsValidVideoID("dQw4w9WgXc") {
		t.Error("Expected 10-character id to be invalid")
	}
	if IsValidVideoID("dQw4w9WgXcQQ") {
		t.Error("Expected 12-character id to be invalid")
	}
	if IsValidVideoID("dQw4w9WgX?Q") {
		t.Error("Expected id with invalid character to be rejected")
	}
}

func TestExtractSyndicationID_PrefersGUID(t *testing.T) {
	item := &gofeed.Item{
		GUID: "urn:uuid:entry-1",
		Link: "https://example.com/post/1",
	}

	if id := ExtractSyndicationID(item); id != "urn:uuid:entry-1" {
		t.Errorf("Expected guid, got: %s", id)
	}
}

func TestExtractSyndicationID_FallsBackToLink(t *testing.T) {
	item := &gofeed.Item{Link: "https://example.com/post/1"}

	if id := ExtractSyndicationID(item); id != "https://example.com/post/1" {
		t.Errorf("Expected link, got: %s", id)
	}
}

func TestExtractSyndicationID_ContentHashFallback(t *testing.T) {
	item := &gofeed.Item{Title: "Hello", Published: "Mon, 03 Jul 2023 10:00:00 GMT"}

	id := ExtractSyndicationID(item)
	if id == "" {
		t.Fatal("Expected a hash-derived id")
	}
	if len(id) != 64 {
		t.Errorf("Expected a 64-character hex digest, got %d characters", len(id))
	}

	// The hash must be stable across runs of the same entry
	if again := ExtractSyndicationID(item); again != id {
		t.Errorf("Expected stable hash, got %s then %s", id, again)
	}
}

func TestExtractSyndicationID_EmptyEntry(t *testing.T) {
	if id := ExtractSyndicationID(&gofeed.Item{}); id != "" {
		t.Errorf("Expected no id for empty entry, got: %s", id)
	}
}
