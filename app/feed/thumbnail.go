package feed

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

const videoThumbnailFormat = "https://i.ytimg.com/vi/%s/hqdefault.jpg"

// ResolveThumbnail runs the thumbnail chain: first candidate with an http(s)
// or root-relative URL wins. Returns nil when nothing validates; consumers
// must handle absence.
func ResolveThumbnail(item *gofeed.Item, kind SourceKind, canonicalID string) *string {
	candidates := []func() string{
		func() string { return explicitImageURL(item) },
		func() string { return mediaContentURL(item) },
		func() string { return mediaThumbnailURL(item) },
		func() string { return imageEnclosureURL(item) },
		func() string { return defaultThumbnailURL(kind, canonicalID) },
		func() string { return inlineImageURL(item) },
	}

	for _, candidate := range candidates {
		if u := candidate(); isValidThumbnailURL(u) {
			return &u
		}
	}

	return nil
}

func isValidThumbnailURL(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		(strings.HasPrefix(s, "/") && len(s) > 1)
}

func explicitImageURL(item *gofeed.Item) string {
	if item.Image == nil {
		return ""
	}
	return strings.TrimSpace(item.Image.URL)
}

func mediaContentURL(item *gofeed.Item) string {
	return mediaExtensionURL(item, "content")
}

func mediaThumbnailURL(item *gofeed.Item) string {
	return mediaExtensionURL(item, "thumbnail")
}

// mediaExtensionURL reads a media:* field directly on the entry or nested
// inside media:group. Feeds in the wild carry these as a bare string value,
// a single element, or a list; the first element wins in every shape.
func mediaExtensionURL(item *gofeed.Item, field string) string {
	media, ok := item.Extensions["media"]
	if !ok {
		return ""
	}

	if exts := media[field]; len(exts) > 0 {
		if u := extensionURL(exts[0]); u != "" {
			return u
		}
	}

	if groups := media["group"]; len(groups) > 0 {
		if exts := groups[0].Children[field]; len(exts) > 0 {
			return extensionURL(exts[0])
		}
	}

	return ""
}

func extensionURL(e ext.Extension) string {
	if u := strings.TrimSpace(e.Attrs["url"]); u != "" {
		return u
	}
	return strings.TrimSpace(e.Value)
}

// imageEnclosureURL returns the first enclosure whose declared MIME type is
// an image type.
func imageEnclosureURL(item *gofeed.Item) string {
	for _, enclosure := range item.Enclosures {
		if enclosure == nil {
			continue
		}
		if strings.HasPrefix(enclosure.Type, "image/") {
			return strings.TrimSpace(enclosure.URL)
		}
	}
	return ""
}

func defaultThumbnailURL(kind SourceKind, canonicalID string) string {
	if kind == KindVideoChannel && IsValidVideoID(canonicalID) {
		return fmt.Sprintf(videoThumbnailFormat, canonicalID)
	}
	return ""
}

// inlineImageURL scans HTML body content for the first image reference.
func inlineImageURL(item *gofeed.Item) string {
	for _, html := range []string{item.Content, item.Description} {
		if !strings.Contains(html, "<img") {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			continue
		}
		if src, ok := doc.Find("img").First().Attr("src"); ok {
			return strings.TrimSpace(src)
		}
	}
	return ""
}
