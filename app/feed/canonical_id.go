package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Canonical-id extraction is an ordered chain of pure extractors; the first
// value passing the kind's validity check wins. Entries yielding no valid id
// are dropped by the normalizer: they cannot be deduplicated or addressed
// later.

type idExtractor func(*gofeed.Item) string

func firstValidID(item *gofeed.Item, extractors []idExtractor, valid func(string) bool) string {
	for _, extract := range extractors {
		if candidate := extract(item); candidate != "" && valid(candidate) {
			return candidate
		}
	}
	return ""
}

var (
	videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

	// Permalink shapes: watch query parameter, short-link, embedded player,
	// short-form.
	videoURLIDPattern = regexp.MustCompile(`(?:[?&]v=|youtu\.be/|/embed/|/shorts/)([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`)

	videoTokenPattern = regexp.MustCompile(`(?:^|[^A-Za-z0-9_-])([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`)

	thumbnailIDPattern = regexp.MustCompile(`/vi/([A-Za-z0-9_-]{11})/`)
)

func IsValidVideoID(s string) bool {
	return videoIDPattern.MatchString(s)
}

// ExtractCanonicalID runs the id chain for the source kind. Returns "" when
// no extractor produces a valid id.
func ExtractCanonicalID(item *gofeed.Item, kind SourceKind) string {
	if kind == KindVideoChannel {
		return ExtractVideoID(item)
	}
	return ExtractSyndicationID(item)
}

func ExtractVideoID(item *gofeed.Item) string {
	return firstValidID(item, []idExtractor{
		idFromGUIDTail,
		idFromLinkURL,
		idFromLinkPattern,
		idFromGUIDPattern,
		idFromText,
		idFromThumbnail,
	}, IsValidVideoID)
}

// idFromGUIDTail strips a namespaced identifier ("yt:video:<id>") down to
// its trailing segment. A guid without separators is its own candidate.
func idFromGUIDTail(item *gofeed.Item) string {
	guid := strings.TrimSpace(item.GUID)
	if guid == "" {
		return ""
	}
	if idx := strings.LastIndex(guid, ":"); idx >= 0 {
		return guid[idx+1:]
	}
	return guid
}

// idFromLinkURL parses the entry permalink for the known URL shapes.
func idFromLinkURL(item *gofeed.Item) string {
	u, err := url.Parse(item.Link)
	if err != nil || u.Host == "" {
		return ""
	}

	if v := u.Query().Get("v"); v != "" {
		return v
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "youtu.be" && len(segments) > 0 {
		return segments[0]
	}

	for i, seg := range segments {
		if (seg == "embed" || seg == "shorts") && i+1 < len(segments) {
			return segments[i+1]
		}
	}

	return ""
}

// idFromLinkPattern covers permalinks the URL parser rejects.
func idFromLinkPattern(item *gofeed.Item) string {
	return firstSubmatch(videoURLIDPattern, item.Link)
}

// idFromGUIDPattern scans the guid for an embedded permalink or a raw id.
func idFromGUIDPattern(item *gofeed.Item) string {
	if id := firstSubmatch(videoURLIDPattern, item.GUID); id != "" {
		return id
	}
	return firstSubmatch(videoTokenPattern, item.GUID)
}

// idFromText scans free-text fields for an id-shaped token. Low confidence,
// last resort before the thumbnail fallback.
func idFromText(item *gofeed.Item) string {
	for _, text := range []string{item.Description, item.Title} {
		if id := firstSubmatch(videoURLIDPattern, text); id != "" {
			return id
		}
	}
	for _, text := range []string{item.Description, item.Title} {
		if id := firstSubmatch(videoTokenPattern, text); id != "" {
			return id
		}
	}
	return ""
}

// idFromThumbnail derives the id from a thumbnail URL embedding it in the
// conventional /vi/<id>/ path segment.
func idFromThumbnail(item *gofeed.Item) string {
	if item.Image != nil {
		if id := firstSubmatch(thumbnailIDPattern, item.Image.URL); id != "" {
			return id
		}
	}
	return firstSubmatch(thumbnailIDPattern, mediaThumbnailURL(item))
}

func firstSubmatch(pattern *regexp.Regexp, s string) string {
	if s == "" {
		return ""
	}
	if m := pattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// ExtractSyndicationID follows the same chain structure for syndication
// entries: guid, then permalink, then a content hash as the stable fallback.
func ExtractSyndicationID(item *gofeed.Item) string {
	return firstValidID(item, []idExtractor{
		func(i *gofeed.Item) string { return strings.TrimSpace(i.GUID) },
		func(i *gofeed.Item) string { return strings.TrimSpace(i.Link) },
		syndicationContentHash,
	}, func(s string) bool { return s != "" })
}

func syndicationContentHash(item *gofeed.Item) string {
	if item.Title == "" && item.Published == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s", item.Title, item.Published)))
	return hex.EncodeToString(sum[:])
}
