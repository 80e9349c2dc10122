package feed

import (
	"cmp"
	"log/slog"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
)

// Normalize converts one raw feed entry into a canonical record. The second
// return value is false when the entry yields no valid canonical id and must
// be dropped. A record always carries some timestamp; entries with no
// parseable date get the ingestion time.
func Normalize(item *gofeed.Item, kind SourceKind, now time.Time) (*Record, bool) {
	canonicalID := ExtractCanonicalID(item, kind)
	if canonicalID == "" {
		slog.Debug("Dropping entry without canonical id",
			"kind", string(kind),
			"title", item.Title,
			"guid", item.GUID)
		return nil, false
	}

	return &Record{
		CanonicalID:  canonicalID,
		Title:        item.Title,
		Description:  cmp.Or(item.Description, item.Content),
		Link:         item.Link,
		ThumbnailURL: ResolveThumbnail(item, kind, canonicalID),
		PublishedAt:  resolveTimestamp(item, now),
	}, true
}

// resolveTimestamp tries the parsed publish fields first, then raw date
// strings from alternate feed dialects.
func resolveTimestamp(item *gofeed.Item, now time.Time) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}

	for _, raw := range []string{item.Published, item.Updated, dublinCoreDate(item)} {
		if raw == "" {
			continue
		}
		if parsed, err := dateparse.ParseAny(raw); err == nil {
			return parsed
		}
	}

	return now
}

func dublinCoreDate(item *gofeed.Item) string {
	if dc, ok := item.Extensions["dc"]; ok {
		if dates := dc["date"]; len(dates) > 0 {
			return dates[0].Value
		}
	}
	return ""
}
