package database

import (
	"time"

	"github.com/avelichko/feedvault/app/feed"
)

// Source represents a subscribed external feed belonging to one owner
type Source struct {
	ID           string
	OwnerID      string
	Kind         feed.SourceKind
	FeedURL      string
	Title        string
	DeletedAt    *time.Time // soft delete marker; deleted sources are never synced
	LastSyncedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Item represents a persisted content item originating from a Source
type Item struct {
	ID           string
	SourceID     string
	CanonicalID  string
	Title        string
	Description  string
	Link         string
	ThumbnailURL *string
	PublishedAt  time.Time
	CreatedAt    time.Time
}

// Interaction is one owner's per-item state. The referenced item may have
// been deleted already; such rows are the orphan-cleanup sweep's target.
type Interaction struct {
	ID        string
	OwnerID   string
	ItemID    string
	ItemKind  feed.SourceKind
	Read      bool
	Favorite  bool
	ReadLater bool
	UpdatedAt time.Time
}
