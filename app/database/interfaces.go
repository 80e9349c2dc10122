package database

import (
	"time"

	"github.com/avelichko/feedvault/app/feed"
)

// NewItem carries a normalized record into the persistence layer
type NewItem struct {
	CanonicalID  string
	Title        string
	Description  string
	Link         string
	ThumbnailURL *string
	PublishedAt  time.Time
}

type SourceRepository interface {
	GetSource(id string) (*Source, error)
	GetSourceByURL(ownerID, feedURL string) (*Source, error)
	ListActiveSources(ownerID string) ([]Source, error)
	GetSourcesDueForSync(staleAfter time.Duration, limit int) ([]Source, error)
	ListOwnerIDs() ([]string, error)
	UpsertSource(ownerID string, kind feed.SourceKind, feedURL, title string) (string, error)
	UpdateLastSyncedAt(id string, syncedAt time.Time) error
	GetSourceCount() (int, error)
}

type ItemRepository interface {
	// HasPrivilegedWrite reports whether the elevated-role write tier is available
	HasPrivilegedWrite() bool

	GetCanonicalIDs(kind feed.SourceKind, sourceID string) (map[string]struct{}, error)
	InsertBatch(kind feed.SourceKind, sourceID string, items []NewItem) (int, error)
	InsertBatchPrivileged(kind feed.SourceKind, sourceID string, items []NewItem) (int, error)
	InsertItem(kind feed.SourceKind, sourceID string, item NewItem) (int, error)

	GetItemIDsOlderThan(kind feed.SourceKind, ownerID string, cutoff time.Time) ([]string, error)
	DeleteItemsByID(kind feed.SourceKind, ids []string) (int, error)
	GetItemCount(kind feed.SourceKind) (int, error)
}

type InteractionRepository interface {
	GetFavoriteItemIDs(ownerID string) (map[string]struct{}, error)
	GetReadLaterItemIDs(ownerID string) (map[string]struct{}, error)
	DeleteForItems(itemIDs []string) (int, error)
	CountOrphaned(ownerID string) (int, error)
	DeleteOrphaned(ownerID string) (int, error)
	GetInteractionCount() (int, error)
}
