package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/avelichko/feedvault/app/feed"
)

var _ ItemRepository = (*PostgresItemRepository)(nil)

// PostgresItemRepository handles database operations for syndication and
// video items. The two kinds live in separate tables with identical shape;
// every method maps the source kind to its table.
type PostgresItemRepository struct {
	db *DB
}

func NewItemRepository(db *DB) *PostgresItemRepository {
	return &PostgresItemRepository{db: db}
}

func itemTable(kind feed.SourceKind) (string, error) {
	switch kind {
	case feed.KindSyndication:
		return "syndication_items", nil
	case feed.KindVideoChannel:
		return "video_items", nil
	default:
		return "", fmt.Errorf("unknown source kind: %s", kind)
	}
}

func (r *PostgresItemRepository) HasPrivilegedWrite() bool {
	return r.db.HasAdmin()
}

// GetCanonicalIDs returns the set of canonical ids already persisted for a
// source. Called once per sync; the dedup diff happens in memory.
func (r *PostgresItemRepository) GetCanonicalIDs(kind feed.SourceKind, sourceID string) (map[string]struct{}, error) {
	table, err := itemTable(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`SELECT canonical_id FROM `+table+` WHERE source_id = $1`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get canonical ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan canonical id: %w", err)
		}
		ids[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating canonical id rows: %w", err)
	}

	return ids, nil
}

func (r *PostgresItemRepository) InsertBatch(kind feed.SourceKind, sourceID string, items []NewItem) (int, error) {
	return r.insertBatch(r.db.DB, kind, sourceID, items)
}

// InsertBatchPrivileged writes through the elevated-role pool.
func (r *PostgresItemRepository) InsertBatchPrivileged(kind feed.SourceKind, sourceID string, items []NewItem) (int, error) {
	if !r.db.HasAdmin() {
		return 0, fmt.Errorf("privileged write requested without admin connection")
	}
	return r.insertBatch(r.db.Admin(), kind, sourceID, items)
}

func (r *PostgresItemRepository) insertBatch(pool *sql.DB, kind feed.SourceKind, sourceID string, items []NewItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	table, err := itemTable(kind)
	if err != nil {
		return 0, err
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO ` + table + ` (source_id, canonical_id, title, description, link, thumbnail_url, published_at) VALUES `)

	args := make([]interface{}, 0, len(items)*7)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 7
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args, sourceID, item.CanonicalID, item.Title, item.Description,
			item.Link, item.ThumbnailURL, item.PublishedAt)
	}

	// The unique constraint on (source_id, canonical_id) makes a racing
	// duplicate a no-op rather than an error.
	sb.WriteString(` ON CONFLICT (source_id, canonical_id) DO NOTHING`)

	res, err := pool.Exec(sb.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert item batch: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read batch insert result: %w", err)
	}

	return int(inserted), nil
}

func (r *PostgresItemRepository) InsertItem(kind feed.SourceKind, sourceID string, item NewItem) (int, error) {
	table, err := itemTable(kind)
	if err != nil {
		return 0, err
	}

	res, err := r.db.Exec(`
		INSERT INTO `+table+` (source_id, canonical_id, title, description, link, thumbnail_url, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (source_id, canonical_id) DO NOTHING
	`, sourceID, item.CanonicalID, item.Title, item.Description, item.Link, item.ThumbnailURL, item.PublishedAt)

	if err != nil {
		return 0, fmt.Errorf("failed to insert item: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read insert result: %w", err)
	}

	return int(inserted), nil
}

// GetItemIDsOlderThan returns ids of an owner's items published before the
// cutoff, scoped to sources of the given kind.
func (r *PostgresItemRepository) GetItemIDsOlderThan(kind feed.SourceKind, ownerID string, cutoff time.Time) ([]string, error) {
	table, err := itemTable(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT i.id
		FROM `+table+` i
		JOIN sources s ON s.id = i.source_id
		WHERE s.owner_id = $1
		  AND s.kind = $2
		  AND i.published_at < $3
	`, ownerID, string(kind), cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get items older than cutoff: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan item id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item id rows: %w", err)
	}

	return ids, nil
}

func (r *PostgresItemRepository) DeleteItemsByID(kind feed.SourceKind, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	table, err := itemTable(kind)
	if err != nil {
		return 0, err
	}

	res, err := r.db.Exec(`DELETE FROM `+table+` WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to delete items: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}

	return int(deleted), nil
}

func (r *PostgresItemRepository) GetItemCount(kind feed.SourceKind) (int, error) {
	table, err := itemTable(kind)
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get item count: %w", err)
	}
	return count, nil
}
