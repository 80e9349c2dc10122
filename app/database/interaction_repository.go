package database

import (
	"fmt"

	"github.com/lib/pq"
)

var _ InteractionRepository = (*PostgresInteractionRepository)(nil)

// PostgresInteractionRepository handles database operations for per-owner
// item interactions (read/favorite/read-later flags)
type PostgresInteractionRepository struct {
	db *DB
}

func NewInteractionRepository(db *DB) *PostgresInteractionRepository {
	return &PostgresInteractionRepository{db: db}
}

func (r *PostgresInteractionRepository) GetFavoriteItemIDs(ownerID string) (map[string]struct{}, error) {
	return r.flaggedItemIDs(ownerID, "favorite")
}

func (r *PostgresInteractionRepository) GetReadLaterItemIDs(ownerID string) (map[string]struct{}, error) {
	return r.flaggedItemIDs(ownerID, "read_later")
}

func (r *PostgresInteractionRepository) flaggedItemIDs(ownerID, flag string) (map[string]struct{}, error) {
	// flag is one of our own column names, never caller input
	rows, err := r.db.Query(`SELECT item_id FROM interactions WHERE owner_id = $1 AND `+flag+` = TRUE`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s item ids: %w", flag, err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan item id: %w", err)
		}
		ids[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interaction rows: %w", err)
	}

	return ids, nil
}

// DeleteForItems removes interactions referencing the given items. Used to
// cascade interaction cleanup alongside item deletion.
func (r *PostgresInteractionRepository) DeleteForItems(itemIDs []string) (int, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}

	res, err := r.db.Exec(`DELETE FROM interactions WHERE item_id = ANY($1)`, pq.Array(itemIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to delete interactions for items: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}

	return int(deleted), nil
}

const orphanedCondition = `
	owner_id = $1
	AND ((item_kind = 'syndication' AND NOT EXISTS (SELECT 1 FROM syndication_items si WHERE si.id = interactions.item_id))
	  OR (item_kind = 'video-channel' AND NOT EXISTS (SELECT 1 FROM video_items vi WHERE vi.id = interactions.item_id)))`

func (r *PostgresInteractionRepository) CountOrphaned(ownerID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM interactions WHERE `+orphanedCondition, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orphaned interactions: %w", err)
	}
	return count, nil
}

func (r *PostgresInteractionRepository) DeleteOrphaned(ownerID string) (int, error) {
	res, err := r.db.Exec(`DELETE FROM interactions WHERE `+orphanedCondition, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphaned interactions: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}

	return int(deleted), nil
}

func (r *PostgresInteractionRepository) GetInteractionCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM interactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get interaction count: %w", err)
	}
	return count, nil
}
