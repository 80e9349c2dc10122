package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avelichko/feedvault/app/feed"
)

var _ SourceRepository = (*PostgresSourceRepository)(nil)

// PostgresSourceRepository handles database operations for sources
type PostgresSourceRepository struct {
	db *DB
}

func NewSourceRepository(db *DB) *PostgresSourceRepository {
	return &PostgresSourceRepository{db: db}
}

const sourceColumns = `id, owner_id, kind, feed_url, title, deleted_at, last_synced_at, created_at, updated_at`

func (r *PostgresSourceRepository) GetSource(id string) (*Source, error) {
	row := r.db.QueryRow(`
		SELECT `+sourceColumns+`
		FROM sources
		WHERE id = $1
	`, id)

	source, err := scanSource(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	return source, nil
}

func (r *PostgresSourceRepository) GetSourceByURL(ownerID, feedURL string) (*Source, error) {
	row := r.db.QueryRow(`
		SELECT `+sourceColumns+`
		FROM sources
		WHERE owner_id = $1 AND feed_url = $2
	`, ownerID, feedURL)

	source, err := scanSource(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source by URL: %w", err)
	}

	return source, nil
}

func (r *PostgresSourceRepository) ListActiveSources(ownerID string) ([]Source, error) {
	rows, err := r.db.Query(`
		SELECT `+sourceColumns+`
		FROM sources
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	return collectSources(rows)
}

// GetSourcesDueForSync returns active sources never synced or synced longer
// than staleAfter ago, oldest first.
func (r *PostgresSourceRepository) GetSourcesDueForSync(staleAfter time.Duration, limit int) ([]Source, error) {
	cutoff := time.Now().UTC().Add(-staleAfter)

	rows, err := r.db.Query(`
		SELECT `+sourceColumns+`
		FROM sources
		WHERE deleted_at IS NULL
		  AND (last_synced_at IS NULL OR last_synced_at <= $1)
		ORDER BY COALESCE(last_synced_at, '1970-01-01'::timestamptz)
		LIMIT $2
	`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get sources due for sync: %w", err)
	}
	defer rows.Close()

	return collectSources(rows)
}

func (r *PostgresSourceRepository) ListOwnerIDs() ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT owner_id FROM sources WHERE deleted_at IS NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner ids: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan owner id: %w", err)
		}
		owners = append(owners, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating owner rows: %w", err)
	}

	return owners, nil
}

func (r *PostgresSourceRepository) UpsertSource(ownerID string, kind feed.SourceKind, feedURL, title string) (string, error) {
	var id string
	err := r.db.QueryRow(`
		INSERT INTO sources (owner_id, kind, feed_url, title)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, feed_url) DO UPDATE SET
			title = EXCLUDED.title,
			deleted_at = NULL,
			updated_at = NOW()
		RETURNING id
	`, ownerID, string(kind), feedURL, title).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("failed to upsert source: %w", err)
	}

	return id, nil
}

func (r *PostgresSourceRepository) UpdateLastSyncedAt(id string, syncedAt time.Time) error {
	_, err := r.db.Exec(`
		UPDATE sources
		SET last_synced_at = $2, updated_at = NOW()
		WHERE id = $1
	`, id, syncedAt)

	if err != nil {
		return fmt.Errorf("failed to update last synced at: %w", err)
	}

	return nil
}

func (r *PostgresSourceRepository) GetSourceCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sources WHERE deleted_at IS NULL").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSource(row rowScanner) (*Source, error) {
	var source Source
	var kind string
	err := row.Scan(
		&source.ID, &source.OwnerID, &kind, &source.FeedURL, &source.Title,
		&source.DeletedAt, &source.LastSyncedAt, &source.CreatedAt, &source.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	source.Kind = feed.SourceKind(kind)
	return &source, nil
}

func collectSources(rows *sql.Rows) ([]Source, error) {
	var sources []Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, *source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return sources, nil
}
