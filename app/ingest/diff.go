package ingest

import (
	"fmt"

	"github.com/avelichko/feedvault/app/database"
	"github.com/avelichko/feedvault/app/feed"
)

// Differ computes the new-item subset of a sync against the canonical ids
// already persisted for the source. The persisted set is fetched once per
// sync regardless of item count; the difference itself is pure and performs
// no writes.
type Differ struct {
	itemRepo database.ItemRepository
}

func NewDiffer(itemRepo database.ItemRepository) *Differ {
	return &Differ{itemRepo: itemRepo}
}

func (d *Differ) Run(kind feed.SourceKind, sourceID string, records []feed.Record) ([]feed.Record, error) {
	existing, err := d.itemRepo.GetCanonicalIDs(kind, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted canonical ids: %w", err)
	}

	fresh := make([]feed.Record, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		if _, ok := existing[record.CanonicalID]; ok {
			continue
		}
		// A document can repeat an entry; keep the first occurrence only.
		if _, ok := seen[record.CanonicalID]; ok {
			continue
		}
		seen[record.CanonicalID] = struct{}{}
		fresh = append(fresh, record)
	}

	return fresh, nil
}
