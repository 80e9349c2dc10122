package ingest

import (
	"context"
	"log/slog"

	"github.com/avelichko/feedvault/app/database"
	"github.com/avelichko/feedvault/app/feed"
)

// batchSize bounds one outbound write. Batches run sequentially to keep
// write concurrency bounded and error accumulation deterministic.
const batchSize = 20

// WriteResult aggregates successes and failures across all batches and all
// fallback tiers of one sync.
type WriteResult struct {
	InsertedCount int
	Errors        []*PersistenceError
}

// writeAttempt is one tier of the layered write strategy. The ordered
// attempt list is the single place fallback order is declared.
type writeAttempt struct {
	name string
	run  func(items []database.NewItem) (int, error)
}

// Writer persists new-item sets in bounded batches. Each batch walks the
// attempt list until one tier succeeds; if every whole-batch tier fails, the
// batch degrades to per-item writes that continue past individual failures.
// A failing batch never aborts the batches after it.
type Writer struct {
	itemRepo database.ItemRepository
}

func NewWriter(itemRepo database.ItemRepository) *Writer {
	return &Writer{itemRepo: itemRepo}
}

func (w *Writer) Run(ctx context.Context, kind feed.SourceKind, sourceID string, records []feed.Record) WriteResult {
	var result WriteResult

	for start := 0; start < len(records); start += batchSize {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, &PersistenceError{
				Kind: PersistenceBatchFailed,
				Err:  ctx.Err(),
			})
			return result
		}

		end := min(start+batchSize, len(records))
		batch := toNewItems(records[start:end])

		inserted, errs := w.writeBatch(kind, sourceID, batch)
		result.InsertedCount += inserted
		result.Errors = append(result.Errors, errs...)
	}

	return result
}

func (w *Writer) writeBatch(kind feed.SourceKind, sourceID string, batch []database.NewItem) (int, []*PersistenceError) {
	attempts := w.batchAttempts(kind, sourceID)

	var batchErrs []*PersistenceError
	for _, attempt := range attempts {
		inserted, err := attempt.run(batch)
		if err == nil {
			return inserted, nil
		}
		slog.Warn("Batch write tier failed",
			"tier", attempt.name,
			"source_id", sourceID,
			"batch_size", len(batch),
			"error", err)
		batchErrs = append(batchErrs, &PersistenceError{Kind: PersistenceBatchFailed, Err: err})
	}

	// Whole-batch tiers exhausted: write item by item, continuing past
	// individual failures.
	inserted, itemErrs := w.writePerItem(kind, sourceID, batch)
	return inserted, append(batchErrs, itemErrs...)
}

// batchAttempts declares the fallback order for whole-batch writes: the
// privileged tier first when the capability probe passes, then the standard
// tier.
func (w *Writer) batchAttempts(kind feed.SourceKind, sourceID string) []writeAttempt {
	var attempts []writeAttempt

	if w.itemRepo.HasPrivilegedWrite() {
		attempts = append(attempts, writeAttempt{
			name: "privileged",
			run: func(items []database.NewItem) (int, error) {
				return w.itemRepo.InsertBatchPrivileged(kind, sourceID, items)
			},
		})
	}

	attempts = append(attempts, writeAttempt{
		name: "standard",
		run: func(items []database.NewItem) (int, error) {
			return w.itemRepo.InsertBatch(kind, sourceID, items)
		},
	})

	return attempts
}

func (w *Writer) writePerItem(kind feed.SourceKind, sourceID string, batch []database.NewItem) (int, []*PersistenceError) {
	inserted := 0
	var errs []*PersistenceError

	for _, item := range batch {
		n, err := w.itemRepo.InsertItem(kind, sourceID, item)
		if err != nil {
			errs = append(errs, &PersistenceError{
				Kind:        PersistenceItemFailed,
				CanonicalID: item.CanonicalID,
				Err:         err,
			})
			continue
		}
		inserted += n
	}

	return inserted, errs
}

func toNewItems(records []feed.Record) []database.NewItem {
	items := make([]database.NewItem, 0, len(records))
	for _, record := range records {
		items = append(items, database.NewItem{
			CanonicalID:  record.CanonicalID,
			Title:        record.Title,
			Description:  record.Description,
			Link:         record.Link,
			ThumbnailURL: record.ThumbnailURL,
			PublishedAt:  record.PublishedAt,
		})
	}
	return items
}
