package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avelichko/feedvault/app/database"
	"github.com/avelichko/feedvault/app/feed"
)

// SyncResult is the structured outcome of one ingestion call. Expected
// failure modes land in Errors; the call itself only fails hard when the
// store is unusable.
type SyncResult struct {
	InsertedCount int      `json:"inserted_count"`
	TotalFetched  int      `json:"total_fetched"`
	DroppedCount  int      `json:"dropped_count"`
	Errors        []string `json:"errors"`
}

// Ingestor drives one source sync end to end: fetch, normalize, diff, write,
// bump the sync marker.
type Ingestor struct {
	sourceRepo database.SourceRepository
	fetcher    *feed.Fetcher
	differ     *Differ
	writer     *Writer
}

func NewIngestor(sourceRepo database.SourceRepository, fetcher *feed.Fetcher, differ *Differ, writer *Writer) *Ingestor {
	return &Ingestor{
		sourceRepo: sourceRepo,
		fetcher:    fetcher,
		differ:     differ,
		writer:     writer,
	}
}

func (i *Ingestor) Sync(ctx context.Context, sourceID, ownerID string) (*SyncResult, error) {
	source, err := i.sourceRepo.GetSource(sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load source: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("source %s not found", sourceID)
	}
	if source.OwnerID != ownerID {
		return nil, fmt.Errorf("source %s does not belong to owner %s", sourceID, ownerID)
	}
	if source.DeletedAt != nil {
		return nil, fmt.Errorf("source %s is deleted", sourceID)
	}

	result := &SyncResult{Errors: []string{}}

	parsed, err := i.fetcher.Fetch(ctx, source.FeedURL, false)
	if err != nil {
		// A fetch failure is recorded for this source's sync, not thrown;
		// in a multi-source run the remaining sources proceed.
		result.Errors = append(result.Errors, err.Error())
		return result, nil
	}

	result.TotalFetched = len(parsed.Items)

	now := time.Now().UTC()
	records := make([]feed.Record, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		record, ok := feed.Normalize(item, source.Kind, now)
		if !ok {
			result.DroppedCount++
			continue
		}
		records = append(records, *record)
	}

	fresh, err := i.differ.Run(source.Kind, source.ID, records)
	if err != nil {
		return nil, err
	}

	writeResult := i.writer.Run(ctx, source.Kind, source.ID, fresh)
	result.InsertedCount = writeResult.InsertedCount
	for _, werr := range writeResult.Errors {
		result.Errors = append(result.Errors, werr.Error())
	}

	if err := i.sourceRepo.UpdateLastSyncedAt(source.ID, now); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to update sync marker: %v", err))
	}

	slog.Info("Source sync completed",
		"source_id", source.ID,
		"kind", string(source.Kind),
		"fetched", result.TotalFetched,
		"dropped", result.DroppedCount,
		"new", len(fresh),
		"inserted", result.InsertedCount,
		"errors", len(result.Errors))

	return result, nil
}
