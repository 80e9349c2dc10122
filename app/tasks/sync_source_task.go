package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avelichko/feedvault/app/ingest"
)

type SyncSourceTask struct {
	Task
	ingestor *ingest.Ingestor
	sourceID string
	ownerID  string
}

func NewSyncSourceTask(ingestor *ingest.Ingestor, sourceID, ownerID string) *SyncSourceTask {
	return &SyncSourceTask{
		Task:     NewTask(TaskTypeSyncSource, sourceID),
		ingestor: ingestor,
		sourceID: sourceID,
		ownerID:  ownerID,
	}
}

func (t *SyncSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.ingestor.Sync(ctx, t.sourceID, t.ownerID)
	if err != nil {
		return fmt.Errorf("failed to sync source %s: %w", t.sourceID, err)
	}

	if len(result.Errors) > 0 {
		slog.Warn("Source sync finished with errors",
			"source_id", t.sourceID,
			"inserted", result.InsertedCount,
			"errors", result.Errors)
	}

	slog.Info("Task completed",
		"type", string(TaskTypeSyncSource),
		"source_id", t.sourceID,
		"duration", t.GetDuration(),
		"fetched", result.TotalFetched,
		"inserted", result.InsertedCount)

	return nil
}
