package api

import (
	"github.com/avelichko/feedvault/app/database"
	"github.com/avelichko/feedvault/app/ingest"
	"github.com/avelichko/feedvault/app/sweep"
	"github.com/avelichko/feedvault/app/tasks"
)

type Handler struct {
	sourceRepo      database.SourceRepository
	itemRepo        database.ItemRepository
	interactionRepo database.InteractionRepository
	ingestor        *ingest.Ingestor
	sweeper         *sweep.Sweeper
	scheduler       tasks.TaskSchedulerInterface
}

type SyncRequest struct {
	OwnerID string `json:"owner_id" binding:"required"`
}

type CleanupRequest struct {
	OwnerID       string `json:"owner_id" binding:"required"`
	OlderThanDays *int   `json:"older_than_days"`
	KeepFavorites *bool  `json:"keep_favorites"`
	KeepReadLater *bool  `json:"keep_read_later"`
	DryRun        bool   `json:"dry_run"`
}
