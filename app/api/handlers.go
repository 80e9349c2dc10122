package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/avelichko/feedvault/app/database"
	"github.com/avelichko/feedvault/app/feed"
	"github.com/avelichko/feedvault/app/ingest"
	"github.com/avelichko/feedvault/app/sweep"
	"github.com/avelichko/feedvault/app/tasks"
	"github.com/gin-gonic/gin"
)

func NewHandler(sourceRepo database.SourceRepository, itemRepo database.ItemRepository,
	interactionRepo database.InteractionRepository, ingestor *ingest.Ingestor,
	sweeper *sweep.Sweeper, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		sourceRepo:      sourceRepo,
		itemRepo:        itemRepo,
		interactionRepo: interactionRepo,
		ingestor:        ingestor,
		sweeper:         sweeper,
		scheduler:       scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if sourceCount, err := h.sourceRepo.GetSourceCount(); err == nil {
		health["sources"] = sourceCount
	}

	health["privileged_write"] = h.itemRepo.HasPrivilegedWrite()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if sourceCount, err := h.sourceRepo.GetSourceCount(); err == nil {
		stats["sources"] = sourceCount
	}

	items := map[string]interface{}{}
	if count, err := h.itemRepo.GetItemCount(feed.KindSyndication); err == nil {
		items["syndication"] = count
	}
	if count, err := h.itemRepo.GetItemCount(feed.KindVideoChannel); err == nil {
		items["video"] = count
	}
	stats["items"] = items

	if interactionCount, err := h.interactionRepo.GetInteractionCount(); err == nil {
		stats["interactions"] = interactionCount
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListSources(c *gin.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing owner_id query parameter"})
		return
	}

	sources, err := h.sourceRepo.ListActiveSources(ownerID)
	if err != nil {
		slog.Error("Database error", "operation", "list_sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	result := make([]map[string]interface{}, 0, len(sources))
	for _, source := range sources {
		result = append(result, map[string]interface{}{
			"id":             source.ID,
			"owner_id":       source.OwnerID,
			"kind":           string(source.Kind),
			"feed_url":       source.FeedURL,
			"title":          source.Title,
			"last_synced_at": source.LastSyncedAt,
			"created_at":     source.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": result,
		"total":   len(result),
	})
}

func (h *Handler) APISyncSource(c *gin.Context) {
	sourceID := c.Param("id")
	if sourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source id parameter"})
		return
	}

	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	source, err := h.sourceRepo.GetSource(sourceID)
	if err != nil {
		slog.Error("Database error", "operation", "get_source", "source_id", sourceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if source == nil || source.OwnerID != req.OwnerID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}

	syncTask := tasks.NewSyncSourceTask(h.ingestor, source.ID, source.OwnerID)
	if err := h.scheduler.EnqueueTask(syncTask); err != nil {
		slog.Error("Error enqueueing sync task", "source_id", sourceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue sync task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sync task enqueued successfully",
		"source": gin.H{
			"id":       source.ID,
			"title":    source.Title,
			"feed_url": source.FeedURL,
		},
		"task": gin.H{
			"id":   syncTask.ID,
			"type": syncTask.Type,
		},
	})
}

func (h *Handler) APICleanup(c *gin.Context) {
	var req CleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	opts := sweep.DefaultOptions(req.OwnerID)
	if req.OlderThanDays != nil {
		opts.OlderThanDays = *req.OlderThanDays
	}
	if req.KeepFavorites != nil {
		opts.KeepFavorites = *req.KeepFavorites
	}
	if req.KeepReadLater != nil {
		opts.KeepReadLater = *req.KeepReadLater
	}
	opts.DryRun = req.DryRun

	if opts.OlderThanDays <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "older_than_days must be positive"})
		return
	}

	if req.DryRun {
		result := h.sweeper.Run(c.Request.Context(), opts)
		c.JSON(http.StatusOK, result)
		return
	}

	cleanupTask := tasks.NewCleanupTask(h.sweeper, opts)
	if err := h.scheduler.EnqueueTask(cleanupTask); err != nil {
		slog.Error("Error enqueueing cleanup task", "owner_id", req.OwnerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue cleanup task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cleanup task enqueued successfully",
		"task": gin.H{
			"id":   cleanupTask.ID,
			"type": cleanupTask.Type,
		},
	})
}
