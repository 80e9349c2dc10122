package tasks

import (
	"context"
	"log/slog"

	"github.com/avelichko/feedvault/app/sweep"
)

type CleanupTask struct {
	Task
	sweeper *sweep.Sweeper
	opts    sweep.Options
}

func NewCleanupTask(sweeper *sweep.Sweeper, opts sweep.Options) *CleanupTask {
	return &CleanupTask{
		Task:    NewTask(TaskTypeCleanup, opts.OwnerID),
		sweeper: sweeper,
		opts:    opts,
	}
}

func (t *CleanupTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result := t.sweeper.Run(ctx, t.opts)

	if !result.Success {
		slog.Warn("Retention sweep finished with errors",
			"owner_id", t.opts.OwnerID,
			"deleted", result.TotalDeleted,
			"errors", result.Errors)
	}

	slog.Info("Task completed",
		"type", string(TaskTypeCleanup),
		"owner_id", t.opts.OwnerID,
		"duration", t.GetDuration(),
		"deleted", result.TotalDeleted)

	return nil
}
