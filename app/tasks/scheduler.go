package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avelichko/feedvault/app/cfg"
	"github.com/avelichko/feedvault/app/database"
	"github.com/avelichko/feedvault/app/ingest"
	"github.com/avelichko/feedvault/app/sweep"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const syncBatchLimit = 50

type Scheduler struct {
	sourceRepo      database.SourceRepository
	ingestor        *ingest.Ingestor
	sweeper         *sweep.Sweeper
	interval        time.Duration
	cleanupInterval time.Duration
	retentionDays   int
	workerCount     int
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	taskQueue       chan TaskInterface
}

func NewScheduler(sourceRepo database.SourceRepository, ingestor *ingest.Ingestor,
	sweeper *sweep.Sweeper) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		sourceRepo:      sourceRepo,
		ingestor:        ingestor,
		sweeper:         sweeper,
		interval:        time.Duration(cfg.SchedulerInterval) * time.Second,
		cleanupInterval: time.Duration(cfg.CleanupInterval) * time.Second,
		retentionDays:   cfg.RetentionDays,
		workerCount:     cfg.WorkerCount,
		ctx:             ctx,
		cancel:          cancel,
		taskQueue:       make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueSyncTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueSyncTasks()
			}
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueCleanupTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueSyncTasks() {
	sources, err := s.sourceRepo.GetSourcesDueForSync(s.interval, syncBatchLimit)
	if err != nil {
		slog.Warn("Failed to load sources due for sync", "error", err)
		return
	}
	if len(sources) == 0 {
		slog.Debug("No sources due for sync")
		return
	}

	slog.Debug("Scheduling source sync tasks", "count", len(sources))

	for _, source := range sources {
		syncTask := NewSyncSourceTask(s.ingestor, source.ID, source.OwnerID)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncSourceTask", "source_id", source.ID, "error", err)
		}
	}
}

func (s *Scheduler) enqueueCleanupTasks() {
	ownerIDs, err := s.sourceRepo.ListOwnerIDs()
	if err != nil {
		slog.Warn("Failed to load owners for cleanup", "error", err)
		return
	}
	if len(ownerIDs) == 0 {
		slog.Debug("No owners found, skipping cleanup")
		return
	}

	slog.Debug("Scheduling cleanup tasks", "count", len(ownerIDs))

	for _, ownerID := range ownerIDs {
		opts := sweep.DefaultOptions(ownerID)
		opts.OlderThanDays = s.retentionDays

		cleanupTask := NewCleanupTask(s.sweeper, opts)
		if err := s.EnqueueTask(cleanupTask); err != nil {
			slog.Warn("Failed to enqueue CleanupTask", "owner_id", ownerID, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "subject", task.GetSubject(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
