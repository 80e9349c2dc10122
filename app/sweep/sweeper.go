package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avelichko/feedvault/app/database"
	"github.com/avelichko/feedvault/app/feed"
)

// Options control one retention sweep for a single owner.
type Options struct {
	OwnerID       string
	OlderThanDays int
	KeepFavorites bool
	KeepReadLater bool
	DryRun        bool
}

// DefaultOptions returns sweep options with the standard retention policy.
func DefaultOptions(ownerID string) Options {
	return Options{
		OwnerID:       ownerID,
		OlderThanDays: 30,
		KeepFavorites: true,
		KeepReadLater: true,
	}
}

// Details carries the per-category counts of one sweep.
type Details struct {
	SyndicationItems     int `json:"syndication_items"`
	VideoItems           int `json:"video_items"`
	OrphanedInteractions int `json:"orphaned_interactions"`
}

// Result is the aggregated outcome of the three sub-sweeps. The sweep as a
// whole never fails solely because one sub-sweep failed.
type Result struct {
	Success      bool      `json:"success"`
	TotalDeleted int       `json:"total_deleted"`
	Details      Details   `json:"details"`
	CutoffDate   time.Time `json:"cutoff_date"`
	DryRun       bool      `json:"dry_run"`
	Errors       []string  `json:"errors"`
}

// SweepError is a failure scoped to one sub-sweep category.
type SweepError struct {
	Category string
	Kind     string // query-failed or delete-failed
	Err      error
}

func (e *SweepError) Error() string {
	return fmt.Sprintf("sweep failure (%s/%s): %v", e.Category, e.Kind, e.Err)
}

func (e *SweepError) Unwrap() error {
	return e.Err
}

// Sweeper retires an owner's stale items under the retention policy and
// cleans up interactions whose item is already gone.
type Sweeper struct {
	itemRepo        database.ItemRepository
	interactionRepo database.InteractionRepository
}

func NewSweeper(itemRepo database.ItemRepository, interactionRepo database.InteractionRepository) *Sweeper {
	return &Sweeper{
		itemRepo:        itemRepo,
		interactionRepo: interactionRepo,
	}
}

// Run executes the three sub-sweeps concurrently. They touch disjoint record
// sets; each captures its own outcome so one failure cannot cancel the
// others.
func (s *Sweeper) Run(ctx context.Context, opts Options) *Result {
	cutoff := time.Now().UTC().AddDate(0, 0, -opts.OlderThanDays)

	var (
		wg                 sync.WaitGroup
		synCount, vidCount int
		synErr, vidErr     *SweepError
		orphanCount        int
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		synCount, synErr = s.sweepItems(feed.KindSyndication, opts, cutoff)
	}()

	go func() {
		defer wg.Done()
		vidCount, vidErr = s.sweepItems(feed.KindVideoChannel, opts, cutoff)
	}()

	go func() {
		defer wg.Done()
		orphanCount = s.sweepOrphans(opts)
	}()

	wg.Wait()

	result := &Result{
		Details: Details{
			SyndicationItems:     synCount,
			VideoItems:           vidCount,
			OrphanedInteractions: orphanCount,
		},
		TotalDeleted: synCount + vidCount + orphanCount,
		CutoffDate:   cutoff,
		DryRun:       opts.DryRun,
		Errors:       []string{},
	}

	for _, serr := range []*SweepError{synErr, vidErr} {
		if serr != nil {
			result.Errors = append(result.Errors, serr.Error())
		}
	}
	result.Success = len(result.Errors) == 0

	slog.Info("Retention sweep completed",
		"owner_id", opts.OwnerID,
		"cutoff", cutoff.Format(time.RFC3339),
		"dry_run", opts.DryRun,
		"syndication", synCount,
		"video", vidCount,
		"orphaned", orphanCount,
		"errors", len(result.Errors))

	return result
}

// sweepItems deletes one kind's items published before the cutoff, minus the
// exclusion sets requested by the retention flags. Exclusion sets are
// pre-fetched once, not queried per item.
func (s *Sweeper) sweepItems(kind feed.SourceKind, opts Options, cutoff time.Time) (int, *SweepError) {
	category := string(kind)

	candidates, err := s.itemRepo.GetItemIDsOlderThan(kind, opts.OwnerID, cutoff)
	if err != nil {
		return 0, &SweepError{Category: category, Kind: "query-failed", Err: err}
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	excluded := make(map[string]struct{})
	if opts.KeepFavorites {
		favorites, err := s.interactionRepo.GetFavoriteItemIDs(opts.OwnerID)
		if err != nil {
			return 0, &SweepError{Category: category, Kind: "query-failed", Err: err}
		}
		for id := range favorites {
			excluded[id] = struct{}{}
		}
	}
	if opts.KeepReadLater {
		readLater, err := s.interactionRepo.GetReadLaterItemIDs(opts.OwnerID)
		if err != nil {
			return 0, &SweepError{Category: category, Kind: "query-failed", Err: err}
		}
		for id := range readLater {
			excluded[id] = struct{}{}
		}
	}

	deletable := candidates[:0:0]
	for _, id := range candidates {
		if _, ok := excluded[id]; !ok {
			deletable = append(deletable, id)
		}
	}

	if opts.DryRun {
		return len(deletable), nil
	}

	deleted, err := s.itemRepo.DeleteItemsByID(kind, deletable)
	if err != nil {
		return 0, &SweepError{Category: category, Kind: "delete-failed", Err: err}
	}

	// Interactions cascade with their items.
	if _, err := s.interactionRepo.DeleteForItems(deletable); err != nil {
		return deleted, &SweepError{Category: category, Kind: "delete-failed", Err: err}
	}

	return deleted, nil
}

// sweepOrphans removes interactions whose item no longer exists. Independent
// of the age cutoff, and degrades to a reported zero on failure rather than
// failing the sweep.
func (s *Sweeper) sweepOrphans(opts Options) int {
	if opts.DryRun {
		count, err := s.interactionRepo.CountOrphaned(opts.OwnerID)
		if err != nil {
			slog.Warn("Orphaned interaction count failed", "owner_id", opts.OwnerID, "error", err)
			return 0
		}
		return count
	}

	deleted, err := s.interactionRepo.DeleteOrphaned(opts.OwnerID)
	if err != nil {
		slog.Warn("Orphaned interaction cleanup failed", "owner_id", opts.OwnerID, "error", err)
		return 0
	}
	return deleted
}
