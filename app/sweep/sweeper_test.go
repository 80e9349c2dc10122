package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avelichko/feedvault/app/database"
	"github.com/avelichko/feedvault/app/feed"
)

type stubItemRepo struct {
	olderThan   map[feed.SourceKind][]string
	queryErr    error
	deleteErr   error
	deletedIDs  map[feed.SourceKind][]string
	deleteCalls int
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{
		olderThan:  make(map[feed.SourceKind][]string),
		deletedIDs: make(map[feed.SourceKind][]string),
	}
}

var _ database.ItemRepository = (*stubItemRepo)(nil)

func (r *stubItemRepo) HasPrivilegedWrite() bool { return false }

func (r *stubItemRepo) GetCanonicalIDs(kind feed.SourceKind, sourceID string) (map[string]struct{}, error) {
	return nil, nil
}

func (r *stubItemRepo) InsertBatch(kind feed.SourceKind, sourceID string, items []database.NewItem) (int, error) {
	return 0, nil
}

func (r *stubItemRepo) InsertBatchPrivileged(kind feed.SourceKind, sourceID string, items []database.NewItem) (int, error) {
	return 0, nil
}

func (r *stubItemRepo) InsertItem(kind feed.SourceKind, sourceID string, item database.NewItem) (int, error) {
	return 0, nil
}

func (r *stubItemRepo) GetItemIDsOlderThan(kind feed.SourceKind, ownerID string, cutoff time.Time) ([]string, error) {
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	return r.olderThan[kind], nil
}

func (r *stubItemRepo) DeleteItemsByID(kind feed.SourceKind, ids []string) (int, error) {
	r.deleteCalls++
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	r.deletedIDs[kind] = append(r.deletedIDs[kind], ids...)
	return len(ids), nil
}

func (r *stubItemRepo) GetItemCount(kind feed.SourceKind) (int, error) { return 0, nil }

type stubInteractionRepo struct {
	favorites      map[string]struct{}
	readLater      map[string]struct{}
	orphaned       int
	orphanErr      error
	cascadedIDs    []string
	orphansDeleted bool
}

func newStubInteractionRepo() *stubInteractionRepo {
	return &stubInteractionRepo{
		favorites: make(map[string]struct{}),
		readLater: make(map[string]struct{}),
	}
}

var _ database.InteractionRepository = (*stubInteractionRepo)(nil)

func (r *stubInteractionRepo) GetFavoriteItemIDs(ownerID string) (map[string]struct{}, error) {
	return r.favorites, nil
}

func (r *stubInteractionRepo) GetReadLaterItemIDs(ownerID string) (map[string]struct{}, error) {
	return r.readLater, nil
}

func (r *stubInteractionRepo) DeleteForItems(itemIDs []string) (int, error) {
	r.cascadedIDs = append(r.cascadedIDs, itemIDs...)
	return len(itemIDs), nil
}

func (r *stubInteractionRepo) CountOrphaned(ownerID string) (int, error) {
	if r.orphanErr != nil {
		return 0, r.orphanErr
	}
	return r.orphaned, nil
}

func (r *stubInteractionRepo) DeleteOrphaned(ownerID string) (int, error) {
	if r.orphanErr != nil {
		return 0, r.orphanErr
	}
	r.orphansDeleted = true
	return r.orphaned, nil
}

func (r *stubInteractionRepo) GetInteractionCount() (int, error) { return 0, nil }

func TestSweeper_Run_DeletesStaleItems(t *testing.T) {
	itemRepo := newStubItemRepo()
	itemRepo.olderThan[feed.KindSyndication] = []string{"a", "b", "c"}
	itemRepo.olderThan[feed.KindVideoChannel] = []string{"v1", "v2"}
	interactionRepo := newStubInteractionRepo()
	interactionRepo.orphaned = 4

	sweeper := NewSweeper(itemRepo, interactionRepo)
	result := sweeper.Run(context.Background(), DefaultOptions("owner-1"))

	if !result.Success {
		t.Fatalf("Expected success, got errors: %v", result.Errors)
	}
	if result.Details.SyndicationItems != 3 {
		t.Errorf("Expected 3 syndication items deleted, got: %d", result.Details.SyndicationItems)
	}
	if result.Details.VideoItems != 2 {
		t.Errorf("Expected 2 video items deleted, got: %d", result.Details.VideoItems)
	}
	if result.Details.OrphanedInteractions != 4 {
		t.Errorf("Expected 4 orphaned interactions deleted, got: %d", result.Details.OrphanedInteractions)
	}
	if result.TotalDeleted != 9 {
		t.Errorf("Expected total 9, got: %d", result.TotalDeleted)
	}
}

func TestSweeper_Run_FlaggedItemsRetained(t *testing.T) {
	itemRepo := newStubItemRepo()
	itemRepo.olderThan[feed.KindSyndication] = []string{"a", "b", "c", "d"}
	interactionRepo := newStubInteractionRepo()
	interactionRepo.favorites["b"] = struct{}{}
	interactionRepo.readLater["d"] = struct{}{}

	sweeper := NewSweeper(itemRepo, interactionRepo)
	result := sweeper.Run(context.Background(), DefaultOptions("owner-1"))

	if result.Details.SyndicationItems != 2 {
		t.Errorf("Expected 2 deletions with flagged items retained, got: %d", result.Details.SyndicationItems)
	}
	for _, id := range itemRepo.deletedIDs[feed.KindSyndication] {
		if id == "b" || id == "d" {
			t.Errorf("Flagged item %s should not have been deleted", id)
		}
	}
}

func TestSweeper_Run_ExclusionFlagsDisabled(t *testing.T) {
	itemRepo := newStubItemRepo()
	itemRepo.olderThan[feed.KindSyndication] = []string{"a", "b"}
	interactionRepo := newStubInteractionRepo()
	interactionRepo.favorites["a"] = struct{}{}
	interactionRepo.readLater["b"] = struct{}{}

	opts := DefaultOptions("owner-1")
	opts.KeepFavorites = false
	opts.KeepReadLater = false

	sweeper := NewSweeper(itemRepo, interactionRepo)
	result := sweeper.Run(context.Background(), opts)

	if result.Details.SyndicationItems != 2 {
		t.Errorf("Expected flagged items deleted when retention flags are off, got: %d", result.Details.SyndicationItems)
	}
}

func TestSweeper_Run_DryRunPerformsNoDeletes(t *testing.T) {
	itemRepo := newStubItemRepo()
	itemRepo.olderThan[feed.KindSyndication] = []string{"a", "b", "c"}
	interactionRepo := newStubInteractionRepo()
	interactionRepo.orphaned = 2

	opts := DefaultOptions("owner-1")
	opts.DryRun = true

	sweeper := NewSweeper(itemRepo, interactionRepo)
	result := sweeper.Run(context.Background(), opts)

	if result.TotalDeleted != 5 {
		t.Errorf("Expected dry run to report 5 deletable, got: %d", result.TotalDeleted)
	}
	if !result.DryRun {
		t.Error("Expected result to be marked as dry run")
	}
	if itemRepo.deleteCalls != 0 {
		t.Errorf("Expected no delete calls in dry run, got: %d", itemRepo.deleteCalls)
	}
	if interactionRepo.orphansDeleted {
		t.Error("Expected orphaned interactions untouched in dry run")
	}
}

func TestSweeper_Run_CascadesInteractions(t *testing.T) {
	itemRepo := newStubItemRepo()
	itemRepo.olderThan[feed.KindSyndication] = []string{"a", "b"}
	interactionRepo := newStubInteractionRepo()

	sweeper := NewSweeper(itemRepo, interactionRepo)
	sweeper.Run(context.Background(), DefaultOptions("owner-1"))

	if len(interactionRepo.cascadedIDs) != 2 {
		t.Errorf("Expected interactions cascaded for 2 items, got: %d", len(interactionRepo.cascadedIDs))
	}
}

func TestSweeper_Run_QueryFailureReportedPerCategory(t *testing.T) {
	itemRepo := newStubItemRepo()
	itemRepo.queryErr = errors.New("query timeout")
	interactionRepo := newStubInteractionRepo()
	interactionRepo.orphaned = 1

	sweeper := NewSweeper(itemRepo, interactionRepo)
	result := sweeper.Run(context.Background(), DefaultOptions("owner-1"))

	if result.Success {
		t.Error("Expected failure when item queries fail")
	}
	if len(result.Errors) != 2 {
		t.Errorf("Expected both item categories to report errors, got: %d", len(result.Errors))
	}
	// The orphan sub-sweep is independent and still runs.
	if result.Details.OrphanedInteractions != 1 {
		t.Errorf("Expected orphan sweep to proceed, got: %d", result.Details.OrphanedInteractions)
	}
}

func TestSweeper_Run_OrphanFailureDegradesToZero(t *testing.T) {
	itemRepo := newStubItemRepo()
	interactionRepo := newStubInteractionRepo()
	interactionRepo.orphanErr = errors.New("orphan scan failed")

	sweeper := NewSweeper(itemRepo, interactionRepo)
	result := sweeper.Run(context.Background(), DefaultOptions("owner-1"))

	if !result.Success {
		t.Errorf("Expected orphan failure not to fail the sweep, got errors: %v", result.Errors)
	}
	if result.Details.OrphanedInteractions != 0 {
		t.Errorf("Expected orphan count degraded to zero, got: %d", result.Details.OrphanedInteractions)
	}
}

func TestSweeper_Run_CutoffDerivedFromOptions(t *testing.T) {
	sweeper := NewSweeper(newStubItemRepo(), newStubInteractionRepo())

	opts := DefaultOptions("owner-1")
	opts.OlderThanDays = 7

	result := sweeper.Run(context.Background(), opts)

	expected := time.Now().UTC().AddDate(0, 0, -7)
	if diff := result.CutoffDate.Sub(expected); diff < -time.Minute || diff > time.Minute {
		t.Errorf("Expected cutoff about 7 days back, got: %v", result.CutoffDate)
	}
}
