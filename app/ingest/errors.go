package ingest

import (
	"fmt"
)

type PersistenceErrorKind string

const (
	PersistenceBatchFailed      PersistenceErrorKind = "batch-failed"
	PersistenceItemFailed       PersistenceErrorKind = "item-failed"
	PersistencePermissionDenied PersistenceErrorKind = "permission-denied"
)

// PersistenceError records one batch- or item-level write failure. Failures
// are accumulated, never thrown: a failing batch or item must not abort the
// remaining work of a sync.
type PersistenceError struct {
	Kind        PersistenceErrorKind
	CanonicalID string // empty for batch-level failures
	Err         error
}

func (e *PersistenceError) Error() string {
	if e.CanonicalID != "" {
		return fmt.Sprintf("persistence failure (%s) for item %s: %v", e.Kind, e.CanonicalID, e.Err)
	}
	return fmt.Sprintf("persistence failure (%s): %v", e.Kind, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
