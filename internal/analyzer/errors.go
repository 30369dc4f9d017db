package analyzer

import (
	"errors"
	"fmt"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// ErrNoStore is returned by Save when the Analyzer has no store configured.
var ErrNoStore = errors.New("no analysis store configured")

// StoreError reports that a completed analysis could not be persisted.
// The analysis is kept so the caller can retry Save.
type StoreError struct {
	Analysis *domain.ManifestAnalysis
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("storing analysis %s: %v", e.Analysis.ManifestID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// PartialError reports an analysis stopped by context cancellation.
// Completed items finished enrichment before the run stopped.
type PartialError struct {
	Completed int
	Total     int
	Err       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("analysis stopped after %d of %d items: %v", e.Completed, e.Total, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}
