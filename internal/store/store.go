// Package store defines the analysis store abstraction for manifest-analyzer.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables mock-based testing without a running database.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// ErrNotFound is returned by Get when no analysis has the requested ID.
var ErrNotFound = errors.New("analysis not found")

// Store persists completed manifest analyses. Put is last-write-wins on
// ManifestID. Implementations must be safe for concurrent use.
type Store interface {
	Put(ctx context.Context, a *domain.ManifestAnalysis) error
	Get(ctx context.Context, id string) (*domain.ManifestAnalysis, error)
	// Delete reports whether an analysis was removed.
	Delete(ctx context.Context, id string) (bool, error)
	// List returns summaries ordered by upload time, newest first, plus the
	// total number of stored analyses.
	List(ctx context.Context, q *ListQuery) ([]domain.ManifestSummary, int, error)
	// DeleteOlderThan removes analyses uploaded before cutoff and returns
	// how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}
