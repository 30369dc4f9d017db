package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
// Each analysis is one row: summary columns for listing plus the full
// document as JSONB.
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
// Pool size comes from pool_max_conns in connString.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// Put inserts or replaces an analysis by manifest ID.
func (s *PostgresStore) Put(ctx context.Context, a *domain.ManifestAnalysis) error {
	if a == nil || a.ManifestID == "" {
		return fmt.Errorf("putting analysis: manifest id is required")
	}

	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}

	args := pgx.NamedArgs{
		"id":                 a.ManifestID,
		"file_name":          a.FileName,
		"uploaded_at":        a.UploadTimestamp,
		"total_items":        a.TotalItems,
		"valid_items":        a.ValidItems,
		"total_retail_value": a.TotalRetailValue,
		"average_roi":        a.ExecutiveSummary.AverageROI,
		"recommended_action": string(a.ExecutiveSummary.RecommendedAction),
		"document":           string(doc),
	}

	if _, err := s.pool.Exec(ctx, queryPutAnalysis, args); err != nil {
		return fmt.Errorf("upserting analysis: %w", err)
	}
	return nil
}

// Get retrieves an analysis by manifest ID.
func (s *PostgresStore) Get(ctx context.Context, id string) (*domain.ManifestAnalysis, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, queryGetAnalysis, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting analysis: %w", err)
	}
	return decode(doc)
}

// Delete removes an analysis by manifest ID.
func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, queryDeleteAnalysis, id)
	if err != nil {
		return false, fmt.Errorf("deleting analysis: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns a page of summaries, newest first, and the total count.
func (s *PostgresStore) List(ctx context.Context, q *ListQuery) ([]domain.ManifestSummary, int, error) {
	nq := q.Normalized()

	var total int
	if err := s.pool.QueryRow(ctx, queryCountAnalyses).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting analyses: %w", err)
	}

	rows, err := s.pool.Query(ctx, queryListAnalyses, nq.Limit, nq.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	out := []domain.ManifestSummary{}
	for rows.Next() {
		var (
			sm     domain.ManifestSummary
			action string
		)
		if err := rows.Scan(
			&sm.ManifestID, &sm.FileName, &sm.UploadTimestamp, &sm.TotalItems, &sm.ValidItems,
			&sm.TotalRetailValue, &sm.AverageROI, &action,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning analysis: %w", err)
		}
		sm.RecommendedAction = domain.RecommendedAction(action)
		out = append(out, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating analyses: %w", err)
	}

	return out, total, nil
}

// DeleteOlderThan removes analyses uploaded before cutoff.
func (s *PostgresStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, queryDeleteAnalysesBefore, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting old analyses: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

var _ Store = (*PostgresStore)(nil)
