package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// SQLiteStore implements Store on an embedded SQLite file. Writes are
// serialized through a single connection.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// applies migrations.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	if err := RunSQLiteMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Put inserts or replaces an analysis by manifest ID.
func (s *SQLiteStore) Put(ctx context.Context, a *domain.ManifestAnalysis) error {
	if a == nil || a.ManifestID == "" {
		return fmt.Errorf("putting analysis: manifest id is required")
	}

	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}

	_, err = s.db.ExecContext(ctx, sqlitePutAnalysis,
		a.ManifestID, a.FileName, a.UploadTimestamp.UnixNano(), a.TotalItems, a.ValidItems,
		a.TotalRetailValue, a.ExecutiveSummary.AverageROI,
		string(a.ExecutiveSummary.RecommendedAction), string(doc),
	)
	if err != nil {
		return fmt.Errorf("upserting analysis: %w", err)
	}
	return nil
}

// Get retrieves an analysis by manifest ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.ManifestAnalysis, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, sqliteGetAnalysis, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting analysis: %w", err)
	}
	return decode([]byte(doc))
}

// Delete removes an analysis by manifest ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, sqliteDeleteAnalysis, id)
	if err != nil {
		return false, fmt.Errorf("deleting analysis: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting analysis: %w", err)
	}
	return n > 0, nil
}

// List returns a page of summaries, newest first, and the total count.
func (s *SQLiteStore) List(ctx context.Context, q *ListQuery) ([]domain.ManifestSummary, int, error) {
	nq := q.Normalized()

	var total int
	if err := s.db.QueryRowContext(ctx, sqliteCountAnalyses).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting analyses: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqliteListAnalyses, nq.Limit, nq.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	out := []domain.ManifestSummary{}
	for rows.Next() {
		var (
			sm       domain.ManifestSummary
			uploaded int64
			action   string
		)
		if err := rows.Scan(
			&sm.ManifestID, &sm.FileName, &uploaded, &sm.TotalItems, &sm.ValidItems,
			&sm.TotalRetailValue, &sm.AverageROI, &action,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning analysis: %w", err)
		}
		sm.UploadTimestamp = time.Unix(0, uploaded).UTC()
		sm.RecommendedAction = domain.RecommendedAction(action)
		out = append(out, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating analyses: %w", err)
	}

	return out, total, nil
}

// DeleteOlderThan removes analyses uploaded before cutoff.
func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, sqliteDeleteAnalysesBefore, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("deleting old analyses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting old analyses: %w", err)
	}
	return int(n), nil
}

var _ Store = (*SQLiteStore)(nil)
