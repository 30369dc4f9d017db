package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// migrationTarget abstracts the two SQL dialects the runner applies to.
type migrationTarget interface {
	exec(ctx context.Context, query string) error
	applied(ctx context.Context, version string) (bool, error)
	record(ctx context.Context, version string) error
}

// RunMigrations applies pending PostgreSQL migrations in order.
// Migrations are tracked in a schema_migrations table.
// There are no down migrations; fix forward only.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	return runMigrations(ctx, pgTarget{pool: pool}, "migrations/postgres",
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
}

// RunSQLiteMigrations applies pending SQLite migrations in order.
func RunSQLiteMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, sqlTarget{db: db}, "migrations/sqlite",
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
}

func runMigrations(ctx context.Context, t migrationTarget, dir, bootstrap string) error {
	if err := t.exec(ctx, bootstrap); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Lexicographic order gives us version order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version := entry.Name()

		done, err := t.applied(ctx, version)
		if err != nil {
			return fmt.Errorf("checking migration %s: %w", version, err)
		}
		if done {
			continue
		}

		body, err := migrationsFS.ReadFile(dir + "/" + version)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", version, err)
		}

		if err := t.exec(ctx, string(body)); err != nil {
			return fmt.Errorf("applying migration %s: %w", version, err)
		}

		if err := t.record(ctx, version); err != nil {
			return fmt.Errorf("recording migration %s: %w", version, err)
		}
	}

	return nil
}

type pgTarget struct {
	pool *pgxpool.Pool
}

func (p pgTarget) exec(ctx context.Context, query string) error {
	_, err := p.pool.Exec(ctx, query)
	return err
}

func (p pgTarget) applied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
		version,
	).Scan(&exists)
	return exists, err
}

func (p pgTarget) record(ctx context.Context, version string) error {
	_, err := p.pool.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version)
	return err
}

type sqlTarget struct {
	db *sql.DB
}

func (s sqlTarget) exec(ctx context.Context, query string) error {
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s sqlTarget) applied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)",
		version,
	).Scan(&exists)
	return exists, err
}

func (s sqlTarget) record(ctx context.Context, version string) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version)
	return err
}
