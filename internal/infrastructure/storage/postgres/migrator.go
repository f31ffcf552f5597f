package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"invoicer/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded SQL migrations in file name order, each in
// its own transaction, and records them in schema_migrations.
type Migrator struct {
	pool  *Pool
	files fs.FS
}

// NewMigrator creates a migrator over the embedded migrations.
func NewMigrator(pool *Pool) *Migrator {
	return &Migrator{pool: pool, files: migrationFiles}
}

// Run applies every migration not yet recorded. It returns the number applied.
func (m *Migrator) Run(ctx context.Context) (int, error) {
	if _, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return 0, fmt.Errorf("create migrations table: %w", err)
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return 0, fmt.Errorf("read applied migrations: %w", err)
	}

	names, err := PendingMigrations(m.files, applied)
	if err != nil {
		return 0, err
	}

	for _, name := range names {
		content, err := fs.ReadFile(m.files, "migrations/"+name)
		if err != nil {
			return 0, fmt.Errorf("read migration %s: %w", name, err)
		}

		logger.Info(ctx, "applying migration", "file", name)
		err = pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(content)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1)`, name)
			return err
		})
		if err != nil {
			return 0, fmt.Errorf("run migration %s: %w", name, err)
		}
	}

	logger.Info(ctx, "migrations complete", "applied", len(names), "known", len(applied)+len(names))
	return len(names), nil
}

func (m *Migrator) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := m.pool.Query(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out, nil
}

// PendingMigrations lists the .sql files under migrations/ in files that are
// not in applied, sorted by name.
func PendingMigrations(files fs.FS, applied map[string]bool) ([]string, error) {
	entries, err := fs.ReadDir(files, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var pending []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") || applied[e.Name()] {
			continue
		}
		pending = append(pending, e.Name())
	}
	sort.Strings(pending)
	return pending, nil
}
