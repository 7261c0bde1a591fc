// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/wordlab/vocaview/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the export history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS export_runs (
			id INTEGER PRIMARY KEY,
			at TEXT NOT NULL,
			source TEXT NOT NULL,
			metric TEXT NOT NULL,
			sort_order TEXT NOT NULL,
			mode TEXT NOT NULL,
			top_n INTEGER NOT NULL,
			range_from INTEGER NOT NULL,
			range_to INTEGER NOT NULL,
			row_count INTEGER NOT NULL,
			output TEXT NOT NULL,
			format TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_export_runs_at ON export_runs(at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores one export run and returns its id.
func (s *Store) InsertRun(ctx context.Context, run model.ExportRun) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO export_runs (at, source, metric, sort_order, mode, top_n, range_from, range_to, row_count, output, format)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.At.Format(time.RFC3339Nano),
		run.Source,
		run.Metric,
		run.Order,
		run.Mode,
		run.TopN,
		run.From,
		run.To,
		run.RowCount,
		run.Output,
		run.Format,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRuns returns the most recent export runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]model.ExportRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at, source, metric, sort_order, mode, top_n, range_from, range_to, row_count, output, format
		 FROM export_runs
		 ORDER BY at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.ExportRun
	for rows.Next() {
		var run model.ExportRun
		var at string
		if err := rows.Scan(&run.ID, &at, &run.Source, &run.Metric, &run.Order, &run.Mode,
			&run.TopN, &run.From, &run.To, &run.RowCount, &run.Output, &run.Format); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, err
		}
		run.At = parsed
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
