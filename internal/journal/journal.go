// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal records pipeline runs in a SQLite database. It is an
// audit trail only; the pipeline never reads it back to decide anything.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/catalog-pipeline/pkg/types"
)

const defaultLimit = 20

// Journal manages the run journal database.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal at path, creating the parent directory
// and schema if needed.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	j := &Journal{db: db}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return j, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			outcome TEXT NOT NULL,
			exit_code INTEGER NOT NULL,
			loader_exit_code INTEGER NOT NULL,
			command TEXT,
			error TEXT,
			fetches TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends rec and returns its assigned ID.
func (j *Journal) Record(ctx context.Context, rec types.RunRecord) (int64, error) {
	fetchesJSON, err := json.Marshal(rec.Fetches)
	if err != nil {
		return 0, fmt.Errorf("encoding fetches: %w", err)
	}
	res, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, finished_at, outcome, exit_code, loader_exit_code, command, error, fetches)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
		string(rec.Outcome), rec.ExitCode, rec.LoaderExitCode,
		rec.Command, rec.Error, string(fetchesJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit runs, newest first. A limit of zero or less
// uses the default (20).
func (j *Journal) Recent(ctx context.Context, limit int) ([]types.RunRecord, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, outcome, exit_code, loader_exit_code,
		        COALESCE(command, ''), COALESCE(error, ''), fetches
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunRecord
	for rows.Next() {
		var (
			rec                 types.RunRecord
			started, finished   string
			outcome, fetchesRaw string
		)
		if err := rows.Scan(&rec.ID, &started, &finished, &outcome, &rec.ExitCode,
			&rec.LoaderExitCode, &rec.Command, &rec.Error, &fetchesRaw); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.Outcome = types.RunOutcome(outcome)
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parsing started_at of run %d: %w", rec.ID, err)
		}
		if rec.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parsing finished_at of run %d: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(fetchesRaw), &rec.Fetches); err != nil {
			return nil, fmt.Errorf("decoding fetches of run %d: %w", rec.ID, err)
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}
