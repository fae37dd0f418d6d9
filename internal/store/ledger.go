// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const ledgerFile = "runs.db"

// RunStatus is the terminal state of one pipeline run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// RunRecord is one row of the run ledger.
type RunRecord struct {
	ID        string
	Slug      string
	Keyword   string
	Status    RunStatus
	Stage     string
	Score     int
	Error     string
	StartedAt time.Time
	EndedAt   time.Time
}

// Ledger records pipeline runs in a SQLite database so batch history and
// per-subject outcomes survive across invocations.
type Ledger struct {
	db *sql.DB
}

// OpenLedger opens or creates the run ledger at dir/runs.db, creating the
// schema if it does not exist.
func OpenLedger(dir string) (*Ledger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dir, ledgerFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			slug TEXT NOT NULL,
			keyword TEXT NOT NULL,
			status TEXT NOT NULL,
			stage TEXT,
			score INTEGER,
			error TEXT,
			started_at TEXT NOT NULL,
			ended_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_slug ON runs(slug)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Begin inserts a running record for a new pipeline run and returns its ID.
func (l *Ledger) Begin(slug, keyword string) (string, error) {
	id := uuid.NewString()
	_, err := l.db.Exec(
		`INSERT INTO runs (id, slug, keyword, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, slug, keyword, string(RunRunning), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("recording run start: %w", err)
	}
	return id, nil
}

// Finish marks a run as succeeded or failed. stage names the failing stage
// on failure; score is the final quality score when one was produced.
func (l *Ledger) Finish(id string, status RunStatus, stage string, score int, errMsg string) error {
	_, err := l.db.Exec(
		`UPDATE runs SET status = ?, stage = ?, score = ?, error = ?, ended_at = ? WHERE id = ?`,
		string(status), stage, score, errMsg, time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("recording run end: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first, up to limit. A limit of 0
// returns 20.
func (l *Ledger) Runs(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.Query(
		`SELECT id, slug, keyword, status, COALESCE(stage, ''), COALESCE(score, 0),
		        COALESCE(error, ''), started_at, COALESCE(ended_at, '')
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var status, started, ended string
		if err := rows.Scan(&r.ID, &r.Slug, &r.Keyword, &status, &r.Stage, &r.Score, &r.Error, &started, &ended); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		r.Status = RunStatus(status)
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		if ended != "" {
			r.EndedAt, _ = time.Parse(time.RFC3339, ended)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunsFor returns the runs recorded for one subject, newest first.
func (l *Ledger) RunsFor(slug string) ([]RunRecord, error) {
	rows, err := l.db.Query(
		`SELECT id, slug, keyword, status, COALESCE(stage, ''), COALESCE(score, 0),
		        COALESCE(error, ''), started_at, COALESCE(ended_at, '')
		 FROM runs WHERE slug = ? ORDER BY started_at DESC`, slug)
	if err != nil {
		return nil, fmt.Errorf("querying runs for %s: %w", slug, err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var status, started, ended string
		if err := rows.Scan(&r.ID, &r.Slug, &r.Keyword, &status, &r.Stage, &r.Score, &r.Error, &started, &ended); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		r.Status = RunStatus(status)
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		if ended != "" {
			r.EndedAt, _ = time.Parse(time.RFC3339, ended)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
