// Package journal persists check results to a SQLite database so past scan
// outcomes can be audited with "xtag history".
package journal

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/user/xtag/internal/check"
)

// Journal is an append-only log of scan results grouped into runs.
type Journal struct {
	db    *sql.DB
	runID int64
}

// Open opens (creating if necessary) the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	j := &Journal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			algorithm TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			path TEXT NOT NULL,
			state TEXT NOT NULL,
			stored_digest TEXT,
			actual_digest TEXT,
			mtime TEXT,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_path ON results(path)`,
		`CREATE INDEX IF NOT EXISTS idx_results_state ON results(state)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id)`,
	}
	for _, stmt := range stmts {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize journal schema: %w", err)
		}
	}
	return nil
}

// BeginRun opens a new run for the given algorithm. Results recorded after
// this call belong to the run.
func (j *Journal) BeginRun(algorithm string) error {
	res, err := j.db.Exec(
		`INSERT INTO runs (started_at, algorithm) VALUES (?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano), algorithm,
	)
	if err != nil {
		return fmt.Errorf("failed to begin journal run: %w", err)
	}
	j.runID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get run id: %w", err)
	}
	return nil
}

// Record appends one check result to the current run.
func (j *Journal) Record(res check.Result) error {
	if j.runID == 0 {
		return fmt.Errorf("journal run not started")
	}

	var stored, actual interface{}
	if res.Stored.Valid {
		stored = res.Stored.Digest
	}
	if res.Actual.Valid {
		actual = res.Actual.Digest
	}
	mtime := fmt.Sprintf("%d.%09d", res.Actual.Sec, res.Actual.Nsec)

	_, err := j.db.Exec(
		`INSERT INTO results (run_id, path, state, stored_digest, actual_digest, mtime, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.runID, res.Path, res.State.String(), stored, actual, mtime,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Entry is one recorded check result.
type Entry struct {
	RunID        int64  `json:"run_id"`
	Path         string `json:"path"`
	State        string `json:"state"`
	StoredDigest string `json:"stored_digest,omitempty"`
	ActualDigest string `json:"actual_digest,omitempty"`
	MTime        string `json:"mtime"`
	RecordedAt   string `json:"recorded_at"`
}

// ListOptions filter the entries returned by List.
type ListOptions struct {
	// Path, when non-empty, restricts entries to an exact path match.
	Path string
	// State, when non-empty, restricts entries to one state name.
	State string
	// Limit caps the number of entries returned; 0 means a default of 20.
	Limit int
}

// List returns the most recent entries first.
func (j *Journal) List(opts ListOptions) ([]Entry, error) {
	var conds []string
	var args []interface{}
	if opts.Path != "" {
		conds = append(conds, "path = ?")
		args = append(args, opts.Path)
	}
	if opts.State != "" {
		conds = append(conds, "state = ?")
		args = append(args, opts.State)
	}

	query := `SELECT run_id, path, state,
		COALESCE(stored_digest, ''), COALESCE(actual_digest, ''), COALESCE(mtime, ''), recorded_at
		FROM results`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ?"

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.RunID, &e.Path, &e.State, &e.StoredDigest, &e.ActualDigest, &e.MTime, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
