// Package history persists batch resolution runs to SQLite so failure
// trends survive across invocations.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"declref/internal/logging"
	"declref/internal/report"
)

// Store wraps the run-history database.
type Store struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// RunSummary is one recorded batch run.
type RunSummary struct {
	RunID       string    `json:"runId"`
	Package     string    `json:"package"`
	GeneratedAt time.Time `json:"generatedAt"`
	Total       int       `json:"total"`
	Resolved    int       `json:"resolved"`
	Failed      int       `json:"failed"`
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	package      TEXT NOT NULL,
	generated_at TEXT NOT NULL,
	total        INTEGER NOT NULL,
	resolved     INTEGER NOT NULL,
	failed       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id         TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	position       INTEGER NOT NULL,
	reference      TEXT NOT NULL,
	status         TEXT NOT NULL,
	path           TEXT,
	kind           TEXT,
	failure_code   TEXT,
	failure_reason TEXT
);

CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
CREATE INDEX IF NOT EXISTS idx_results_code ON results(failure_code);
`

// Open opens or creates the history database at .declref/history.db
func Open(projectRoot string, logger *logging.Logger) (*Store, error) {
	dir := filepath.Join(projectRoot, ".declref")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .declref directory: %w", err)
	}

	dbPath := filepath.Join(dir, "history.db")
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{conn: conn, logger: logger, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// RecordRun persists a report and all its per-reference results in one
// transaction.
func (s *Store) RecordRun(rep *report.Report) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, package, generated_at, total, resolved, failed)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rep.RunID, rep.Package, rep.GeneratedAt.UTC().Format(time.RFC3339), rep.Total, rep.Resolved, rep.Failed)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO results (run_id, position, reference, status, path, kind, failure_code, failure_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, result := range rep.Results {
		var code, reason string
		if result.Failure != nil {
			code = string(result.Failure.Code)
			reason = result.Failure.Reason
		}
		if _, err := stmt.Exec(rep.RunID, i, result.Reference, string(result.Status),
			result.Path, string(result.Kind), code, reason); err != nil {
			return fmt.Errorf("failed to record result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Debug("Recorded resolution run", map[string]interface{}{
		"runId":   rep.RunID,
		"results": len(rep.Results),
	})
	return nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.conn.Query(`
		SELECT run_id, package, generated_at, total, resolved, failed
		FROM runs
		ORDER BY generated_at DESC, run_id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		var generatedAt string
		if err := rows.Scan(&run.RunID, &run.Package, &generatedAt,
			&run.Total, &run.Resolved, &run.Failed); err != nil {
			return nil, err
		}
		run.GeneratedAt, _ = time.Parse(time.RFC3339, generatedAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FailureCounts aggregates failure codes across every recorded run.
func (s *Store) FailureCounts() (map[string]int, error) {
	rows, err := s.conn.Query(`
		SELECT failure_code, COUNT(*)
		FROM results
		WHERE failure_code != ''
		GROUP BY failure_code
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var code string
		var count int
		if err := rows.Scan(&code, &count); err != nil {
			return nil, err
		}
		counts[code] = count
	}
	return counts, rows.Err()
}
