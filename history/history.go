// Package history persists acquisition reports to a local SQLite database
// so past runs can be listed and inspected. The store satisfies
// acquire.Recorder: write failures are logged, never propagated.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kudosx/claude-skill-browser-use/acquire"
)

const schema = `
CREATE TABLE IF NOT EXISTS acquisitions (
	id            TEXT PRIMARY KEY,
	capability    TEXT NOT NULL,
	query         TEXT NOT NULL,
	requested     INTEGER NOT NULL,
	accepted      INTEGER NOT NULL,
	materialized  INTEGER NOT NULL,
	tiers_used    TEXT NOT NULL,
	tier_errors   TEXT,
	outcomes      TEXT,
	elapsed_ms    INTEGER NOT NULL,
	created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_acquisitions_created
	ON acquisitions(created_at DESC);
`

// Store is a SQLite-backed report log.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the history database at path, applying WAL and
// busy-timeout pragmas and ensuring the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("history: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// NewWithDB wraps an existing database, ensuring the schema. Used by tests
// with an in-memory connection.
func NewWithDB(db *sql.DB, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("history: schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts a finished report. Errors are logged and swallowed so a
// failing history store never blocks an acquisition.
func (s *Store) Record(ctx context.Context, report *acquire.Report) {
	tiersJSON, _ := json.Marshal(report.TiersUsed)
	errsJSON, _ := json.Marshal(report.TierErrors)
	outcomesJSON, _ := json.Marshal(report.Outcomes)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO acquisitions (
			id, capability, query, requested, accepted, materialized,
			tiers_used, tier_errors, outcomes, elapsed_ms, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		report.ID, report.Capability, report.Query,
		report.Requested, report.Accepted, report.Materialized,
		string(tiersJSON), string(errsJSON), string(outcomesJSON),
		report.Elapsed.Milliseconds(), report.CreatedAt.Unix())
	if err != nil {
		s.logger.Error("history: record failed", "id", report.ID, "error", err)
	}
}

// Entry is one row returned by Recent.
type Entry struct {
	ID           string    `json:"id"`
	Capability   string    `json:"capability"`
	Query        string    `json:"query"`
	Requested    int       `json:"requested"`
	Accepted     int       `json:"accepted"`
	Materialized int       `json:"materialized"`
	TiersUsed    []string  `json:"tiers_used"`
	ElapsedMS    int64     `json:"elapsed_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// Recent returns the latest n acquisitions, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, capability, query, requested, accepted, materialized,
		       tiers_used, elapsed_ms, created_at
		FROM acquisitions
		ORDER BY created_at DESC, id
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var tiersJSON string
		var created int64
		if err := rows.Scan(&e.ID, &e.Capability, &e.Query, &e.Requested,
			&e.Accepted, &e.Materialized, &tiersJSON, &e.ElapsedMS, &created); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		if err := json.Unmarshal([]byte(tiersJSON), &e.TiersUsed); err != nil {
			e.TiersUsed = nil
		}
		e.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}
	return out, nil
}
