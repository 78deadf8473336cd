// Package history keeps a local record of executed calls in SQLite.
//
// Entries describe what was sent and what came back: method, URL, status,
// duration and the error text of a failed call. Credentials, signatures and
// Authorization headers are never written.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// DefaultLimit is the number of entries List returns when limit is not positive.
const DefaultLimit = 20

const schema = `
CREATE TABLE IF NOT EXISTS calls (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	executed_at TIMESTAMP NOT NULL,
	file        TEXT NOT NULL DEFAULT '',
	method      TEXT NOT NULL,
	url         TEXT NOT NULL,
	auth_mode   TEXT NOT NULL DEFAULT 'none',
	status_code INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_calls_executed_at ON calls (executed_at);
`

// Entry is one executed call.
type Entry struct {
	ID         int64
	ExecutedAt time.Time
	File       string
	Method     string
	URL        string
	AuthMode   string
	StatusCode int
	Duration   time.Duration
	Error      string
}

// Succeeded reports whether the call got a response.
func (e Entry) Succeeded() bool {
	return e.Error == "" && e.StatusCode > 0
}

// Store is a history database.
type Store struct {
	db           *sql.DB
	path         string
	queryTimeout time.Duration
}

// Open opens or creates the database at path. Both plain paths and
// sqlite:// or sqlite: prefixed paths are accepted.
func Open(path string) (*Store, error) {
	dsn := parsePath(path)
	if dsn == "" {
		return nil, fmt.Errorf("empty history database path")
	}

	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases shared across calls.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history database: %w", err)
	}

	return &Store{
		db:           db,
		path:         dsn,
		queryTimeout: 30 * time.Second,
	}, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores an entry. A zero ExecutedAt is replaced with the current time.
func (s *Store) Record(ctx context.Context, e Entry) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if e.ExecutedAt.IsZero() {
		e.ExecutedAt = time.Now()
	}
	if e.AuthMode == "" {
		e.AuthMode = "none"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calls (executed_at, file, method, url, auth_mode, status_code, duration_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ExecutedAt.UTC(), e.File, e.Method, e.URL, e.AuthMode, e.StatusCode, e.Duration.Milliseconds(), e.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to record call: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, executed_at, file, method, url, auth_mode, status_code, duration_ms, error
		 FROM calls ORDER BY executed_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var durationMs int64
		if err := rows.Scan(&e.ID, &e.ExecutedAt, &e.File, &e.Method, &e.URL, &e.AuthMode, &e.StatusCode, &durationMs, &e.Error); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM calls`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func parsePath(path string) string {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "sqlite://") {
		return strings.TrimPrefix(path, "sqlite://")
	}
	return strings.TrimPrefix(path, "sqlite:")
}
