// Package storage provides SQLite-based persistence for the capture journal.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for the capture journal.
type Store struct {
	db *sql.DB
}

// CaptureEntry is one fired capture, successful or not.
type CaptureEntry struct {
	ID        int64
	Kind      string
	Width     int
	Height    int
	Output    string   // Requested output name
	Paths     []string // Files written
	Tick      uint64
	Error     string // Empty on success
	CreatedAt time.Time
}

// OK reports whether the capture succeeded.
func (e CaptureEntry) OK() bool {
	return e.Error == ""
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS captures (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			output TEXT NOT NULL,
			paths TEXT NOT NULL DEFAULT '',
			tick INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_captures_created ON captures(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordCapture appends a capture to the journal.
// Returns the ID of the inserted record.
func (s *Store) RecordCapture(e CaptureEntry) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO captures (kind, width, height, output, paths, tick, error) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.Kind, e.Width, e.Height, e.Output, strings.Join(e.Paths, "\n"), int64(e.Tick), e.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record capture: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentCaptures retrieves the most recent captures, newest first.
func (s *Store) RecentCaptures(limit int) ([]CaptureEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, kind, width, height, output, paths, tick, error, created_at
		 FROM captures
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query captures: %w", err)
	}
	defer rows.Close()

	var entries []CaptureEntry
	for rows.Next() {
		var e CaptureEntry
		var paths string
		var tick int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Kind, &e.Width, &e.Height, &e.Output, &paths, &tick, &e.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if paths != "" {
			e.Paths = strings.Split(paths, "\n")
		}
		e.Tick = uint64(tick)

		// Parse the datetime - handle both time.Time and string
		switch v := createdAt.(type) {
		case time.Time:
			e.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				e.CreatedAt = parsed
			}
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// CaptureCount returns the number of journaled captures.
func (s *Store) CaptureCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM captures").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count captures: %w", err)
	}
	return n, nil
}

// ClearCaptures deletes every journal entry.
func (s *Store) ClearCaptures() error {
	_, err := s.db.Exec("DELETE FROM captures")
	if err != nil {
		return fmt.Errorf("storage: cannot clear captures: %w", err)
	}
	return nil
}
