// Package score persists high scores in a local sqlite database.
package score

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one leaderboard row.
type Entry struct {
	Name   string
	Height int
	When   time.Time
}

// Store is a sqlite-backed high score table. Safe for concurrent use; the
// single write connection serializes sessions finishing at the same time.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	height     INTEGER NOT NULL,
	created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
);
CREATE INDEX IF NOT EXISTS scores_height ON scores(height DESC);
`

// Open opens (creating if needed) the score database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty score db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("score schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Add records a finished round. A nil store is a no-op so the game keeps
// working when the database could not be opened.
func (s *Store) Add(name string, height int) error {
	if s == nil {
		return nil
	}
	if name == "" {
		name = "anonymous"
	}
	_, err := s.db.Exec(`INSERT INTO scores (name, height) VALUES (?, ?)`, name, height)
	return err
}

// Top returns the best n scores, highest tower first.
func (s *Store) Top(n int) ([]Entry, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT name, height, created_at FROM scores ORDER BY height DESC, id ASC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.Name, &e.Height, &created); err != nil {
			return nil, err
		}
		e.When, _ = time.Parse(time.RFC3339, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Best returns the highest recorded tower, or 0 when the table is empty.
func (s *Store) Best() (int, error) {
	if s == nil {
		return 0, nil
	}
	var best sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(height) FROM scores`).Scan(&best); err != nil {
		return 0, err
	}
	return int(best.Int64), nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}
