// Package store persists drill progress in a local SQLite database: the set
// of visited node identities per study, plus an append-only log of drill
// events. Persistence failures are reported to callers and never touch the
// in-memory session.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db *sql.DB
}

// Open creates a Store connected to the SQLite database at dsn. It applies
// recommended pragmas and creates the schema when missing.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ProgressRepo returns the visited-node repository backed by this store.
func (s *Store) ProgressRepo() ProgressRepo {
	return &progressRepo{db: s.db}
}

// DrillRepo returns the drill-event repository backed by this store.
func (s *Store) DrillRepo() DrillRepo {
	return &drillRepo{db: s.db}
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS visited_nodes (
			study_hash TEXT NOT NULL,
			node_hash  TEXT NOT NULL,
			seq        INTEGER NOT NULL,
			visited_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (study_hash, node_hash)
		)`,
		`CREATE TABLE IF NOT EXISTS drill_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			study_hash TEXT NOT NULL,
			session_id TEXT NOT NULL,
			action     TEXT NOT NULL,
			detail     TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drill_events_study ON drill_events (study_hash)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %.40q: %w", stmt, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. OPENLINE_DB environment variable
// 2. $XDG_DATA_HOME/openline/openline.db
// 3. ~/.local/share/openline/openline.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("OPENLINE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "openline", "openline.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
