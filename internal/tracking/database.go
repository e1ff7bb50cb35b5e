package tracking

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

// NewDatabase opens (creating if necessary) the playback history database at
// dbPath and ensures the schema exists. Use ":memory:" for an ephemeral
// database in tests.
func NewDatabase(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// ensureSchema creates the history schema if it doesn't exist.
func ensureSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS playback_sessions (
    id              INTEGER PRIMARY KEY,
    timestamp       INTEGER NOT NULL,
    path            TEXT    NOT NULL,
    speed           REAL    NOT NULL,
    nominal_rate    INTEGER NOT NULL,
    target_rate     INTEGER NOT NULL,
    ratio           REAL    NOT NULL,
    channels        INTEGER NOT NULL,
    samples_played  INTEGER NOT NULL,
    samples_skipped INTEGER NOT NULL,
    outcome         TEXT    NOT NULL CHECK (outcome IN ('complete','aborted')),
    error           TEXT
);

CREATE INDEX IF NOT EXISTS idx_sessions_timestamp ON playback_sessions(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_sessions_path ON playback_sessions(path);
`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
