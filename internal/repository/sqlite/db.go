package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS leaderboard (
    id                 TEXT PRIMARY KEY,
    twitter_handle     TEXT NOT NULL,
    faction            TEXT NOT NULL,
    score              INTEGER NOT NULL,
    rounds_survived    INTEGER NOT NULL,
    enemies_eliminated INTEGER NOT NULL,
    gpus_remaining     INTEGER NOT NULL,
    created_at         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leaderboard_rank ON leaderboard (score DESC, created_at ASC);
CREATE INDEX IF NOT EXISTS idx_leaderboard_handle ON leaderboard (twitter_handle, score DESC);

CREATE TABLE IF NOT EXISTS matches (
    id            TEXT PRIMARY KEY,
    seed          INTEGER NOT NULL,
    human_faction TEXT NOT NULL,
    winner        TEXT NOT NULL DEFAULT '',
    rounds        INTEGER NOT NULL,
    turns         INTEGER NOT NULL,
    event_count   INTEGER NOT NULL,
    event_log     TEXT NOT NULL DEFAULT '',
    created_at    INTEGER NOT NULL,
    finished_at   INTEGER
);
`

// Open opens (creating if needed) the SQLite database at path and applies
// the schema. Timestamps are stored as Unix nanoseconds.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: empty db path")
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// One connection: an in-memory database lives and dies with it, and a
	// single writer avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{"PRAGMA busy_timeout=5000;", "PRAGMA foreign_keys=ON;"}
	if path != MemoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL;", "PRAGMA synchronous=NORMAL;")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return db, nil
}
