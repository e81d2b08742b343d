package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the embedded database used by standalone kiosks that run
// without a shared PostgreSQL instance.
type Store struct {
	db *sql.DB
}

func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single writer keeps the conditional append serialized.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		employee_id TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		department  TEXT NOT NULL DEFAULT '',
		active      INTEGER NOT NULL DEFAULT 1,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS attendance_records (
		id                 TEXT PRIMARY KEY,
		employee_id        TEXT NOT NULL,
		mode               TEXT NOT NULL,
		action             TEXT NOT NULL,
		ts                 TIMESTAMP NOT NULL,
		late               INTEGER,
		shift_type         TEXT,
		method             TEXT NOT NULL,
		location_name      TEXT,
		location_address   TEXT,
		location_latitude  REAL,
		location_longitude REAL,
		confidence         REAL,
		prev_id            TEXT NOT NULL DEFAULT '',
		created_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (employee_id, mode, prev_id)
	);
	CREATE INDEX IF NOT EXISTS idx_attendance_stream
		ON attendance_records (employee_id, mode, ts DESC);

	CREATE TABLE IF NOT EXISTS location_favorites (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		address      TEXT NOT NULL DEFAULT '',
		latitude     REAL NOT NULL,
		longitude    REAL NOT NULL,
		use_count    INTEGER NOT NULL DEFAULT 0,
		last_used_at TIMESTAMP,
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}

	return nil
}
