package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists records in a SQLite database. Each Append is its own
// implicit transaction, so rows are durable before the next task starts.
// Like the CSV backend it is append-only with no dedup key.
type SQLiteStore struct {
	db *sql.DB
}

const resultsSchema = `
CREATE TABLE IF NOT EXISTS results (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    pair_id           INTEGER NOT NULL,
    strategy          TEXT NOT NULL,
    persona_id        TEXT NOT NULL,
    choice            TEXT NOT NULL,
    rationale         TEXT NOT NULL,
    difficulty        TEXT NOT NULL,
    difficulty_reason TEXT NOT NULL,
    status            TEXT NOT NULL,
    created_at        TEXT NOT NULL
);`

// OpenSQLite opens or creates the database at path and ensures the schema,
// creating parent directories as needed.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite %q: %w", path, err)
	}
	if _, err := db.Exec(resultsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append inserts one record. The insert commits before returning.
func (s *SQLiteStore) Append(rec Record) error {
	_, err := s.db.Exec(
		`INSERT INTO results
		 (pair_id, strategy, persona_id, choice, rationale, difficulty, difficulty_reason, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.PairID, rec.Strategy, rec.PersonaID, rec.Choice,
		rec.Rationale, rec.Difficulty, rec.DifficultyReason, rec.Status,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store: insert result: %w", err)
	}
	return nil
}

// Load reads every record back in insertion order.
func (s *SQLiteStore) Load() ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT pair_id, strategy, persona_id, choice, rationale, difficulty, difficulty_reason, status
		 FROM results ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: query results: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.PairID, &r.Strategy, &r.PersonaID, &r.Choice,
			&r.Rationale, &r.Difficulty, &r.DifficultyReason, &r.Status); err != nil {
			return nil, fmt.Errorf("store: scan result: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate results: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
