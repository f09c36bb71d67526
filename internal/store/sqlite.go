package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
	call_id    TEXT NOT NULL,
	kind       TEXT NOT NULL,
	namespace  TEXT NOT NULL,
	payload    BLOB NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	PRIMARY KEY (call_id, kind, namespace)
);`

// SQLiteStore persists artifacts in a single SQLite database. Upserts are
// transactional, so replacement of an artifact is all-or-nothing.
type SQLiteStore struct {
	db        *sql.DB
	namespace string
}

func NewSQLiteStore(dbPath, namespace string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &SQLiteStore{db: db, namespace: namespace}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Put(ctx context.Context, callID string, kind Kind, payload []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artifacts (call_id, kind, namespace, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (call_id, kind, namespace) DO UPDATE SET
			payload = excluded.payload,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')`,
		callID, string(kind), s.namespace, payload)
	if err != nil {
		return &PersistenceError{CallID: callID, Kind: kind, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, callID string, kind Kind) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM artifacts
		WHERE call_id = ? AND kind = ? AND namespace = ?`,
		callID, string(kind), s.namespace).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}
