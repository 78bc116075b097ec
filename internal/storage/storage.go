// Package storage persists extracted class records between runs so that
// unchanged files are not re-parsed. It is strictly a cache: corrupt or stale
// rows are treated as misses, never as errors.
package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/beanlens/beanlens/internal/symbol"
)

//go:embed schema.sql
var schemaSQL string

// DB is the interface accepted by New. It abstracts the database operations
// needed by Store so that callers can supply a real *sql.DB or a wrapper that
// injects faults, records calls, etc.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store is a content-hash keyed cache of extracted classes per source file.
type Store struct {
	db DB
}

// New initializes a Store backed by the given DB. It runs the embedded schema
// DDL against db before returning. The caller owns the underlying connection.
func New(ctx context.Context, db DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("failed to initialize scan cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Open opens (creating if necessary) the scan cache database at path.
func Open(ctx context.Context, path string) (*Store, *sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open scan cache %s: %w", path, err)
	}
	store, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, db, nil
}

// Lookup returns the cached classes for path when the stored content hash
// still matches. Any inconsistency, including rows written by an incompatible
// version, is a miss.
func (s *Store) Lookup(ctx context.Context, path, hash string) ([]symbol.Class, bool) {
	var storedHash, payload string
	row := s.db.QueryRowContext(ctx,
		"SELECT hash, classes FROM scanned_files WHERE path = ?", path)
	if err := row.Scan(&storedHash, &payload); err != nil {
		return nil, false
	}
	if storedHash != hash {
		return nil, false
	}
	var classes []symbol.Class
	if err := json.Unmarshal([]byte(payload), &classes); err != nil {
		return nil, false
	}
	return classes, true
}

// Save records the classes extracted from path at the given content hash,
// replacing any previous record for the path.
func (s *Store) Save(ctx context.Context, path, hash string, classes []symbol.Class) error {
	payload, err := json.Marshal(classes)
	if err != nil {
		return fmt.Errorf("failed to encode classes for %s: %w", path, err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO scanned_files (path, hash, classes) VALUES (?, ?, ?) "+
			"ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, classes = excluded.classes",
		path, hash, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save scan record for %s: %w", path, err)
	}
	return nil
}
