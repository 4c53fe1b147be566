// Package sqlitestore persists a store.Snapshot in a SQLite database using
// the pure Go modernc driver.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/idilsaglam/todostore/internal/model"
	"github.com/idilsaglam/todostore/internal/store"
)

// DefaultFileName is used when no data path is configured.
const DefaultFileName = "todos.db"

const schema = `
CREATE TABLE IF NOT EXISTS todos (
	slot        INTEGER PRIMARY KEY,
	id          INTEGER NOT NULL UNIQUE,
	title       TEXT    NOT NULL,
	description TEXT    NOT NULL,
	done        INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Store keeps one row per record, keyed by its index.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultFileName
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Path() string { return s.path }

// Load reads all rows in slot order.
func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	var snap store.Snapshot

	var next string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'next_id'`).Scan(&next)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return snap, fmt.Errorf("select next_id: %w", err)
	default:
		n, err := strconv.ParseUint(next, 10, 64)
		if err != nil {
			return snap, fmt.Errorf("parse next_id: %w", err)
		}
		snap.NextID = n
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, done FROM todos ORDER BY slot`)
	if err != nil {
		return snap, fmt.Errorf("select todos: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Done); err != nil {
			return snap, fmt.Errorf("scan: %w", err)
		}
		snap.Records = append(snap.Records, r)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("iterate todos: %w", err)
	}
	return snap, nil
}

// Save replaces every row in a single transaction.
func (s *Store) Save(ctx context.Context, snap store.Snapshot) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM todos`); err != nil {
		return fmt.Errorf("clear todos: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO todos (slot, id, title, description, done) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for i, r := range snap.Records {
		if _, err := stmt.ExecContext(ctx, i, r.ID, r.Title, r.Description, r.Done); err != nil {
			return fmt.Errorf("insert slot %d: %w", i, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('next_id', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		strconv.FormatUint(snap.NextID, 10),
	); err != nil {
		return fmt.Errorf("upsert next_id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
