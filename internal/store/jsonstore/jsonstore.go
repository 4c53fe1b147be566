package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/idilsaglam/todostore/internal/model"
	"github.com/idilsaglam/todostore/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// No locking across processes; fine for a local single-user CLI.

// DefaultFileName is used when no data path is configured.
const DefaultFileName = "todos.json"

// Store reads and writes a store.Snapshot as one JSON file.
type Store struct {
	path string
}

func New(path string) *Store {
	if path == "" {
		path = DefaultFileName
	}
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads the file. A missing file is an empty snapshot. Files holding a
// bare array of items (the pre-snapshot format) are accepted.
func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return store.Snapshot{}, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store.Snapshot{}, nil
		}
		return store.Snapshot{}, fmt.Errorf("read file: %w", err)
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return store.Snapshot{}, nil
	}
	if b[0] == '[' {
		var items []model.Record
		if err := json.Unmarshal(b, &items); err != nil {
			return store.Snapshot{}, fmt.Errorf("json unmarshal: %w", err)
		}
		return store.Snapshot{Records: items}, nil
	}
	var snap store.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return snap, nil
}

// Save replaces the file contents. The new file is written next to the
// destination and renamed over it, so a failed write keeps the old data.
func (s *Store) Save(ctx context.Context, snap store.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap.Records == nil {
		snap.Records = []model.Record{}
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
