// Package backend selects where a CLI process keeps its snapshot between runs.
package backend

import (
	"context"
	"fmt"

	"github.com/idilsaglam/todostore/internal/store"
	"github.com/idilsaglam/todostore/internal/store/jsonstore"
	"github.com/idilsaglam/todostore/internal/store/sqlitestore"
)

// Names accepted by Open.
const (
	JSON   = "json"
	SQLite = "sqlite"
)

// Backend loads and saves a whole store snapshot.
type Backend interface {
	Load(ctx context.Context) (store.Snapshot, error)
	Save(ctx context.Context, snap store.Snapshot) error
	Close() error
}

// Open returns the backend called kind, storing data at path.
func Open(ctx context.Context, kind, path string) (Backend, error) {
	switch kind {
	case "", JSON:
		return jsonstore.New(path), nil
	case SQLite:
		s, err := sqlitestore.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown backend %q", kind)
}
