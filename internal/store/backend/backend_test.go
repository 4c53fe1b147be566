package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todostore/internal/store"
	"github.com/idilsaglam/todostore/internal/store/jsonstore"
	"github.com/idilsaglam/todostore/internal/store/sqlitestore"
)

func TestOpen_Kinds(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		kind string
		path string
		want any
	}{
		{kind: "", path: filepath.Join(dir, "a.json"), want: &jsonstore.Store{}},
		{kind: JSON, path: filepath.Join(dir, "b.json"), want: &jsonstore.Store{}},
		{kind: SQLite, path: filepath.Join(dir, "c.db"), want: &sqlitestore.Store{}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			b, err := Open(ctx, tt.kind, tt.path)
			require.NoError(t, err)
			defer b.Close()
			assert.IsType(t, tt.want, b)

			src := store.New()
			src.Create("Wash Cloth", "")
			require.NoError(t, b.Save(ctx, src.Snapshot()))
			snap, err := b.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, src.Snapshot(), snap)
		})
	}
}

func TestOpen_Unknown(t *testing.T) {
	_, err := Open(context.Background(), "postgres", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown backend "postgres"`)
}

func TestOpen_EmptyPathUsesBackendDefault(t *testing.T) {
	b, err := Open(context.Background(), JSON, "")
	require.NoError(t, err)
	defer b.Close()

	js, ok := b.(*jsonstore.Store)
	require.True(t, ok)
	assert.Equal(t, jsonstore.DefaultFileName, js.Path())
}
