package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreUpsertsAndPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store", "data.db")

	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC) }

	_, ok, err := store.GetItem(ctx, "orders")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetItem(ctx, "orders", "[]"))
	require.NoError(t, store.SetItem(ctx, "orders", `[{"id":"1"}]`))

	var updatedAt string
	require.NoError(t, store.db.QueryRowContext(ctx, `SELECT updated_at FROM kv_items WHERE key = ?`, "orders").Scan(&updatedAt))
	assert.Equal(t, "2025-08-01T00:00:00Z", updatedAt)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	value, ok, err := reopened.GetItem(ctx, "orders")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, value)

	_, ok, err = reopened.GetItem(ctx, "packages")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStoreErrors(t *testing.T) {
	_, err := OpenSQLiteStore("  ")
	assert.Error(t, err)

	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	ctx := context.Background()
	_, _, err = store.GetItem(ctx, "orders")
	assert.Error(t, err)
	assert.Error(t, store.SetItem(ctx, "orders", "[]"))

	var nilStore *SQLiteStore
	assert.NoError(t, nilStore.Close())
}
