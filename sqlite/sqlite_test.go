package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/munifin/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens an in-memory database closed at test cleanup.
func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		for _, table := range []string{"extractions", "records", "summaries"} {
			var n int
			err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
			require.NoError(t, err, table)
			assert.Zero(t, n, table)
		}
	})

	t.Run("reopens an existing file database", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "munifin.db")

		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		_, err := db.ExecContext(context.Background(),
			"INSERT INTO summaries (id, title, fetched_at) VALUES ('1', 'x', '2025-01-01T00:00:00.000000000Z')")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		db = sqlite.NewDB(path)
		require.NoError(t, db.Open())
		defer db.Close()

		var n int
		require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM summaries").Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("records schema version", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		v, err := db.Version(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})

	t.Run("refuses a database from a newer version", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "munifin.db")

		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		_, err := db.ExecContext(context.Background(), "PRAGMA user_version = 99")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		err = sqlite.NewDB(path).Open()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "newer than supported")
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		err := db.Open()
		assert.Error(t, err)
	})

	t.Run("close without open is a no-op", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, sqlite.NewDB(":memory:").Close())
	})
}
