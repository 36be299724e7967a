package sqlite_test

import (
	"context"
	"testing"

	"github.com/pagemark/pagemark"
	"github.com/pagemark/pagemark/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustOpenDB opens an in-memory database and closes it on cleanup.
func mustOpenDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("CreatesSchema", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)

		var count int
		err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM conversions").Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("InvalidPath", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		require.Error(t, db.Open())
	})

	t.Run("WALModeForFileDatabases", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(t.TempDir() + "/cache.db")
		require.NoError(t, db.Open())
		defer db.Close()

		var journalMode string
		err := db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		assert.Equal(t, "wal", journalMode)
	})
}

func TestCacheService(t *testing.T) {
	t.Parallel()

	result := &pagemark.ConversionResult{
		Markdown: "# Example\n\nSome text.\n",
		Stats: pagemark.ConversionStats{
			HTMLLength:     120,
			MarkdownLength: 24,
			HeadingCount:   1,
			ParagraphCount: 1,
		},
	}

	t.Run("PutThenGet", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewCacheService(mustOpenDB(t))
		ctx := context.Background()

		require.NoError(t, svc.Put(ctx, "https://example.com/page", result))

		cached, err := svc.Get(ctx, "https://example.com/page")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/page", cached.URL)
		assert.Equal(t, result.Markdown, cached.Result.Markdown)
		assert.Equal(t, result.Stats, cached.Result.Stats)
		assert.False(t, cached.CreatedAt.IsZero())
	})

	t.Run("MissReturnsNotFound", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewCacheService(mustOpenDB(t))

		_, err := svc.Get(context.Background(), "https://example.com/absent")
		require.Error(t, err)
		assert.Equal(t, pagemark.ENOTFOUND, pagemark.ErrorCode(err))
	})

	t.Run("PutReplacesExistingEntry", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewCacheService(mustOpenDB(t))
		ctx := context.Background()

		require.NoError(t, svc.Put(ctx, "https://example.com", result))
		updated := &pagemark.ConversionResult{Markdown: "# Updated\n"}
		require.NoError(t, svc.Put(ctx, "https://example.com", updated))

		cached, err := svc.Get(ctx, "https://example.com")
		require.NoError(t, err)
		assert.Equal(t, "# Updated\n", cached.Result.Markdown)
	})

	t.Run("EntriesAreKeyedByURL", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewCacheService(mustOpenDB(t))
		ctx := context.Background()

		require.NoError(t, svc.Put(ctx, "https://example.com/a", &pagemark.ConversionResult{Markdown: "a\n"}))
		require.NoError(t, svc.Put(ctx, "https://example.com/b", &pagemark.ConversionResult{Markdown: "b\n"}))

		a, err := svc.Get(ctx, "https://example.com/a")
		require.NoError(t, err)
		b, err := svc.Get(ctx, "https://example.com/b")
		require.NoError(t, err)
		assert.Equal(t, "a\n", a.Result.Markdown)
		assert.Equal(t, "b\n", b.Result.Markdown)
	})

	t.Run("NilResultRejected", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewCacheService(mustOpenDB(t))

		err := svc.Put(context.Background(), "https://example.com", nil)
		require.Error(t, err)
		assert.Equal(t, pagemark.EINVALID, pagemark.ErrorCode(err))
	})
}
