package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/histogram-browser/internal/repository"
	"github.com/godilite/histogram-browser/internal/sharegate"
	dbbuilder "github.com/godilite/histogram-browser/pkg/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := dbbuilder.New(
		dbbuilder.WithDriver("sqlite3"),
		dbbuilder.WithDataSource(":memory:"),
		dbbuilder.WithMaxOpenConns(1),
		dbbuilder.WithSchema(repository.PreferencesSchema),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestPreferenceRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPreferenceRepository(setupTestDB(t))

	t.Run("missing value", func(t *testing.T) {
		v, ok, err := repo.GetValue(ctx, "nextHistogramShareMessage")

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("insert then overwrite", func(t *testing.T) {
		require.NoError(t, repo.SetValue(ctx, "nextHistogramShareMessage", "1"))
		require.NoError(t, repo.SetValue(ctx, "nextHistogramShareMessage", "2"))

		v, ok, err := repo.GetValue(ctx, "nextHistogramShareMessage")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "2", v)
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, repo.SetValue(ctx, "a", "x"))

		_, ok, err := repo.GetValue(ctx, "b")

		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestPreferenceRepository_BacksShareGate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPreferenceRepository(setupTestDB(t))
	now := time.Date(2025, 10, 18, 10, 0, 0, 0, time.UTC)
	clock := sharegate.WithClock(func() time.Time { return now })

	gate := sharegate.New(sharegate.NewKVStore(repo, sharegate.ScopedKey("session-1")), clock)
	gate.Load(ctx)
	require.False(t, gate.Active())
	gate.ShareConfirmed(ctx)

	reloaded := sharegate.New(sharegate.NewKVStore(repo, sharegate.ScopedKey("session-1")), clock)
	reloaded.Load(ctx)

	assert.True(t, reloaded.Active())
	assert.True(t, now.AddDate(0, 0, sharegate.ShareDays).Equal(reloaded.NextShowDate()))
}

func TestPreferenceRepository_ClosedDatabase(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPreferenceRepository(db)
	require.NoError(t, db.Close())

	_, _, err := repo.GetValue(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, repo.SetValue(context.Background(), "k", "v"))
}
