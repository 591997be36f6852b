package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates repositories backed by a temp sqlite file, shared by all pooled connections
func setupTestDB(t *testing.T) (repos *Repositories, cleanup func()) {
	t.Helper()
	cfg := Config{
		DSN:             "file:" + filepath.Join(t.TempDir(), "test.db") + "?mode=rwc&_txlock=immediate",
		MaxOpenConns:    4,
		MaxIdleConns:    4,
		ConnMaxLifetime: 30 * time.Second,
	}
	repos, err := NewRepositories(context.Background(), cfg)
	require.NoError(t, err)
	return repos, func() { assert.NoError(t, repos.Close()) }
}

func TestNewRepositories(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repos.Ping(context.Background()))
	assert.NotNil(t, repos.Feed)
	assert.NotNil(t, repos.Subscription)
	assert.NotNil(t, repos.Category)
	assert.NotNil(t, repos.Item)

	var fk int
	require.NoError(t, repos.DB.Get(&fk, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, fk, "foreign keys enabled on pooled connection")
}

func TestNewRepositories_Reopen(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "reopen.db") + "?mode=rwc"
	ctx := context.Background()

	repos, err := NewRepositories(ctx, Config{DSN: dsn})
	require.NoError(t, err)
	_, err = repos.Subscription.CreateSubscription(ctx, "alice", "https://example.com/feed", 0, "")
	require.NoError(t, err)
	require.NoError(t, repos.Close())

	// schema and migrations are idempotent, data survives
	repos, err = NewRepositories(ctx, Config{DSN: dsn})
	require.NoError(t, err)
	defer repos.Close()
	count, err := repos.Feed.CountFeeds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunMigrations_AddsFeedColumns(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// simulate a database created before failure_kind/last_attempt existed
	_, err := repos.DB.ExecContext(ctx, "ALTER TABLE feeds DROP COLUMN failure_kind")
	require.NoError(t, err)
	_, err = repos.DB.ExecContext(ctx, "ALTER TABLE feeds DROP COLUMN last_attempt")
	require.NoError(t, err)

	require.NoError(t, runMigrations(ctx, repos.DB))

	for _, col := range []string{"failure_kind", "last_attempt"} {
		var count int
		err := repos.DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM pragma_table_info('feeds') WHERE name = ?", col)
		require.NoError(t, err)
		assert.Equal(t, 1, count, col)
	}

	// second run is a no-op
	require.NoError(t, runMigrations(ctx, repos.DB))
}

func TestWithPragmas(t *testing.T) {
	tbl := []struct {
		dsn, want string
	}{
		{"file:a.db", "file:a.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"},
		{"file:a.db?mode=rwc", "file:a.db?mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"},
		{"file:a.db?_pragma=busy_timeout(100)", "file:a.db?_pragma=busy_timeout(100)"},
	}
	for _, tt := range tbl {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, withPragmas(tt.dsn))
		})
	}
}

func TestIsLockError(t *testing.T) {
	assert.False(t, isLockError(nil))
	assert.False(t, isLockError(assert.AnError))
	assert.True(t, isLockError(errString("database is locked (5) (SQLITE_BUSY)")))
	assert.True(t, isLockError(errString("database table is locked")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.True(t, isUniqueViolation(errString("constraint failed: UNIQUE constraint failed: subscriptions.user_id, subscriptions.feed_id (2067)")))
	assert.False(t, isUniqueViolation(errString("FOREIGN KEY constraint failed")))
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("retries lock errors", func(t *testing.T) {
		calls := 0
		err := withRetry(ctx, func() error {
			calls++
			if calls < 3 {
				return errString("database is locked")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("other errors returned without retry", func(t *testing.T) {
		calls := 0
		err := withRetry(ctx, func() error {
			calls++
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 1, calls)
	})
}

type errString string

func (e errString) Error() string { return string(e) }
