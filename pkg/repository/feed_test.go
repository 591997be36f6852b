package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedsync/pkg/domain"
)

func TestFeedRepository_GetFeed(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sub, err := repos.Subscription.CreateSubscription(ctx, "alice", "https://example.com/feed", 0, "")
	require.NoError(t, err)

	feed, err := repos.Feed.GetFeed(ctx, sub.FeedID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/feed", feed.URL)
	assert.Nil(t, feed.LastSynced, "never synced")
	assert.Nil(t, feed.LastAttempt)
	assert.Equal(t, domain.FailureNone, feed.FailureKind)
	assert.False(t, feed.CreatedAt.IsZero())

	byURL, err := repos.Feed.GetFeedByURL(ctx, "https://example.com/feed")
	require.NoError(t, err)
	assert.Equal(t, feed.ID, byURL.ID)

	_, err = repos.Feed.GetFeed(ctx, 12345)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repos.Feed.GetFeedByURL(ctx, "https://example.com/other")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFeedRepository_CommitSync(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sub, err := repos.Subscription.CreateSubscription(ctx, "alice", "https://example.com/feed", 0, "")
	require.NoError(t, err)

	syncedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	commit := domain.SyncCommit{
		FeedID: sub.FeedID, Title: "Example", ETag: `"v1"`, LastModified: "Sun, 01 Mar 2026 10:00:00 GMT",
		SyncedAt: syncedAt, Items: testItems(3, syncedAt),
	}
	n, err := repos.Feed.CommitSync(ctx, commit)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	feed, err := repos.Feed.GetFeed(ctx, sub.FeedID)
	require.NoError(t, err)
	assert.Equal(t, "Example", feed.Title)
	require.NotNil(t, feed.LastSynced)
	assert.True(t, syncedAt.Equal(*feed.LastSynced), "got %v", feed.LastSynced)
	assert.Equal(t, `"v1"`, feed.ETag)
	assert.Equal(t, "Sun, 01 Mar 2026 10:00:00 GMT", feed.LastModified)

	t.Run("same items again insert nothing", func(t *testing.T) {
		commit.SyncedAt = syncedAt.Add(time.Hour)
		commit.Title = "" // keeps stored title
		n, err := repos.Feed.CommitSync(ctx, commit)
		require.NoError(t, err)
		assert.Zero(t, n)

		count, err := repos.Item.CountFeedItems(ctx, sub.FeedID)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		feed, err := repos.Feed.GetFeed(ctx, sub.FeedID)
		require.NoError(t, err)
		assert.Equal(t, "Example", feed.Title)
		assert.True(t, syncedAt.Add(time.Hour).Equal(*feed.LastSynced))
	})

	t.Run("partial overlap inserts only new", func(t *testing.T) {
		commit.Items = testItems(5, syncedAt)
		n, err := repos.Feed.CommitSync(ctx, commit)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("unknown feed", func(t *testing.T) {
		_, err := repos.Feed.CommitSync(ctx, domain.SyncCommit{FeedID: 999, SyncedAt: syncedAt, Items: testItems(1, syncedAt)})
		require.Error(t, err)
	})
}

func TestFeedRepository_CommitSyncIsAtomic(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sub, err := repos.Subscription.CreateSubscription(ctx, "alice", "https://example.com/feed", 0, "")
	require.NoError(t, err)

	// cancelled context fails the transaction, nothing is stored
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = repos.Feed.CommitSync(cctx, domain.SyncCommit{FeedID: sub.FeedID, SyncedAt: time.Now(), Items: testItems(2, time.Now())})
	require.Error(t, err)

	count, err := repos.Item.CountFeedItems(ctx, sub.FeedID)
	require.NoError(t, err)
	assert.Zero(t, count)
	feed, err := repos.Feed.GetFeed(ctx, sub.FeedID)
	require.NoError(t, err)
	assert.Nil(t, feed.LastSynced)
}

func TestFeedRepository_RecordFailure(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sub, err := repos.Subscription.CreateSubscription(ctx, "alice", "https://example.com/feed", 0, "")
	require.NoError(t, err)
	syncedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err = repos.Feed.CommitSync(ctx, domain.SyncCommit{FeedID: sub.FeedID, SyncedAt: syncedAt, Items: testItems(2, syncedAt)})
	require.NoError(t, err)

	at := syncedAt.Add(time.Hour)
	require.NoError(t, repos.Feed.RecordFailure(ctx, sub.FeedID, domain.SyncFailure{Kind: domain.FailureFetch, Message: "timeout", At: at}))
	require.NoError(t, repos.Feed.RecordFailure(ctx, sub.FeedID, domain.SyncFailure{Kind: domain.FailureParse, Message: "bad xml", At: at.Add(time.Minute)}))

	feed, err := repos.Feed.GetFeed(ctx, sub.FeedID)
	require.NoError(t, err)
	assert.Equal(t, 2, feed.FailureCount)
	assert.Equal(t, domain.FailureParse, feed.FailureKind)
	assert.Equal(t, "bad xml", feed.LastError)
	require.NotNil(t, feed.LastAttempt)
	assert.True(t, at.Add(time.Minute).Equal(*feed.LastAttempt))
	assert.True(t, syncedAt.Equal(*feed.LastSynced), "last synced untouched")

	count, err := repos.Item.CountFeedItems(ctx, sub.FeedID)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "items untouched")

	// success resets failure state
	_, err = repos.Feed.CommitSync(ctx, domain.SyncCommit{FeedID: sub.FeedID, SyncedAt: at.Add(time.Hour)})
	require.NoError(t, err)
	feed, err = repos.Feed.GetFeed(ctx, sub.FeedID)
	require.NoError(t, err)
	assert.Zero(t, feed.FailureCount)
	assert.Equal(t, domain.FailureNone, feed.FailureKind)
	assert.Empty(t, feed.LastError)

	err = repos.Feed.RecordFailure(ctx, 999, domain.SyncFailure{Kind: domain.FailureFetch, At: at})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFeedRepository_SubscribedAndUserFeeds(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	_, err := repos.Subscription.CreateSubscription(ctx, "alice", "https://a.example.com/feed", 0, "")
	require.NoError(t, err)
	_, err = repos.Subscription.CreateSubscription(ctx, "alice", "https://b.example.com/feed", 0, "")
	require.NoError(t, err)
	_, err = repos.Subscription.CreateSubscription(ctx, "bob", "https://b.example.com/feed", 0, "")
	require.NoError(t, err)

	all, err := repos.Feed.GetSubscribedFeeds(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "shared url stored once")

	bobs, err := repos.Feed.GetUserFeeds(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	assert.Equal(t, "https://b.example.com/feed", bobs[0].URL)

	none, err := repos.Feed.GetUserFeeds(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testItems(n int, base time.Time) []domain.Item {
	items := make([]domain.Item, 0, n)
	for i := range n {
		items = append(items, domain.Item{
			DedupKey:  fmt.Sprintf("id:item-%d", i),
			Title:     fmt.Sprintf("item %d", i),
			Link:      fmt.Sprintf("https://example.com/%d", i),
			Content:   "content",
			Published: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return items
}
