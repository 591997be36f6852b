package takeout

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedsync/pkg/domain"
	"github.com/umputun/feedsync/pkg/registry"
	"github.com/umputun/feedsync/pkg/repository"
	"github.com/umputun/feedsync/pkg/service"
	"github.com/umputun/feedsync/pkg/takeout/mocks"
)

// takeoutOf builds a subscription list with the given urls in a "Tech" folder
func takeoutOf(urls ...string) []byte {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><opml version="1.0"><body><outline title="Tech" text="Tech">`)
	for i, u := range urls {
		fmt.Fprintf(&sb, `<outline text="feed %d" title="feed %d" type="rss" xmlUrl="%s"/>`, i, i, u)
	}
	sb.WriteString(`</outline><outline text="loose" xmlUrl="https://example.com/loose"/></body></opml>`)
	return []byte(sb.String())
}

func newRegistrarMock() *mocks.RegistrarMock {
	return &mocks.RegistrarMock{
		ResolveCategoryFunc: func(ctx context.Context, userID, name string) (*domain.Category, error) {
			return &domain.Category{ID: int64(len(name)), UserID: userID, Name: name}, nil
		},
		SubscribeFunc: func(ctx context.Context, req domain.SubscribeRequest) (*domain.Subscription, error) {
			return &domain.Subscription{ID: 1, UserID: req.UserID}, nil
		},
	}
}

func TestImporter_Import(t *testing.T) {
	reg := newRegistrarMock()
	im := NewImporter(reg, lgr.NoOp)

	report, err := im.Import(context.Background(), "alice", takeoutOf("https://a.example.com/feed", "https://b.example.com/feed"), "Inbox")
	require.NoError(t, err)
	assert.Equal(t, 3, report.Created)
	assert.Len(t, report.Entries, 3)

	require.Len(t, reg.SubscribeCalls(), 3)
	first := reg.SubscribeCalls()[0].Req
	assert.Equal(t, domain.SubscribeRequest{UserID: "alice", URL: "https://a.example.com/feed", CategoryID: 4, Title: "feed 0"}, first)
	loose := reg.SubscribeCalls()[2].Req
	assert.Equal(t, int64(5), loose.CategoryID, "default category for entries outside folders")
	assert.Equal(t, "Inbox", report.Entries[2].Category)

	// each category resolved once
	require.Len(t, reg.ResolveCategoryCalls(), 2)
	assert.Equal(t, "Tech", reg.ResolveCategoryCalls()[0].Name)
	assert.Equal(t, "Inbox", reg.ResolveCategoryCalls()[1].Name)
}

func TestImporter_ImportNineValidOneEmpty(t *testing.T) {
	urls := make([]string, 0, 9)
	for i := range 8 {
		urls = append(urls, fmt.Sprintf("https://example.com/feed/%d", i))
	}
	urls = append(urls, "") // the one without url
	archive := takeoutOf(urls...)

	reg := newRegistrarMock()
	calls := 0
	reg.SubscribeFunc = func(ctx context.Context, req domain.SubscribeRequest) (*domain.Subscription, error) {
		calls++
		if calls%2 == 0 {
			return nil, fmt.Errorf("subscribe: %w", domain.ErrAlreadySubscribed)
		}
		return &domain.Subscription{ID: int64(calls)}, nil
	}
	im := NewImporter(reg, lgr.NoOp)

	report, err := im.Import(context.Background(), "alice", archive, "")
	require.NoError(t, err)
	assert.Equal(t, 9, report.Created+report.AlreadySubscribed)
	assert.Equal(t, 5, report.Created)
	assert.Equal(t, 4, report.AlreadySubscribed)
	assert.Equal(t, 1, report.SkippedNoURL)
	assert.Zero(t, report.Failed)
	require.Len(t, report.Entries, 10)
	assert.Equal(t, domain.ImportSkippedNoURL, report.Entries[8].Status)
	assert.Equal(t, "feed 8", report.Entries[8].Title)
}

func TestImporter_ImportPerEntryFailures(t *testing.T) {
	reg := newRegistrarMock()
	reg.SubscribeFunc = func(ctx context.Context, req domain.SubscribeRequest) (*domain.Subscription, error) {
		if strings.HasPrefix(req.URL, "ftp") {
			return nil, fmt.Errorf("%w: unsupported scheme", domain.ErrInvalidURL)
		}
		return &domain.Subscription{}, nil
	}
	im := NewImporter(reg, lgr.NoOp)

	report, err := im.Import(context.Background(), "alice", takeoutOf("ftp://example.com/feed", "https://example.com/feed"), "")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, domain.ImportFailed, report.Entries[0].Status)
	assert.Contains(t, report.Entries[0].Error, "unsupported scheme")
	assert.Empty(t, report.Entries[2].Category, "no default category")
}

func TestImporter_ImportBlankDefaultCategory(t *testing.T) {
	reg := newRegistrarMock()
	im := NewImporter(reg, lgr.NoOp)

	report, err := im.Import(context.Background(), "alice", takeoutOf("https://a.example.com/feed"), "  \t")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	require.Len(t, report.Entries, 2)
	assert.Empty(t, report.Entries[1].Category, "blank default means uncategorized")
	assert.Zero(t, reg.SubscribeCalls()[1].Req.CategoryID)
	require.Len(t, reg.ResolveCategoryCalls(), 1, "only the folder category resolved")
	assert.Equal(t, "Tech", reg.ResolveCategoryCalls()[0].Name)
}

func TestImporter_ImportAborts(t *testing.T) {
	t.Run("malformed archive", func(t *testing.T) {
		im := NewImporter(newRegistrarMock(), lgr.NoOp)
		report, err := im.Import(context.Background(), "alice", []byte("<html>"), "")
		require.ErrorIs(t, err, domain.ErrMalformedDocument)
		assert.Nil(t, report)
	})

	t.Run("storage failure", func(t *testing.T) {
		reg := newRegistrarMock()
		reg.SubscribeFunc = func(ctx context.Context, req domain.SubscribeRequest) (*domain.Subscription, error) {
			return nil, errors.New("database is gone")
		}
		im := NewImporter(reg, lgr.NoOp)
		report, err := im.Import(context.Background(), "alice", takeoutOf("https://a.example.com/feed", "https://b.example.com/feed"), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database is gone")
		require.NotNil(t, report)
		assert.Empty(t, report.Entries)
		assert.Len(t, reg.SubscribeCalls(), 1)
	})

	t.Run("category failure", func(t *testing.T) {
		reg := newRegistrarMock()
		reg.ResolveCategoryFunc = func(ctx context.Context, userID, name string) (*domain.Category, error) {
			return nil, errors.New("locked")
		}
		im := NewImporter(reg, lgr.NoOp)
		_, err := im.Import(context.Background(), "alice", takeoutOf("https://a.example.com/feed"), "")
		require.Error(t, err)
		assert.Empty(t, reg.SubscribeCalls())
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		reg := newRegistrarMock()
		im := NewImporter(reg, lgr.NoOp)
		_, err := im.Import(ctx, "alice", takeoutOf("https://a.example.com/feed"), "")
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, reg.SubscribeCalls())
	})
}

func TestImporter_Integration_Reimport(t *testing.T) {
	repos, err := repository.NewRepositories(context.Background(), repository.Config{
		DSN: "file:" + filepath.Join(t.TempDir(), "takeout.db") + "?mode=rwc&_txlock=immediate",
	})
	require.NoError(t, err)
	defer repos.Close()
	reg := registry.New(service.NewStore(repos), lgr.NoOp)
	im := NewImporter(reg, lgr.NoOp)
	ctx := context.Background()
	archive := takeoutOf("https://a.example.com/feed", "https://b.example.com/feed", "")

	first, err := im.Import(ctx, "alice", archive, "Inbox")
	require.NoError(t, err)
	assert.Equal(t, 3, first.Created)
	assert.Equal(t, 1, first.SkippedNoURL)

	second, err := im.Import(ctx, "alice", archive, "Inbox")
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, 3, second.AlreadySubscribed, "re-import is idempotent")

	cats, err := reg.Categories(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Inbox", cats[0].Name)
	assert.Equal(t, "Tech", cats[1].Name)

	// blank default category leaves loose entries uncategorized
	carol, err := im.Import(ctx, "carol", archive, " ")
	require.NoError(t, err)
	assert.Equal(t, 3, carol.Created)
	carolCats, err := reg.Categories(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, carolCats, 1)
	assert.Equal(t, "Tech", carolCats[0].Name)

	// another user importing the same list shares the feeds
	bob, err := im.Import(ctx, "bob", archive, "")
	require.NoError(t, err)
	assert.Equal(t, 3, bob.Created)
	count, err := repos.Feed.CountFeeds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
