package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/feedsync/pkg/domain"
)

// FeedRepository handles feed-related database operations
type FeedRepository struct {
	db *sqlx.DB
}

// feedSQL represents a feed for SQL operations
type feedSQL struct {
	ID           int64      `db:"id"`
	URL          string     `db:"url"`
	Title        string     `db:"title"`
	LastSynced   *time.Time `db:"last_synced"`
	LastAttempt  *time.Time `db:"last_attempt"`
	FailureCount int        `db:"failure_count"`
	FailureKind  string     `db:"failure_kind"`
	LastError    string     `db:"last_error"`
	ETag         string     `db:"etag"`
	LastModified string     `db:"last_modified"`
	CreatedAt    time.Time  `db:"created_at"`
}

const feedColumnsSQL = `f.id, f.url, f.title, f.last_synced, f.last_attempt, f.failure_count,
	f.failure_kind, f.last_error, f.etag, f.last_modified, f.created_at`

// NewFeedRepository creates a new feed repository
func NewFeedRepository(database *sqlx.DB) *FeedRepository {
	return &FeedRepository{db: database}
}

// GetFeed retrieves a feed by ID, returns domain.ErrNotFound for unknown id
func (r *FeedRepository) GetFeed(ctx context.Context, id int64) (*domain.Feed, error) {
	var f feedSQL
	err := r.db.GetContext(ctx, &f, "SELECT "+feedColumnsSQL+" FROM feeds f WHERE f.id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get feed %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get feed %d: %w", id, err)
	}
	return f.toDomain(), nil
}

// GetFeedByURL retrieves a feed by its canonical url
func (r *FeedRepository) GetFeedByURL(ctx context.Context, url string) (*domain.Feed, error) {
	var f feedSQL
	err := r.db.GetContext(ctx, &f, "SELECT "+feedColumnsSQL+" FROM feeds f WHERE f.url = ?", url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get feed by url %s: %w", url, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get feed by url %s: %w", url, err)
	}
	return f.toDomain(), nil
}

// GetSubscribedFeeds returns all feeds having at least one subscriber
func (r *FeedRepository) GetSubscribedFeeds(ctx context.Context) ([]domain.Feed, error) {
	query := "SELECT " + feedColumnsSQL + ` FROM feeds f
		WHERE EXISTS (SELECT 1 FROM subscriptions s WHERE s.feed_id = f.id)
		ORDER BY f.id`
	return r.selectFeeds(ctx, query)
}

// GetUserFeeds returns feeds the user subscribes to
func (r *FeedRepository) GetUserFeeds(ctx context.Context, userID string) ([]domain.Feed, error) {
	query := "SELECT " + feedColumnsSQL + ` FROM feeds f
		JOIN subscriptions s ON s.feed_id = f.id
		WHERE s.user_id = ?
		ORDER BY f.id`
	return r.selectFeeds(ctx, query, userID)
}

// CountFeeds returns the number of stored feeds
func (r *FeedRepository) CountFeeds(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM feeds"); err != nil {
		return 0, fmt.Errorf("count feeds: %w", err)
	}
	return count, nil
}

// RecordFailure bumps the consecutive failure counter and stores the failure details.
// Items and last_synced are left untouched.
func (r *FeedRepository) RecordFailure(ctx context.Context, feedID int64, failure domain.SyncFailure) error {
	return withRetry(ctx, func() error {
		query := `
			UPDATE feeds
			SET failure_count = failure_count + 1,
			    failure_kind = ?,
			    last_error = ?,
			    last_attempt = ?
			WHERE id = ?
		`
		res, err := r.db.ExecContext(ctx, query, string(failure.Kind), failure.Message, failure.At.UTC(), feedID)
		if err != nil {
			return fmt.Errorf("record failure for feed %d: %w", feedID, err)
		}
		return requireAffected(res, fmt.Sprintf("record failure for feed %d", feedID))
	})
}

// CommitSync stores new items and marks the feed synced, all in one transaction.
// Items with a dedup key already stored for the feed are ignored. Returns the number of inserted items.
func (r *FeedRepository) CommitSync(ctx context.Context, commit domain.SyncCommit) (int, error) {
	inserted := 0
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		inserted = 0 // reset on retry
		stmt, err := tx.PreparexContext(ctx, `
			INSERT INTO items (feed_id, dedup_key, title, link, content, published, undated, content_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(feed_id, dedup_key) DO NOTHING
		`)
		if err != nil {
			return fmt.Errorf("prepare item insert: %w", err)
		}
		defer stmt.Close()

		for _, item := range commit.Items {
			res, err := stmt.ExecContext(ctx, commit.FeedID, item.DedupKey, item.Title, item.Link,
				item.Content, item.Published.UTC(), item.Undated, item.ContentHash)
			if err != nil {
				return fmt.Errorf("insert item %s: %w", item.DedupKey, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("get rows affected: %w", err)
			}
			inserted += int(n)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE feeds
			SET title = CASE WHEN ? != '' THEN ? ELSE title END,
			    last_synced = ?,
			    last_attempt = ?,
			    failure_count = 0,
			    failure_kind = '',
			    last_error = '',
			    etag = ?,
			    last_modified = ?
			WHERE id = ?
		`, commit.Title, commit.Title, commit.SyncedAt.UTC(), commit.SyncedAt.UTC(),
			commit.ETag, commit.LastModified, commit.FeedID)
		if err != nil {
			return fmt.Errorf("update feed %d: %w", commit.FeedID, err)
		}
		return requireAffected(res, fmt.Sprintf("update feed %d", commit.FeedID))
	})
	if err != nil {
		return 0, fmt.Errorf("commit sync: %w", err)
	}
	return inserted, nil
}

func (r *FeedRepository) selectFeeds(ctx context.Context, query string, args ...any) ([]domain.Feed, error) {
	var rows []feedSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select feeds: %w", err)
	}
	feeds := make([]domain.Feed, 0, len(rows))
	for i := range rows {
		feeds = append(feeds, *rows[i].toDomain())
	}
	return feeds, nil
}

// requireAffected turns an update of zero rows into domain.ErrNotFound
func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func (f *feedSQL) toDomain() *domain.Feed {
	return &domain.Feed{
		ID:           f.ID,
		URL:          f.URL,
		Title:        f.Title,
		LastSynced:   f.LastSynced,
		LastAttempt:  f.LastAttempt,
		FailureCount: f.FailureCount,
		FailureKind:  domain.FailureKind(f.FailureKind),
		LastError:    f.LastError,
		ETag:         f.ETag,
		LastModified: f.LastModified,
		CreatedAt:    f.CreatedAt,
	}
}
