package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/feedsync/pkg/domain"
)

// DefaultItemsLimit caps unread items returned when no limit given
const DefaultItemsLimit = 100

// ItemRepository handles item-related database operations
type ItemRepository struct {
	db *sqlx.DB
}

// itemSQL represents an item for SQL operations
type itemSQL struct {
	ID          int64     `db:"id"`
	FeedID      int64     `db:"feed_id"`
	DedupKey    string    `db:"dedup_key"`
	Title       string    `db:"title"`
	Link        string    `db:"link"`
	Content     string    `db:"content"`
	Published   time.Time `db:"published"`
	Undated     bool      `db:"undated"`
	ContentHash string    `db:"content_hash"`
	CreatedAt   time.Time `db:"created_at"`

	// joined data, populated by user queries only
	SubscriptionID int64         `db:"subscription_id"`
	CategoryID     sql.NullInt64 `db:"category_id"`
	FeedTitle      string        `db:"feed_title"`
}

const itemColumnsSQL = `i.id, i.feed_id, i.dedup_key, i.title, i.link, i.content, i.published,
	i.undated, i.content_hash, i.created_at`

// NewItemRepository creates a new item repository
func NewItemRepository(database *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: database}
}

// GetUnreadItems returns items of the user's subscribed feeds not marked read,
// newest published first with ties broken by id
func (r *ItemRepository) GetUnreadItems(ctx context.Context, userID string, filter domain.ItemFilter) ([]domain.UserItem, error) {
	query := `SELECT ` + itemColumnsSQL + `,
			s.id AS subscription_id, s.category_id,
			CASE WHEN s.title != '' THEN s.title ELSE f.title END AS feed_title
		FROM items i
		JOIN subscriptions s ON s.feed_id = i.feed_id AND s.user_id = ?
		JOIN feeds f ON f.id = i.feed_id
		LEFT JOIN read_states rs ON rs.item_id = i.id AND rs.user_id = s.user_id
		WHERE rs.item_id IS NULL`
	args := []any{userID}

	var conds []string
	if filter.CategoryID > 0 {
		conds = append(conds, "s.category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.FeedID > 0 {
		conds = append(conds, "i.feed_id = ?")
		args = append(args, filter.FeedID)
	}
	if len(conds) > 0 {
		query += " AND " + strings.Join(conds, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultItemsLimit
	}
	query += " ORDER BY i.published DESC, i.id DESC LIMIT ?"
	args = append(args, limit)

	var rows []itemSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get unread items: %w", err)
	}

	items := make([]domain.UserItem, 0, len(rows))
	for i := range rows {
		ui := domain.UserItem{Item: rows[i].toDomain(), SubscriptionID: rows[i].SubscriptionID, FeedTitle: rows[i].FeedTitle}
		if rows[i].CategoryID.Valid {
			id := rows[i].CategoryID.Int64
			ui.CategoryID = &id
		}
		items = append(items, ui)
	}
	return items, nil
}

// GetFeedItems returns stored items of a feed, newest first
func (r *ItemRepository) GetFeedItems(ctx context.Context, feedID int64, limit int) ([]domain.Item, error) {
	if limit <= 0 {
		limit = DefaultItemsLimit
	}
	var rows []itemSQL
	err := r.db.SelectContext(ctx, &rows, `SELECT `+itemColumnsSQL+` FROM items i
		WHERE i.feed_id = ? ORDER BY i.published DESC, i.id DESC LIMIT ?`, feedID, limit)
	if err != nil {
		return nil, fmt.Errorf("get feed items: %w", err)
	}
	items := make([]domain.Item, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toDomain())
	}
	return items, nil
}

// CountFeedItems returns the number of items stored for the feed
func (r *ItemRepository) CountFeedItems(ctx context.Context, feedID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM items WHERE feed_id = ?`, feedID); err != nil {
		return 0, fmt.Errorf("count feed items: %w", err)
	}
	return count, nil
}

// MarkRead creates the read state for the user and item, repeated calls are no-ops.
// The subscription check is part of the insert, so an item of a feed the user doesn't
// subscribe to gets domain.ErrNotSubscribed and no read state.
func (r *ItemRepository) MarkRead(ctx context.Context, userID string, itemID int64) error {
	return withRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO read_states (user_id, item_id)
			SELECT ?, ? WHERE EXISTS (
				SELECT 1 FROM items i JOIN subscriptions s ON s.feed_id = i.feed_id
				WHERE i.id = ? AND s.user_id = ?)
			ON CONFLICT(user_id, item_id) DO NOTHING`, userID, itemID, itemID, userID)
		if err != nil {
			return fmt.Errorf("mark item %d read: %w", itemID, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("mark item %d read: %w", itemID, err)
		}
		if rows > 0 {
			return nil
		}

		// nothing inserted, either read already or not subscribed
		var subscribed bool
		err = r.db.GetContext(ctx, &subscribed, `SELECT EXISTS (
			SELECT 1 FROM items i JOIN subscriptions s ON s.feed_id = i.feed_id
			WHERE i.id = ? AND s.user_id = ?)`, itemID, userID)
		if err != nil {
			return fmt.Errorf("check subscription for item %d: %w", itemID, err)
		}
		if !subscribed {
			return fmt.Errorf("item %d: %w", itemID, domain.ErrNotSubscribed)
		}
		return nil
	})
}

func (i *itemSQL) toDomain() domain.Item {
	return domain.Item{
		ID:          i.ID,
		FeedID:      i.FeedID,
		DedupKey:    i.DedupKey,
		Title:       i.Title,
		Link:        i.Link,
		Content:     i.Content,
		Published:   i.Published,
		Undated:     i.Undated,
		ContentHash: i.ContentHash,
		CreatedAt:   i.CreatedAt,
	}
}
