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

// SubscriptionRepository handles subscription-related database operations
type SubscriptionRepository struct {
	db *sqlx.DB
}

// subscriptionSQL represents a subscription joined with its feed url
type subscriptionSQL struct {
	ID         int64         `db:"id"`
	UserID     string        `db:"user_id"`
	FeedID     int64         `db:"feed_id"`
	FeedURL    string        `db:"feed_url"`
	CategoryID sql.NullInt64 `db:"category_id"`
	Title      string        `db:"title"`
	CreatedAt  time.Time     `db:"created_at"`
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(database *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: database}
}

// CreateSubscription resolves or creates the feed for the canonical url and links the user to it.
// Both happen in one transaction. Returns domain.ErrAlreadySubscribed if the user already has this feed.
func (r *SubscriptionRepository) CreateSubscription(ctx context.Context, userID, feedURL string,
	categoryID int64, title string) (*domain.Subscription, error) {
	var sub *domain.Subscription
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO feeds (url) VALUES (?) ON CONFLICT(url) DO NOTHING`, feedURL); err != nil {
			return fmt.Errorf("create feed: %w", err)
		}

		var feedID int64
		if err := tx.GetContext(ctx, &feedID, `SELECT id FROM feeds WHERE url = ?`, feedURL); err != nil {
			return fmt.Errorf("get feed id: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO subscriptions (user_id, feed_id, category_id, title) VALUES (?, ?, ?, ?)`,
			userID, feedID, nullableID(categoryID), title)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrAlreadySubscribed
			}
			return fmt.Errorf("insert subscription: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("get insert id: %w", err)
		}

		var row subscriptionSQL
		if err := tx.GetContext(ctx, &row, subscriptionQuery+" WHERE s.id = ?", id); err != nil {
			return fmt.Errorf("get subscription: %w", err)
		}
		sub = row.toDomain()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s to %s: %w", userID, feedURL, err)
	}
	return sub, nil
}

// GetSubscriptions returns all subscriptions of the user
func (r *SubscriptionRepository) GetSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	var rows []subscriptionSQL
	if err := r.db.SelectContext(ctx, &rows, subscriptionQuery+" WHERE s.user_id = ? ORDER BY s.id", userID); err != nil {
		return nil, fmt.Errorf("get subscriptions: %w", err)
	}
	subs := make([]domain.Subscription, 0, len(rows))
	for i := range rows {
		subs = append(subs, *rows[i].toDomain())
	}
	return subs, nil
}

// DeleteSubscription removes the user's subscription. When it was the last subscription of the feed,
// the feed is deleted together with its items and read states in the same transaction.
func (r *SubscriptionRepository) DeleteSubscription(ctx context.Context, userID string, subscriptionID int64) error {
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var feedID int64
		err := tx.GetContext(ctx, &feedID, `SELECT feed_id FROM subscriptions WHERE id = ? AND user_id = ?`,
			subscriptionID, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get subscription: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, subscriptionID); err != nil {
			return fmt.Errorf("delete subscription: %w", err)
		}

		// read states of this user for the feed are meaningless now
		if _, err := tx.ExecContext(ctx, `DELETE FROM read_states WHERE user_id = ?
			AND item_id IN (SELECT id FROM items WHERE feed_id = ?)`, userID, feedID); err != nil {
			return fmt.Errorf("delete read states: %w", err)
		}

		var remaining int
		if err := tx.GetContext(ctx, &remaining, `SELECT COUNT(*) FROM subscriptions WHERE feed_id = ?`, feedID); err != nil {
			return fmt.Errorf("count subscriptions: %w", err)
		}
		if remaining > 0 {
			return nil
		}

		// last subscriber gone, items and read states cascade
		if _, err := tx.ExecContext(ctx, `DELETE FROM feeds WHERE id = ?`, feedID); err != nil {
			return fmt.Errorf("delete feed %d: %w", feedID, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("unsubscribe %s from %d: %w", userID, subscriptionID, err)
	}
	return nil
}

const subscriptionQuery = `
	SELECT s.id, s.user_id, s.feed_id, f.url AS feed_url, s.category_id, s.title, s.created_at
	FROM subscriptions s
	JOIN feeds f ON f.id = s.feed_id`

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func (s *subscriptionSQL) toDomain() *domain.Subscription {
	res := &domain.Subscription{
		ID:        s.ID,
		UserID:    s.UserID,
		FeedID:    s.FeedID,
		FeedURL:   s.FeedURL,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
	}
	if s.CategoryID.Valid {
		id := s.CategoryID.Int64
		res.CategoryID = &id
	}
	return res
}
