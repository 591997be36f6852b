// Package registry manages per-user subscriptions to shared feeds, user categories and read state.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedsync/pkg/domain"
	"github.com/umputun/feedsync/pkg/feed"
)

// Store is the persistence the registry needs
type Store interface {
	CreateSubscription(ctx context.Context, userID, feedURL string, categoryID int64, title string) (*domain.Subscription, error)
	GetSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error)
	DeleteSubscription(ctx context.Context, userID string, subscriptionID int64) error
	ResolveCategory(ctx context.Context, userID, name string) (*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	GetCategories(ctx context.Context, userID string) ([]domain.Category, error)
	GetUnreadItems(ctx context.Context, userID string, filter domain.ItemFilter) ([]domain.UserItem, error)
	MarkRead(ctx context.Context, userID string, itemID int64) error
}

// Registry maps users to feeds. Feeds are shared by url, everything else is per user.
type Registry struct {
	store Store
	log   lgr.L
}

// New makes a Registry, nil logger means lgr.Default()
func New(store Store, logger lgr.L) *Registry {
	if logger == nil {
		logger = lgr.Default()
	}
	return &Registry{store: store, log: logger}
}

// Subscribe links the user to the feed at the url, creating the feed if nobody subscribed to it yet.
// A new feed is never synced, so the next trigger performs its initial sync.
// Returns domain.ErrAlreadySubscribed if the user already has the feed.
func (r *Registry) Subscribe(ctx context.Context, req domain.SubscribeRequest) (*domain.Subscription, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, errors.New("empty user id")
	}
	url, err := feed.CanonicalURL(req.URL)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != 0 {
		cat, err := r.store.GetCategory(ctx, req.CategoryID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("category %d: %w", req.CategoryID, domain.ErrCategoryNotOwned)
			}
			return nil, err
		}
		if cat.UserID != req.UserID {
			return nil, fmt.Errorf("category %d: %w", req.CategoryID, domain.ErrCategoryNotOwned)
		}
	}

	sub, err := r.store.CreateSubscription(ctx, req.UserID, url, req.CategoryID, strings.TrimSpace(req.Title))
	if err != nil {
		return nil, err
	}
	r.log.Logf("[INFO] user %s subscribed to %s, feed %d", req.UserID, url, sub.FeedID)
	return sub, nil
}

// Unsubscribe removes the user's subscription, the feed goes away with its last subscriber
func (r *Registry) Unsubscribe(ctx context.Context, userID string, subscriptionID int64) error {
	if err := r.store.DeleteSubscription(ctx, userID, subscriptionID); err != nil {
		return err
	}
	r.log.Logf("[INFO] user %s unsubscribed, subscription %d", userID, subscriptionID)
	return nil
}

// Subscriptions returns the user's subscriptions
func (r *Registry) Subscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	return r.store.GetSubscriptions(ctx, userID)
}

// UnreadItems returns items of the user's feeds not marked read by the user, newest first
func (r *Registry) UnreadItems(ctx context.Context, userID string, filter domain.ItemFilter) ([]domain.UserItem, error) {
	return r.store.GetUnreadItems(ctx, userID, filter)
}

// MarkRead marks the item read for the user. Repeated calls are no-ops.
// Returns domain.ErrNotSubscribed if the item's feed is not one of the user's.
func (r *Registry) MarkRead(ctx context.Context, userID string, itemID int64) error {
	return r.store.MarkRead(ctx, userID, itemID)
}

// ResolveCategory returns the user's category by name, creating it on first use
func (r *Registry) ResolveCategory(ctx context.Context, userID, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("empty category name")
	}
	return r.store.ResolveCategory(ctx, userID, name)
}

// Categories returns the user's categories
func (r *Registry) Categories(ctx context.Context, userID string) ([]domain.Category, error) {
	return r.store.GetCategories(ctx, userID)
}
