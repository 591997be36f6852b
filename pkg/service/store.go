package service

import (
	"context"

	"github.com/umputun/feedsync/pkg/domain"
	"github.com/umputun/feedsync/pkg/repository"
)

// Store provides unified access to repositories for the synchronizer, registry and scheduler
type Store struct {
	feedRepo         *repository.FeedRepository
	subscriptionRepo *repository.SubscriptionRepository
	categoryRepo     *repository.CategoryRepository
	itemRepo         *repository.ItemRepository
}

// NewStore creates a new store over the given repositories
func NewStore(repos *repository.Repositories) *Store {
	return &Store{
		feedRepo:         repos.Feed,
		subscriptionRepo: repos.Subscription,
		categoryRepo:     repos.Category,
		itemRepo:         repos.Item,
	}
}

// Feed methods

func (s *Store) GetFeed(ctx context.Context, id int64) (*domain.Feed, error) {
	return s.feedRepo.GetFeed(ctx, id)
}

func (s *Store) GetSubscribedFeeds(ctx context.Context) ([]domain.Feed, error) {
	return s.feedRepo.GetSubscribedFeeds(ctx)
}

func (s *Store) GetUserFeeds(ctx context.Context, userID string) ([]domain.Feed, error) {
	return s.feedRepo.GetUserFeeds(ctx, userID)
}

func (s *Store) CountFeeds(ctx context.Context) (int, error) {
	return s.feedRepo.CountFeeds(ctx)
}

func (s *Store) RecordFailure(ctx context.Context, feedID int64, failure domain.SyncFailure) error {
	return s.feedRepo.RecordFailure(ctx, feedID, failure)
}

func (s *Store) CommitSync(ctx context.Context, commit domain.SyncCommit) (int, error) {
	return s.feedRepo.CommitSync(ctx, commit)
}

// Subscription methods

func (s *Store) CreateSubscription(ctx context.Context, userID, feedURL string, categoryID int64, title string) (*domain.Subscription, error) {
	return s.subscriptionRepo.CreateSubscription(ctx, userID, feedURL, categoryID, title)
}

func (s *Store) GetSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	return s.subscriptionRepo.GetSubscriptions(ctx, userID)
}

func (s *Store) DeleteSubscription(ctx context.Context, userID string, subscriptionID int64) error {
	return s.subscriptionRepo.DeleteSubscription(ctx, userID, subscriptionID)
}

// Category methods

func (s *Store) ResolveCategory(ctx context.Context, userID, name string) (*domain.Category, error) {
	return s.categoryRepo.ResolveCategory(ctx, userID, name)
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categoryRepo.GetCategory(ctx, id)
}

func (s *Store) GetCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	return s.categoryRepo.GetCategories(ctx, userID)
}

// Item methods

func (s *Store) GetUnreadItems(ctx context.Context, userID string, filter domain.ItemFilter) ([]domain.UserItem, error) {
	return s.itemRepo.GetUnreadItems(ctx, userID, filter)
}

func (s *Store) MarkRead(ctx context.Context, userID string, itemID int64) error {
	return s.itemRepo.MarkRead(ctx, userID, itemID)
}
