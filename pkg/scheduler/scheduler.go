// Package scheduler decides when feeds are synced: periodically, on a user's page load or on demand.
// It only ever calls Sync, the synchronizer owns everything else.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/feedsync/pkg/domain"
)

//go:generate moq -out mocks/syncer.go -pkg mocks -skip-ensure -fmt goimports . Syncer
//go:generate moq -out mocks/feed_lister.go -pkg mocks -skip-ensure -fmt goimports . FeedLister

// Syncer runs a sync pass for one feed
type Syncer interface {
	Sync(ctx context.Context, feedID int64, force bool) (*domain.SyncResult, error)
}

// FeedLister lists feeds to sync
type FeedLister interface {
	GetSubscribedFeeds(ctx context.Context) ([]domain.Feed, error)
	GetUserFeeds(ctx context.Context, userID string) ([]domain.Feed, error)
}

// DefaultBackoffMax caps the failure backoff when only the base is set
const DefaultBackoffMax = 24 * time.Hour

// Config holds scheduler configuration
type Config struct {
	Interval    time.Duration // periodic job interval
	MaxWorkers  int           // concurrent syncs in a batch
	BackoffBase time.Duration // delay after the first failure, 0 disables backoff
	BackoffMax  time.Duration // delay cap
	Logger      lgr.L
}

// Scheduler triggers feed syncs
type Scheduler struct {
	syncer     Syncer
	feeds      FeedLister
	interval   time.Duration
	maxWorkers int
	backoff    Backoff
	log        lgr.L
	now        func() time.Time

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewScheduler creates a new scheduler instance
func NewScheduler(syncer Syncer, feeds FeedLister, cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 5
	}
	if cfg.BackoffBase > 0 && cfg.BackoffMax <= 0 {
		cfg.BackoffMax = DefaultBackoffMax
	}
	if cfg.Logger == nil {
		cfg.Logger = lgr.Default()
	}
	return &Scheduler{
		syncer:     syncer,
		feeds:      feeds,
		interval:   cfg.Interval,
		maxWorkers: cfg.MaxWorkers,
		backoff:    Backoff{Base: cfg.BackoffBase, Max: cfg.BackoffMax},
		log:        cfg.Logger,
		now:        time.Now,
	}
}

// SyncFeed syncs a single feed right away, backoff is not applied
func (s *Scheduler) SyncFeed(ctx context.Context, feedID int64, force bool) (*domain.SyncResult, error) {
	return s.syncer.Sync(ctx, feedID, force)
}

// RefreshUser syncs all feeds of the user without force, the way a page load does.
// Recently synced feeds are skipped by the synchronizer, failing feeds by the backoff.
func (s *Scheduler) RefreshUser(ctx context.Context, userID string) (domain.BatchReport, error) {
	feeds, err := s.feeds.GetUserFeeds(ctx, userID)
	if err != nil {
		return domain.BatchReport{}, err
	}
	report := s.syncBatch(ctx, feeds)
	s.log.Logf("[DEBUG] refresh for %s, %+v", userID, report)
	return report, ctx.Err()
}

// SyncAll syncs all subscribed feeds without force
func (s *Scheduler) SyncAll(ctx context.Context) (domain.BatchReport, error) {
	feeds, err := s.feeds.GetSubscribedFeeds(ctx)
	if err != nil {
		return domain.BatchReport{}, err
	}
	s.log.Logf("[INFO] updating %d feeds", len(feeds))
	report := s.syncBatch(ctx, feeds)
	s.log.Logf("[INFO] feed update completed, synced %d, skipped %d, failed %d, new items %d",
		report.Synced, report.Skipped, report.Failed, report.NewItems)
	return report, ctx.Err()
}

// Start begins the periodic job, the first run happens immediately
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.updateWorker(ctx)
	s.log.Logf("[INFO] scheduler started with update interval %v, %d workers", s.interval, s.maxWorkers)
}

// Stop gracefully stops the scheduler, waiting for the running batch to finish
func (s *Scheduler) Stop() {
	s.log.Logf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.log.Logf("[INFO] scheduler stopped")
}

func (s *Scheduler) updateWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.SyncAll(ctx); err != nil && ctx.Err() == nil {
			s.log.Logf("[ERROR] failed to update feeds: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// syncBatch syncs feeds concurrently. A failing feed never stops the others.
func (s *Scheduler) syncBatch(ctx context.Context, feeds []domain.Feed) domain.BatchReport {
	report := domain.BatchReport{Feeds: len(feeds)}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.maxWorkers)
	now := s.now()
	for _, f := range feeds {
		if !s.backoff.Due(f, now) {
			s.log.Logf("[DEBUG] feed %d backing off after %d failures", f.ID, f.FailureCount)
			mu.Lock()
			report.Skipped++
			mu.Unlock()
			continue
		}
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := s.syncer.Sync(ctx, f.ID, false)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				if ctx.Err() == nil {
					s.log.Logf("[WARN] sync feed %d (%s): %v", f.ID, f.URL, err)
				}
				report.Failed++
			case res.Skipped:
				report.Skipped++
			default:
				report.Synced++
				report.NewItems += res.NewItems
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
	return report
}

// Backoff delays syncs of failing feeds: after N consecutive failures the next attempt
// is due at last attempt + min(Base*2^(N-1), Max)
type Backoff struct {
	Base time.Duration
	Max  time.Duration
}

// Delay returns the wait after the given number of consecutive failures
func (b Backoff) Delay(failures int) time.Duration {
	if b.Base <= 0 || failures <= 0 {
		return 0
	}
	d := b.Base
	for i := 1; i < failures; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
		if d <= 0 { // overflow
			return b.Max
		}
	}
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}

// Due reports whether the feed may be synced at the given time
func (b Backoff) Due(f domain.Feed, now time.Time) bool {
	if f.FailureCount == 0 || f.LastAttempt == nil {
		return true
	}
	return !now.Before(f.LastAttempt.Add(b.Delay(f.FailureCount)))
}
