// Package syncer runs fetch, parse, dedup and persist passes for a single feed.
// Passes for the same feed never overlap, passes for different feeds share nothing.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/singleflight"

	"github.com/umputun/feedsync/pkg/domain"
	"github.com/umputun/feedsync/pkg/feed"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/parser.go -pkg mocks -skip-ensure -fmt goimports . Parser

// DefaultMinInterval is the minimal time between non-forced syncs of a feed
const DefaultMinInterval = 15 * time.Minute

// Store is the persistence the synchronizer needs
type Store interface {
	GetFeed(ctx context.Context, id int64) (*domain.Feed, error)
	RecordFailure(ctx context.Context, feedID int64, failure domain.SyncFailure) error
	CommitSync(ctx context.Context, commit domain.SyncCommit) (int, error)
}

// Fetcher retrieves raw feed documents
type Fetcher interface {
	Fetch(ctx context.Context, req feed.FetchRequest) (*feed.FetchResult, error)
}

// Parser converts raw documents to entries
type Parser interface {
	Parse(raw []byte) (*domain.ParsedFeed, error)
}

// Params configures Synchronizer
type Params struct {
	Store       Store
	Fetcher     Fetcher
	Parser      Parser
	MinInterval time.Duration // 0 means DefaultMinInterval
	Logger      lgr.L         // nil means lgr.Default()
}

// Synchronizer syncs one feed at a time per feed id
type Synchronizer struct {
	store       Store
	fetcher     Fetcher
	parser      Parser
	minInterval time.Duration
	log         lgr.L
	now         func() time.Time

	inflight singleflight.Group
	mu       sync.Mutex
	passes   map[string]*pass
}

// pass holds the context of an in-flight sync, cancelled once no caller waits for it
type pass struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// New makes a Synchronizer
func New(params Params) *Synchronizer {
	if params.MinInterval <= 0 {
		params.MinInterval = DefaultMinInterval
	}
	if params.Logger == nil {
		params.Logger = lgr.Default()
	}
	return &Synchronizer{
		store:       params.Store,
		fetcher:     params.Fetcher,
		parser:      params.Parser,
		minInterval: params.MinInterval,
		log:         params.Logger,
		now:         time.Now,
		passes:      make(map[string]*pass),
	}
}

// Sync runs a sync pass for the feed. Without force the pass is skipped if the feed was synced
// within the minimal interval, and cached etag/last-modified are sent with the request.
//
// A call made while a pass for the same feed is in flight joins it and gets its result.
// A caller whose context ends returns the context error. The pass runs detached from
// caller cancellation and is cancelled only when every caller waiting for it is gone.
//
// Fetch and parse failures are recorded on the feed and returned as *domain.SyncError.
func (s *Synchronizer) Sync(ctx context.Context, feedID int64, force bool) (*domain.SyncResult, error) {
	res, err := s.await(ctx, feedID, force)
	if err != nil && ctx.Err() == nil && isCancellation(err) {
		// joined a pass abandoned by its callers right before, run a fresh one
		s.log.Logf("[DEBUG] feed %d, in-flight sync cancelled by other callers, retry", feedID)
		res, err = s.await(ctx, feedID, force)
	}
	return res, err
}

func (s *Synchronizer) await(ctx context.Context, feedID int64, force bool) (*domain.SyncResult, error) {
	key := strconv.FormatInt(feedID, 10)
	p := s.enter(ctx, key)
	defer s.leave(key, p)

	ch := s.inflight.DoChan(key, func() (any, error) {
		return s.sync(p.ctx, feedID, force)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.log.Logf("[DEBUG] feed %d, joined in-flight sync", feedID)
		}
		result := *res.Val.(*domain.SyncResult) // copy, the value is shared between joined callers
		return &result, nil
	}
}

// enter registers the caller as a waiter of the feed's pass, making the pass context if needed
func (s *Synchronizer) enter(ctx context.Context, key string) *pass {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.passes[key]
	if !ok {
		pctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		p = &pass{ctx: pctx, cancel: cancel}
		s.passes[key] = p
	}
	p.waiters++
	return p
}

// leave drops the caller from the pass waiters, the last one cancels the pass context
func (s *Synchronizer) leave(key string, p *pass) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.waiters--
	if p.waiters > 0 {
		return
	}
	p.cancel()
	if s.passes[key] == p {
		delete(s.passes, key)
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (s *Synchronizer) sync(ctx context.Context, feedID int64, force bool) (*domain.SyncResult, error) {
	f, err := s.store.GetFeed(ctx, feedID)
	if err != nil {
		return nil, fmt.Errorf("load feed %d: %w", feedID, err)
	}

	if !force && f.LastSynced != nil && s.now().Sub(*f.LastSynced) < s.minInterval {
		s.log.Logf("[DEBUG] feed %d synced at %s, skip", feedID, f.LastSynced.Format(time.RFC3339))
		return &domain.SyncResult{FeedID: feedID, Skipped: true, SyncedAt: *f.LastSynced}, nil
	}

	req := feed.FetchRequest{URL: f.URL}
	if !force {
		req.ETag, req.LastModified = f.ETag, f.LastModified
	}

	fetchedAt := s.now().UTC()
	fetched, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			// all callers gone, not a feed failure
			return nil, fmt.Errorf("fetch feed %d: %w", feedID, ctx.Err())
		}
		return nil, s.fail(ctx, f, domain.FailureFetch, domain.ErrFetchFailed, err)
	}

	commit := domain.SyncCommit{FeedID: feedID, ETag: fetched.ETag, LastModified: fetched.LastModified, SyncedAt: fetchedAt}
	result := &domain.SyncResult{FeedID: feedID, NotModified: fetched.NotModified, SyncedAt: fetchedAt}

	if !fetched.NotModified {
		parsed, err := s.parser.Parse(fetched.Body)
		if err != nil {
			return nil, s.fail(ctx, f, domain.FailureParse, domain.ErrMalformedDocument, err)
		}
		commit.Title = parsed.Title
		commit.Items, result.Entries = s.newItems(feedID, parsed)
	}

	inserted, err := s.store.CommitSync(ctx, commit)
	if err != nil {
		return nil, fmt.Errorf("commit feed %d: %w", feedID, err)
	}
	result.NewItems = inserted

	switch {
	case result.NotModified:
		s.log.Logf("[DEBUG] feed %d (%s) not modified", feedID, f.URL)
	case inserted > 0:
		s.log.Logf("[INFO] feed %d (%s), %d new of %d entries", feedID, f.URL, inserted, result.Entries)
	default:
		s.log.Logf("[DEBUG] feed %d (%s), no new entries of %d", feedID, f.URL, result.Entries)
	}
	return result, nil
}

// newItems converts parsed entries to items, collapsing entries with the same dedup key.
// The first entry with a key wins. Returns items and the number of entries in the document.
func (s *Synchronizer) newItems(feedID int64, parsed *domain.ParsedFeed) (items []domain.Item, entries int) {
	seen := make(map[string]bool)
	for e := range parsed.Entries {
		entries++
		key := feed.KeyFor(feedID, e)
		if seen[key.Value] {
			continue
		}
		seen[key.Value] = true
		items = append(items, domain.Item{
			FeedID:      feedID,
			DedupKey:    key.Value,
			Title:       e.Title,
			Link:        e.Link,
			Content:     e.Content,
			Published:   e.Published,
			Undated:     e.Undated,
			ContentHash: feed.ContentHash(e),
		})
	}
	if dups := entries - len(items); dups > 0 {
		s.log.Logf("[DEBUG] feed %d, %d duplicate entries in document", feedID, dups)
	}
	return items, entries
}

// fail records the failure on the feed and returns it as a sync error.
// Recording errors are logged only.
func (s *Synchronizer) fail(ctx context.Context, f *domain.Feed, kind domain.FailureKind, kindErr, err error) error {
	s.log.Logf("[WARN] feed %d (%s), %s failure #%d: %v", f.ID, f.URL, kind, f.FailureCount+1, err)
	failure := domain.SyncFailure{Kind: kind, Message: err.Error(), At: s.now().UTC()}
	if rerr := s.store.RecordFailure(ctx, f.ID, failure); rerr != nil {
		s.log.Logf("[ERROR] can't record failure for feed %d: %v", f.ID, rerr)
	}
	return &domain.SyncError{FeedID: f.ID, Kind: kindErr, Err: err}
}

// IsSyncFailure reports whether err is a recorded fetch or parse failure, as opposed to
// storage, cancellation or unknown feed errors
func IsSyncFailure(err error) bool {
	var se *domain.SyncError
	return errors.As(err, &se)
}
