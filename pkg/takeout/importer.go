// Package takeout imports subscription lists exported from other readers (Google Reader takeout, OPML).
package takeout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedsync/pkg/domain"
)

//go:generate moq -out mocks/registrar.go -pkg mocks -skip-ensure -fmt goimports . Registrar

// Registrar creates subscriptions and categories
type Registrar interface {
	Subscribe(ctx context.Context, req domain.SubscribeRequest) (*domain.Subscription, error)
	ResolveCategory(ctx context.Context, userID, name string) (*domain.Category, error)
}

// Importer registers all subscriptions of a takeout archive for a user
type Importer struct {
	reg Registrar
	log lgr.L
}

// NewImporter makes an Importer, nil logger means lgr.Default()
func NewImporter(reg Registrar, logger lgr.L) *Importer {
	if logger == nil {
		logger = lgr.Default()
	}
	return &Importer{reg: reg, log: logger}
}

// Import subscribes the user to every feed in the archive. Entries without a url are skipped,
// invalid urls fail the entry only, and existing subscriptions count as success.
// Entries without a category go to defaultCategory, blank defaultCategory means uncategorized.
// Storage errors abort the import and are returned with the report of entries processed so far.
func (im *Importer) Import(ctx context.Context, userID string, archive []byte, defaultCategory string) (*domain.ImportReport, error) {
	entries, err := ParseSubscriptions(archive)
	if err != nil {
		return nil, err
	}

	defaultCategory = strings.TrimSpace(defaultCategory)
	report := &domain.ImportReport{Entries: make([]domain.ImportEntry, 0, len(entries))}
	categories := map[string]int64{} // name to id, resolved once per import
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("import interrupted: %w", err)
		}

		res := domain.ImportEntry{Title: e.Title, URL: e.URL, Category: strings.TrimSpace(e.Category)}
		if res.Category == "" {
			res.Category = defaultCategory
		}

		if e.URL == "" {
			im.log.Logf("[INFO] import for %s, feed %q without url, skipped", userID, e.Title)
			res.Status = domain.ImportSkippedNoURL
			report.Add(res)
			continue
		}

		catID, err := im.category(ctx, userID, res.Category, categories)
		if err != nil {
			return report, err
		}

		_, err = im.reg.Subscribe(ctx, domain.SubscribeRequest{UserID: userID, URL: e.URL, CategoryID: catID, Title: e.Title})
		switch {
		case err == nil:
			res.Status = domain.ImportCreated
		case errors.Is(err, domain.ErrAlreadySubscribed):
			res.Status = domain.ImportAlreadySubscribed
		case errors.Is(err, domain.ErrInvalidURL):
			im.log.Logf("[WARN] import for %s, bad url %q: %v", userID, e.URL, err)
			res.Status, res.Error = domain.ImportFailed, err.Error()
		default:
			return report, fmt.Errorf("subscribe %s: %w", e.URL, err)
		}
		report.Add(res)
	}

	im.log.Logf("[INFO] import for %s done, created %d, already subscribed %d, skipped %d, failed %d",
		userID, report.Created, report.AlreadySubscribed, report.SkippedNoURL, report.Failed)
	return report, nil
}

func (im *Importer) category(ctx context.Context, userID, name string, cache map[string]int64) (int64, error) {
	if name == "" {
		return 0, nil
	}
	if id, ok := cache[name]; ok {
		return id, nil
	}
	cat, err := im.reg.ResolveCategory(ctx, userID, name)
	if err != nil {
		return 0, fmt.Errorf("resolve category %q: %w", name, err)
	}
	cache[name] = cat.ID
	return cat.ID, nil
}
