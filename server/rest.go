package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/rest"

	"github.com/umputun/feedsync/pkg/domain"
)

var errBadRequest = errors.New("bad request")

// subscribeRequest is the body of the subscribe call, category is a category name
type subscribeRequest struct {
	URL      string `json:"url"`
	Category string `json:"category"`
	Title    string `json:"title"`
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, _ *http.Request) {
	s.renderJSON(w, http.StatusOK, rest.JSON{
		"status":  "ok",
		"version": s.cfg.Version,
		"time":    time.Now().UTC(),
	})
}

// subscribeHandler subscribes the user to a feed, 201 for a new subscription, 200 if it already exists
func (s *Server) subscribeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := r.PathValue("user")

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.renderError(w, r, fmt.Errorf("%w: %w", errBadRequest, err), "invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.renderError(w, r, fmt.Errorf("%w: empty url", errBadRequest), "feed url is required")
		return
	}

	sr := domain.SubscribeRequest{UserID: user, URL: req.URL, Title: req.Title}
	if strings.TrimSpace(req.Category) != "" {
		cat, err := s.registry.ResolveCategory(ctx, user, req.Category)
		if err != nil {
			s.renderError(w, r, err, "can't resolve category")
			return
		}
		sr.CategoryID = cat.ID
	}

	sub, err := s.registry.Subscribe(ctx, sr)
	if errors.Is(err, domain.ErrAlreadySubscribed) {
		s.renderJSON(w, http.StatusOK, rest.JSON{"status": "already subscribed", "url": req.URL})
		return
	}
	if err != nil {
		s.renderError(w, r, err, "can't subscribe")
		return
	}
	s.renderJSON(w, http.StatusCreated, sub)
}

// subscriptionsHandler lists the user's subscriptions
func (s *Server) subscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	subs, err := s.registry.Subscriptions(r.Context(), r.PathValue("user"))
	if err != nil {
		s.renderError(w, r, err, "can't get subscriptions")
		return
	}
	if subs == nil {
		subs = []domain.Subscription{}
	}
	s.renderJSON(w, http.StatusOK, subs)
}

// unsubscribeHandler removes the user's subscription
func (s *Server) unsubscribeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err, "invalid subscription id")
		return
	}
	if err := s.registry.Unsubscribe(r.Context(), r.PathValue("user"), id); err != nil {
		s.renderError(w, r, err, "can't unsubscribe")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// categoriesHandler lists the user's categories
func (s *Server) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	cats, err := s.registry.Categories(r.Context(), r.PathValue("user"))
	if err != nil {
		s.renderError(w, r, err, "can't get categories")
		return
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	s.renderJSON(w, http.StatusOK, cats)
}

// itemsHandler returns the user's unread items. With refresh=true the user's feeds are
// synced first, the way a page load does, sync failures don't fail the request.
func (s *Server) itemsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := r.PathValue("user")
	q := r.URL.Query()

	var filter domain.ItemFilter
	var err error
	if filter.CategoryID, err = queryInt(q.Get("category")); err != nil {
		s.renderError(w, r, err, "invalid category")
		return
	}
	if filter.FeedID, err = queryInt(q.Get("feed")); err != nil {
		s.renderError(w, r, err, "invalid feed")
		return
	}
	limit, err := queryInt(q.Get("limit"))
	if err != nil {
		s.renderError(w, r, err, "invalid limit")
		return
	}
	filter.Limit = int(limit)

	if refresh, _ := strconv.ParseBool(q.Get("refresh")); refresh {
		report, err := s.trigger.RefreshUser(ctx, user)
		if err != nil {
			s.log.Logf("[WARN] refresh for %s: %v", user, err)
		} else if report.Failed > 0 {
			s.log.Logf("[DEBUG] refresh for %s, %d feeds failed", user, report.Failed)
		}
	}

	items, err := s.registry.UnreadItems(ctx, user, filter)
	if err != nil {
		s.renderError(w, r, err, "can't get items")
		return
	}
	if items == nil {
		items = []domain.UserItem{}
	}
	s.renderJSON(w, http.StatusOK, items)
}

// markReadHandler marks the item read for the user
func (s *Server) markReadHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err, "invalid item id")
		return
	}
	if err := s.registry.MarkRead(r.Context(), r.PathValue("user"), id); err != nil {
		s.renderError(w, r, err, "can't mark item read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// importHandler imports a takeout archive sent as the request body
func (s *Server) importHandler(w http.ResponseWriter, r *http.Request) {
	archive, err := io.ReadAll(r.Body)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("%w: %w", errBadRequest, err), "can't read archive")
		return
	}
	if len(archive) == 0 {
		s.renderError(w, r, fmt.Errorf("%w: empty body", errBadRequest), "archive is required")
		return
	}

	user := r.PathValue("user")
	report, err := s.importer.Import(r.Context(), user, archive, r.URL.Query().Get("category"))
	if err != nil && report != nil {
		// aborted midway, entries in the report are already committed
		s.log.Logf("[WARN] import for %s aborted after %d entries: %v", user, len(report.Entries), err)
		s.renderJSON(w, errorStatus(err), rest.JSON{"error": "import failed", "details": err.Error(), "report": report})
		return
	}
	if err != nil {
		s.renderError(w, r, err, "import failed")
		return
	}
	s.renderJSON(w, http.StatusOK, report)
}

// syncFeedHandler syncs one feed now, fetch and parse failures are reported as 502
func (s *Server) syncFeedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err, "invalid feed id")
		return
	}
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	res, err := s.trigger.SyncFeed(r.Context(), id, force)
	var syncErr *domain.SyncError
	if errors.As(err, &syncErr) {
		s.renderJSON(w, http.StatusBadGateway, rest.JSON{"error": syncErr.Kind.Error(), "details": syncErr.Error()})
		return
	}
	if err != nil {
		s.renderError(w, r, err, "sync failed")
		return
	}
	s.renderJSON(w, http.StatusOK, res)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", errBadRequest, r.PathValue("id"))
	}
	return id, nil
}

// queryInt parses an optional non-negative query parameter, empty means zero
func queryInt(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q is not a valid number", errBadRequest, v)
	}
	return n, nil
}
