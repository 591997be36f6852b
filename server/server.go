package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/feedsync/pkg/domain"
)

//go:generate moq -out mocks/registry.go -pkg mocks -skip-ensure -fmt goimports . Registry
//go:generate moq -out mocks/importer.go -pkg mocks -skip-ensure -fmt goimports . Importer
//go:generate moq -out mocks/trigger.go -pkg mocks -skip-ensure -fmt goimports . Trigger

// limits for request bodies
const (
	defaultBodyLimit   = 1024 * 1024      // 1MB
	defaultImportLimit = 32 * 1024 * 1024 // 32MB, takeout zip archives
)

// Server represents HTTP server instance
type Server struct {
	registry Registry
	importer Importer
	trigger  Trigger
	cfg      Config
	log      lgr.L

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Registry manages users' subscriptions, categories and read state
type Registry interface {
	Subscribe(ctx context.Context, req domain.SubscribeRequest) (*domain.Subscription, error)
	Unsubscribe(ctx context.Context, userID string, subscriptionID int64) error
	Subscriptions(ctx context.Context, userID string) ([]domain.Subscription, error)
	UnreadItems(ctx context.Context, userID string, filter domain.ItemFilter) ([]domain.UserItem, error)
	MarkRead(ctx context.Context, userID string, itemID int64) error
	ResolveCategory(ctx context.Context, userID, name string) (*domain.Category, error)
	Categories(ctx context.Context, userID string) ([]domain.Category, error)
}

// Importer imports takeout subscription lists
type Importer interface {
	Import(ctx context.Context, userID string, archive []byte, defaultCategory string) (*domain.ImportReport, error)
}

// Trigger starts feed syncs on demand
type Trigger interface {
	SyncFeed(ctx context.Context, feedID int64, force bool) (*domain.SyncResult, error)
	RefreshUser(ctx context.Context, userID string) (domain.BatchReport, error)
}

// Config holds server parameters
type Config struct {
	Listen      string
	Timeout     time.Duration
	ImportLimit int64 // max size of an import request body
	Version     string
	Debug       bool
	Logger      lgr.L
}

// New initializes a new server instance
func New(registry Registry, importer Importer, trigger Trigger, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = lgr.Default()
	}
	if cfg.ImportLimit <= 0 {
		cfg.ImportLimit = defaultImportLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	s := &Server{
		registry: registry,
		importer: importer,
		trigger:  trigger,
		cfg:      cfg,
		log:      cfg.Logger,
		router:   routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	s.log.Logf("[INFO] starting server on %s", s.cfg.Listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.Timeout,
		WriteTimeout:      s.cfg.Timeout,
	}
	httpServer := s.httpServer
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		s.log.Logf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Logf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("feedsync", "umputun", s.cfg.Version))
	s.router.Use(rest.Ping)

	if s.cfg.Debug {
		s.router.Use(logger.New(logger.Log(s.log), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(s.log))
	s.router.Use(rest.Throttle(100))
}

func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.With(rest.SizeLimit(s.cfg.ImportLimit)).HandleFunc("POST /users/{user}/import", s.importHandler)

		r.Group().Route(func(g *routegroup.Bundle) {
			g.Use(rest.SizeLimit(defaultBodyLimit))
			g.HandleFunc("GET /status", s.statusHandler)

			g.HandleFunc("POST /users/{user}/subscriptions", s.subscribeHandler)
			g.HandleFunc("GET /users/{user}/subscriptions", s.subscriptionsHandler)
			g.HandleFunc("DELETE /users/{user}/subscriptions/{id}", s.unsubscribeHandler)
			g.HandleFunc("GET /users/{user}/categories", s.categoriesHandler)
			g.HandleFunc("GET /users/{user}/items", s.itemsHandler)
			g.HandleFunc("POST /users/{user}/items/{id}/read", s.markReadHandler)

			g.HandleFunc("POST /feeds/{id}/sync", s.syncFeedHandler)
		})
	})
}

// renderJSON sends JSON response
func (s *Server) renderJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Logf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError maps domain errors to http codes and sends error response as JSON
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	rest.SendErrorJSON(w, r, s.log, errorStatus(err), err, msg)
}

// errorStatus maps domain errors to http status codes, unknown errors are 500
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidURL), errors.Is(err, domain.ErrMalformedDocument), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCategoryNotOwned), errors.Is(err, domain.ErrNotSubscribed):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
