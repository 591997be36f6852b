package repository

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

// DefaultDSN is used when no DSN configured
const DefaultDSN = "file:feedsync.db?mode=rwc&_txlock=immediate"

// connPragmas are applied to every pooled connection through the DSN
var connPragmas = []string{"busy_timeout(5000)", "foreign_keys(1)"}

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Repositories contains all repository instances
type Repositories struct {
	Feed         *FeedRepository
	Subscription *SubscriptionRepository
	Category     *CategoryRepository
	Item         *ItemRepository
	DB           *sqlx.DB
}

// NewRepositories creates all repositories with a shared database connection
func NewRepositories(ctx context.Context, cfg Config) (*Repositories, error) {
	if cfg.DSN == "" {
		cfg.DSN = DefaultDSN
	}

	db, err := sqlx.Open("sqlite", withPragmas(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// database-wide settings, persisted in the file
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repositories{
		Feed:         NewFeedRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Category:     NewCategoryRepository(db),
		Item:         NewItemRepository(db),
		DB:           db,
	}, nil
}

// Close closes the database connection
func (r *Repositories) Close() error {
	return r.DB.Close()
}

// Ping verifies the database connection
func (r *Repositories) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

// withPragmas adds per-connection pragmas to the DSN unless the caller set its own
func withPragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	params := make([]string, 0, len(connPragmas))
	for _, p := range connPragmas {
		params = append(params, "_pragma="+p)
	}
	return dsn + sep + strings.Join(params, "&")
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sqlx.DB) error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	return nil
}

// feedColumns added after the initial schema, applied to databases created before them
var feedColumns = []struct {
	name string
	ddl  string
}{
	{name: "failure_kind", ddl: `ALTER TABLE feeds ADD COLUMN failure_kind TEXT NOT NULL DEFAULT ''`},
	{name: "last_attempt", ddl: `ALTER TABLE feeds ADD COLUMN last_attempt DATETIME`},
}

// runMigrations brings an existing database to the current schema
func runMigrations(ctx context.Context, db *sqlx.DB) error {
	for _, col := range feedColumns {
		var count int
		err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM pragma_table_info('feeds') WHERE name = ?`, col.name)
		if err != nil {
			return fmt.Errorf("check %s column: %w", col.name, err)
		}
		if count > 0 {
			continue
		}
		if _, err := db.ExecContext(ctx, col.ddl); err != nil {
			return fmt.Errorf("add %s column: %w", col.name, err)
		}
	}
	return nil
}
