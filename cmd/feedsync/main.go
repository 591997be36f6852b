package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/feedsync/pkg/config"
	"github.com/umputun/feedsync/pkg/domain"
	"github.com/umputun/feedsync/pkg/feed"
	"github.com/umputun/feedsync/pkg/registry"
	"github.com/umputun/feedsync/pkg/repository"
	"github.com/umputun/feedsync/pkg/scheduler"
	"github.com/umputun/feedsync/pkg/service"
	"github.com/umputun/feedsync/pkg/syncer"
	"github.com/umputun/feedsync/pkg/takeout"
	"github.com/umputun/feedsync/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"configuration file, defaults are used if not set"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`
	DB     string `long:"db" env:"DB" description:"database dsn, overrides config"`

	Import struct {
		File     string `long:"file" env:"FILE" description:"takeout archive to import and exit"`
		User     string `long:"user" env:"USER" description:"user to import subscriptions for"`
		Category string `long:"category" env:"CATEGORY" description:"category for subscriptions outside folders"`
	} `group:"import" namespace:"import" env-namespace:"IMPORT"`

	SyncAll bool `long:"sync-all" description:"sync all subscribed feeds once and exit"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)
	log.Printf("[INFO] starting feedsync version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	log.Print("[INFO] shutdown complete")
}

// app holds wired components
type app struct {
	repos     *repository.Repositories
	registry  *registry.Registry
	importer  *takeout.Importer
	scheduler *scheduler.Scheduler
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.DB != "" {
		cfg.Database.DSN = opts.DB
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	switch {
	case opts.Import.File != "":
		return a.importFile(ctx, opts.Import.File, opts.Import.User, opts.Import.Category)
	case opts.SyncAll:
		_, err := a.scheduler.SyncAll(ctx)
		return err
	}

	if cfg.Schedule.Enabled {
		a.scheduler.Start(ctx)
		defer a.scheduler.Stop()
	}

	srv := server.New(a.registry, a.importer, a.scheduler, server.Config{
		Listen:      cfg.Server.Listen,
		Timeout:     cfg.Server.Timeout,
		ImportLimit: cfg.Server.ImportLimit,
		Version:     revision,
		Debug:       opts.Debug,
		Logger:      lgr.Default(),
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// newApp opens the database and wires the engine components
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	store := service.NewStore(repos)

	synchronizer := syncer.New(syncer.Params{
		Store: store,
		Fetcher: feed.NewHTTPFetcher(feed.FetcherParams{
			Timeout:     cfg.Sync.FetchTimeout,
			UserAgent:   cfg.Sync.UserAgent,
			MaxBodySize: cfg.Sync.MaxBodySize,
		}),
		Parser:      feed.NewParser(),
		MinInterval: cfg.Sync.MinInterval,
		Logger:      lgr.Default(),
	})

	reg := registry.New(store, lgr.Default())
	return &app{
		repos:    repos,
		registry: reg,
		importer: takeout.NewImporter(reg, lgr.Default()),
		scheduler: scheduler.NewScheduler(synchronizer, store, scheduler.Config{
			Interval:    cfg.Schedule.Interval,
			MaxWorkers:  cfg.Schedule.MaxWorkers,
			BackoffBase: cfg.Schedule.BackoffBase,
			BackoffMax:  cfg.Schedule.BackoffMax,
			Logger:      lgr.Default(),
		}),
	}, nil
}

// importFile imports a takeout archive for the user and syncs the user's feeds
func (a *app) importFile(ctx context.Context, path, user, category string) error {
	if user == "" {
		return errors.New("import requires --import.user")
	}
	archive, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return fmt.Errorf("failed to read takeout archive: %w", err)
	}
	report, err := a.importer.Import(ctx, user, archive, category)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}
	for _, e := range report.Entries {
		if e.Status == domain.ImportFailed {
			log.Printf("[WARN] %s (%s): %s", e.Title, e.URL, e.Error)
		}
	}
	log.Printf("[INFO] imported %s for %s: created %d, already subscribed %d, no url %d, failed %d",
		path, user, report.Created, report.AlreadySubscribed, report.SkippedNoURL, report.Failed)

	batch, err := a.scheduler.RefreshUser(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to sync imported feeds: %w", err)
	}
	log.Printf("[INFO] synced %d of %d feeds, %d new items", batch.Synced, batch.Feeds, batch.NewItems)
	return nil
}

func setupLog(dbg, noColor bool) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
