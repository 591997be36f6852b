// Package config loads feedsync configuration from a YAML file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go ../../schema.json

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	Database DatabaseConfig `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Sync     SyncConfig     `yaml:"sync" json:"sync" jsonschema:"description=Feed synchronization"`
	Schedule ScheduleConfig `yaml:"schedule" json:"schedule" jsonschema:"description=Periodic sync job"`
}

// ServerConfig holds http server settings
type ServerConfig struct {
	Listen      string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	ImportLimit int64         `yaml:"import_limit" json:"import_limit" jsonschema:"default=33554432,description=Maximum takeout archive size in bytes"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn" json:"dsn" jsonschema:"default=file:feedsync.db?mode=rwc&_txlock=immediate,description=SQLite connection string"`
	MaxOpenConns    int           `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int           `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=1h,description=Connection maximum lifetime"`
}

// SyncConfig holds synchronizer and fetcher settings
type SyncConfig struct {
	MinInterval  time.Duration `yaml:"min_interval" json:"min_interval" jsonschema:"default=15m,description=Non-forced syncs of a feed synced more recently are skipped"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout" jsonschema:"default=30s,description=Feed download timeout"`
	MaxBodySize  int64         `yaml:"max_body_size" json:"max_body_size" jsonschema:"default=10485760,description=Maximum feed document size in bytes"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=feedsync/1.0,description=User agent for feed requests"`
}

// ScheduleConfig holds periodic job settings
type ScheduleConfig struct {
	Enabled     bool          `yaml:"enabled" json:"enabled" jsonschema:"default=true,description=Run the periodic sync job"`
	Interval    time.Duration `yaml:"interval" json:"interval" jsonschema:"default=30m,description=Periodic sync interval"`
	MaxWorkers  int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,minimum=1,description=Maximum concurrent feed syncs"`
	BackoffBase time.Duration `yaml:"backoff_base" json:"backoff_base" jsonschema:"default=5m,description=Delay after the first failure doubled on each following one and 0 disables backoff"`
	BackoffMax  time.Duration `yaml:"backoff_max" json:"backoff_max" jsonschema:"default=24h,description=Backoff delay cap"`
}

// Load reads configuration from a YAML file, empty path gives the defaults
func Load(path string) (*Config, error) {
	cfg := Config{Schedule: ScheduleConfig{Enabled: true, BackoffBase: 5 * time.Minute}}
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// expand environment variables
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.ImportLimit == 0 {
		c.Server.ImportLimit = 32 * 1024 * 1024
	}

	if c.Database.DSN == "" {
		c.Database.DSN = "file:feedsync.db?mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = time.Hour
	}

	if c.Sync.MinInterval == 0 {
		c.Sync.MinInterval = 15 * time.Minute
	}
	if c.Sync.FetchTimeout == 0 {
		c.Sync.FetchTimeout = 30 * time.Second
	}
	if c.Sync.MaxBodySize == 0 {
		c.Sync.MaxBodySize = 10 * 1024 * 1024
	}
	if c.Sync.UserAgent == "" {
		c.Sync.UserAgent = "feedsync/1.0"
	}

	if c.Schedule.Interval == 0 {
		c.Schedule.Interval = 30 * time.Minute
	}
	if c.Schedule.MaxWorkers == 0 {
		c.Schedule.MaxWorkers = 5
	}
	if c.Schedule.BackoffBase > 0 && c.Schedule.BackoffMax == 0 {
		c.Schedule.BackoffMax = 24 * time.Hour
	}
}

// validate checks configuration for correctness
func (c *Config) validate() error {
	var errs []error
	if c.Server.Timeout < time.Second {
		errs = append(errs, errors.New("server.timeout must be at least 1 second"))
	}
	if c.Server.ImportLimit < 0 {
		errs = append(errs, errors.New("server.import_limit must be positive"))
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		errs = append(errs, errors.New("database connection limits must be non-negative"))
	}
	if c.Sync.MinInterval < 0 {
		errs = append(errs, errors.New("sync.min_interval must be non-negative"))
	}
	if c.Sync.FetchTimeout < time.Second {
		errs = append(errs, errors.New("sync.fetch_timeout must be at least 1 second"))
	}
	if c.Sync.MaxBodySize < 0 {
		errs = append(errs, errors.New("sync.max_body_size must be positive"))
	}
	if c.Schedule.Interval < time.Minute {
		errs = append(errs, errors.New("schedule.interval must be at least 1 minute"))
	}
	if c.Schedule.MaxWorkers < 1 {
		errs = append(errs, errors.New("schedule.max_workers must be at least 1"))
	}
	if c.Schedule.BackoffBase < 0 {
		errs = append(errs, errors.New("schedule.backoff_base must be non-negative"))
	}
	if c.Schedule.BackoffBase > 0 && c.Schedule.BackoffMax < c.Schedule.BackoffBase {
		errs = append(errs, errors.New("schedule.backoff_max must not be less than schedule.backoff_base"))
	}
	return errors.Join(errs...)
}

// Schema returns JSON schema of the configuration file
func Schema() ([]byte, error) {
	r := jsonschema.Reflector{FieldNameTag: "yaml", DoNotReference: true}
	schema := r.Reflect(&Config{})
	schema.Title = "feedsync configuration"
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
