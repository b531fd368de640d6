package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL    = "https://mycscgo.com/api/v3"
	DefaultLocationID = "fc5cd0de-25c6-4d33-afc4-c420156e9a3e"
)

// Config represents the overall application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
	Scraper    ScraperConfig    `yaml:"scraper"`
	Collector  CollectorConfig  `yaml:"collector"`
	Storage    StorageConfig    `yaml:"storage"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// LogConfig controls the logrus output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// ServerConfig holds the HTTP API configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// ScraperConfig describes how the upstream laundry API is reached.
type ScraperConfig struct {
	BaseURL        string        `yaml:"base_url"`
	LocationID     string        `yaml:"location_id"`
	HTTPProxy      string        `yaml:"http_proxy"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`
	Concurrency    int           `yaml:"concurrency"`
	// RequestsPerSec paces upstream calls; zero disables pacing.
	RequestsPerSec float64 `yaml:"requests_per_sec"`
}

// CollectorConfig holds the snapshot recorder settings.
type CollectorConfig struct {
	Labels          []string      `yaml:"labels"`
	IntervalMinutes int           `yaml:"interval_minutes"`
	Interval        time.Duration `yaml:"-"`
	Naming          string        `yaml:"naming"` // daily or fixed
	FixedName       string        `yaml:"fixed_name"`
	DefaultSlug     string        `yaml:"default_slug"`
}

// StorageConfig selects where snapshots are written.
type StorageConfig struct {
	Driver  string `yaml:"driver"` // json, ndjson or database
	DataDir string `yaml:"data_dir"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // sqlite or postgres
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Enabled reports whether web push can be used.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		logrus.WithField("path", path).Debug("config file not found, using defaults")
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.RateLimitPerSec <= 0 {
		c.Server.RateLimitPerSec = 10
	}
	if c.Server.RateLimitBurst <= 0 {
		c.Server.RateLimitBurst = 5
	}
	if c.Server.CacheTTLSeconds <= 0 {
		c.Server.CacheTTLSeconds = 60
	}

	if c.Scraper.BaseURL == "" {
		c.Scraper.BaseURL = DefaultBaseURL
	}
	if c.Scraper.LocationID == "" {
		c.Scraper.LocationID = DefaultLocationID
	}
	if c.Scraper.TimeoutSeconds <= 0 {
		c.Scraper.TimeoutSeconds = 30
	}
	c.Scraper.Timeout = time.Duration(c.Scraper.TimeoutSeconds) * time.Second
	if c.Scraper.Concurrency <= 0 {
		c.Scraper.Concurrency = 8
	}

	if len(c.Collector.Labels) == 0 {
		c.Collector.Labels = []string{"Prince Frederick", "Prince Frederick FL7"}
	}
	if c.Collector.IntervalMinutes < 0 {
		c.Collector.IntervalMinutes = 0
	} else if c.Collector.IntervalMinutes == 0 {
		c.Collector.IntervalMinutes = 30
	}
	c.Collector.Interval = time.Duration(c.Collector.IntervalMinutes) * time.Minute
	if c.Collector.Naming == "" {
		c.Collector.Naming = "daily"
	}
	if c.Collector.FixedName == "" {
		c.Collector.FixedName = "usage_data"
	}
	if c.Collector.DefaultSlug == "" {
		c.Collector.DefaultSlug = "all_prince_frederick"
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = "json"
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "./data"
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}

	if c.Push.TTL <= 0 {
		c.Push.TTL = 3600
	}

	if c.WorkerPool.Size <= 0 {
		c.WorkerPool.Size = 1
	}
}

func (c *Config) validate() error {
	switch c.Collector.Naming {
	case "daily", "fixed":
	default:
		return fmt.Errorf("collector.naming must be daily or fixed, got %q", c.Collector.Naming)
	}
	switch c.Storage.Driver {
	case "json", "ndjson":
	case "database":
		if c.Database.DSN == "" {
			return errors.New("storage.driver is database but database.dsn is empty")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	return nil
}
