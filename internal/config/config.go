// Package config loads the application configuration: defaults, then the
// user's YAML file, then BREWDECK_* environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/echozyr2001/BrewDeck/internal/cache"
	"github.com/echozyr2001/BrewDeck/internal/errdefs"
	"github.com/echozyr2001/BrewDeck/internal/prefetch"
)

// ConfigDirName is the directory under $HOME holding user configuration.
const ConfigDirName = ".brewdeck"

// Config is the full application configuration tree.
type Config struct {
	Cache    CacheConfig     `yaml:"cache"`
	Prefetch prefetch.Config `yaml:"prefetch"`
	Brew     BrewConfig      `yaml:"brew"`
	Catalog  CatalogConfig   `yaml:"catalog"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// CacheConfig tunes the in-memory store.
type CacheConfig struct {
	DefaultTTL      time.Duration `yaml:"default_ttl"`
	MaxEntries      int           `yaml:"max_entries"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	Strategy        string        `yaml:"strategy"`
}

// BrewConfig locates the local tool.
type BrewConfig struct {
	// Path overrides binary discovery when set.
	Path string `yaml:"path"`
}

// CatalogConfig points at the remote package API.
type CatalogConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			DefaultTTL:      cache.DefaultTTL,
			MaxEntries:      cache.DefaultMaxEntries,
			CleanupInterval: cache.DefaultCleanupInterval,
			Strategy:        string(cache.StrategyLRU),
		},
		Prefetch: prefetch.DefaultConfig(),
		Catalog: CatalogConfig{
			BaseURL: "https://formulae.brew.sh/api",
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Dir returns the user configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ConfigDirName), nil
}

// EnsureDir creates the configuration directory if missing.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// Load builds the effective configuration: defaults, overlaid by
// ~/.brewdeck/config.yaml when present, overlaid by BREWDECK_* env vars.
// A missing file is not an error; an unreadable or invalid one is.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, "config.yaml"))
}

// LoadFrom is Load with an explicit file path, used by --config and tests.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, errdefs.InvalidConfigf("cannot read config file %s: %v", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errdefs.InvalidConfigf("cannot parse config file %s: %v", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the rest of the system cannot honor.
func (c *Config) Validate() error {
	if c.Cache.DefaultTTL <= 0 {
		return errdefs.InvalidConfigf("cache.default_ttl must be positive, got %s", c.Cache.DefaultTTL)
	}
	if c.Cache.MaxEntries <= 0 {
		return errdefs.InvalidConfigf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
	}
	if _, err := cache.ParseStrategy(c.Cache.Strategy); err != nil {
		return err
	}
	if c.Prefetch.MaxConcurrentRequests < 1 {
		return errdefs.InvalidConfigf("prefetch.max_concurrent_requests must be at least 1, got %d",
			c.Prefetch.MaxConcurrentRequests)
	}
	if c.Catalog.BaseURL == "" {
		return errdefs.InvalidConfigf("catalog.base_url must not be empty")
	}
	if c.Catalog.Timeout <= 0 {
		return errdefs.InvalidConfigf("catalog.timeout must be positive, got %s", c.Catalog.Timeout)
	}
	return nil
}

// CacheSettings translates the tree into the store's own config type.
func (c *Config) CacheSettings() cache.Config {
	strategy, _ := cache.ParseStrategy(c.Cache.Strategy)
	return cache.Config{
		DefaultTTL:      c.Cache.DefaultTTL,
		MaxEntries:      c.Cache.MaxEntries,
		CleanupInterval: c.Cache.CleanupInterval,
		Strategy:        strategy,
	}
}

// applyEnv overlays BREWDECK_* environment variables onto cfg. Unparseable
// values are ignored; the variable names mirror the YAML paths.
func applyEnv(cfg *Config) {
	setDuration := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setUint64 := func(key string, dst *uint64) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.ParseUint(v, 10, 64); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setDuration("BREWDECK_CACHE_TTL", &cfg.Cache.DefaultTTL)
	setInt("BREWDECK_CACHE_MAX_ENTRIES", &cfg.Cache.MaxEntries)
	setDuration("BREWDECK_CACHE_CLEANUP_INTERVAL", &cfg.Cache.CleanupInterval)
	setString("BREWDECK_CACHE_STRATEGY", &cfg.Cache.Strategy)

	setBool("BREWDECK_PREFETCH_ENABLED", &cfg.Prefetch.Enabled)
	setInt("BREWDECK_PREFETCH_MAX_CONCURRENT", &cfg.Prefetch.MaxConcurrentRequests)
	setBool("BREWDECK_PREFETCH_WIFI_ONLY", &cfg.Prefetch.WifiOnly)
	setBool("BREWDECK_PREFETCH_RESPECT_SAVE_DATA", &cfg.Prefetch.RespectSaveData)
	setUint64("BREWDECK_PREFETCH_POPULARITY_THRESHOLD", &cfg.Prefetch.PopularityThreshold)
	setBool("BREWDECK_PREFETCH_BACKGROUND_REFRESH", &cfg.Prefetch.BackgroundRefreshEnabled)
	setBool("BREWDECK_PREFETCH_PREDICTIVE", &cfg.Prefetch.PredictiveEnabled)
	setDuration("BREWDECK_PREFETCH_INTERVAL", &cfg.Prefetch.Interval)

	setString("BREWDECK_BREW_PATH", &cfg.Brew.Path)
	setString("BREWDECK_CATALOG_URL", &cfg.Catalog.BaseURL)
	setDuration("BREWDECK_CATALOG_TIMEOUT", &cfg.Catalog.Timeout)

	setString("BREWDECK_LOG_LEVEL", &cfg.Logging.Level)
	setString("BREWDECK_LOG_FORMAT", &cfg.Logging.Format)
	setString("BREWDECK_LOG_FILE", &cfg.Logging.File)
}
