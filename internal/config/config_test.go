package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echozyr2001/BrewDeck/internal/cache"
	"github.com/echozyr2001/BrewDeck/internal/errdefs"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, cache.DefaultTTL, cfg.Cache.DefaultTTL)
	assert.True(t, cfg.Prefetch.Enabled)
	assert.Equal(t, "https://formulae.brew.sh/api", cfg.Catalog.BaseURL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Cache, cfg.Cache)
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
cache:
  default_ttl: 90s
  strategy: lfu
prefetch:
  max_concurrent_requests: 5
  popularity_threshold: 250
logging:
  level: debug
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Cache.DefaultTTL)
	assert.Equal(t, "lfu", cfg.Cache.Strategy)
	assert.Equal(t, 5, cfg.Prefetch.MaxConcurrentRequests)
	assert.Equal(t, uint64(250), cfg.Prefetch.PopularityThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched fields keep their defaults.
	assert.Equal(t, cache.DefaultMaxEntries, cfg.Cache.MaxEntries)
	assert.True(t, cfg.Prefetch.Enabled)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
cache:
  default_ttl: 90s
`)
	t.Setenv("BREWDECK_CACHE_TTL", "2m")
	t.Setenv("BREWDECK_PREFETCH_ENABLED", "false")
	t.Setenv("BREWDECK_CATALOG_URL", "http://localhost:9999/api")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.Cache.DefaultTTL)
	assert.False(t, cfg.Prefetch.Enabled)
	assert.Equal(t, "http://localhost:9999/api", cfg.Catalog.BaseURL)
}

func TestEnvIgnoresUnparseableValues(t *testing.T) {
	t.Setenv("BREWDECK_CACHE_TTL", "not-a-duration")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, cache.DefaultTTL, cfg.Cache.DefaultTTL)
}

func TestLoadFromRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "cache: [not a mapping")

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errdefs.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero ttl", func(c *Config) { c.Cache.DefaultTTL = 0 }},
		{"zero capacity", func(c *Config) { c.Cache.MaxEntries = 0 }},
		{"unknown strategy", func(c *Config) { c.Cache.Strategy = "mru" }},
		{"zero concurrency", func(c *Config) { c.Prefetch.MaxConcurrentRequests = 0 }},
		{"empty catalog url", func(c *Config) { c.Catalog.BaseURL = "" }},
		{"zero catalog timeout", func(c *Config) { c.Catalog.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, errdefs.ErrInvalidConfig)
		})
	}
}

func TestCacheSettings(t *testing.T) {
	cfg := Default()
	cfg.Cache.Strategy = "fifo"
	cfg.Cache.MaxEntries = 42

	settings := cfg.CacheSettings()
	assert.Equal(t, cache.StrategyFIFO, settings.Strategy)
	assert.Equal(t, 42, settings.MaxEntries)
	assert.Equal(t, cfg.Cache.DefaultTTL, settings.DefaultTTL)
}
