package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "https://gamma-api.polymarket.com", cfg.Polymarket.GammaHost)
	assert.Equal(t, "https://api.elections.kalshi.com/trade-api/v2", cfg.Kalshi.BaseURL)
	assert.Equal(t, "sync", cfg.Mode)
	require.NoError(t, cfg.Validate())
}

func TestLoadTOMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "refresh"
log_level = "debug"

[polymarket]
gamma_host = "http://localhost:8081"

[redis]
addr = "localhost:6380"

[pipeline]
sync_interval = "2m"
refresh_interval = "5s"
market_limit = 50
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "refresh", cfg.Mode)
	assert.Equal(t, "http://localhost:8081", cfg.Polymarket.GammaHost)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Minute, cfg.Pipeline.SyncInterval.Std())
	assert.Equal(t, 5*time.Second, cfg.Pipeline.RefreshInterval.Std())
	assert.Equal(t, 50, cfg.Pipeline.MarketLimit)

	// Untouched sections keep their defaults.
	assert.Equal(t, "https://clob.polymarket.com", cfg.Polymarket.ClobHost)

	require.NoError(t, cfg.Validate())
}

func TestLoadEnvOverridesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[kalshi]
base_url = "http://file-value"
`), 0o644))

	t.Setenv("POLYDRAFT_KALSHI_BASE_URL", "http://env-value")
	t.Setenv("POLYDRAFT_MODE", "snapshot")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env-value", cfg.Kalshi.BaseURL)
	assert.Equal(t, "snapshot", cfg.Mode)
}

func TestValidate(t *testing.T) {
	t.Run("unknown mode rejected", func(t *testing.T) {
		cfg := Defaults()
		cfg.Mode = "trade"
		assert.Error(t, cfg.Validate())
	})

	t.Run("refresh mode needs redis", func(t *testing.T) {
		cfg := Defaults()
		cfg.Mode = "refresh"
		cfg.Redis.Addr = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("sync mode needs redis", func(t *testing.T) {
		cfg := Defaults()
		cfg.Mode = "sync"
		cfg.Redis.Addr = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("snapshot mode needs s3", func(t *testing.T) {
		cfg := Defaults()
		cfg.Mode = "snapshot"
		assert.Error(t, cfg.Validate())

		cfg.S3.Bucket = "snapshots"
		cfg.S3.Region = "us-east-1"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("refresh interval floor", func(t *testing.T) {
		cfg := Defaults()
		cfg.Pipeline.RefreshInterval = duration(100 * time.Millisecond)
		assert.Error(t, cfg.Validate())
	})
}
