// Package config defines the top-level configuration for the venue adapter
// service and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by POLYDRAFT_* environment
// variables.
type Config struct {
	Polymarket PolymarketConfig `toml:"polymarket"`
	Kalshi     KalshiConfig     `toml:"kalshi"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	Pipeline   PipelineConfig   `toml:"pipeline"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// PolymarketConfig holds Polymarket API endpoints.
type PolymarketConfig struct {
	GammaHost string `toml:"gamma_host"`
	ClobHost  string `toml:"clob_host"`
	WsHost    string `toml:"ws_host"`
}

// KalshiConfig holds Kalshi Trade API parameters. The RSA key is optional:
// market-data endpoints work unsigned, and requests are only signed when a
// key is configured.
type KalshiConfig struct {
	BaseURL           string `toml:"base_url"`
	ApiKeyID          string `toml:"api_key_id"`
	RsaPrivateKeyPath string `toml:"rsa_private_key_path"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for snapshots.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// PipelineConfig tunes the sync/refresh loops.
type PipelineConfig struct {
	SyncInterval    duration `toml:"sync_interval"`
	RefreshInterval duration `toml:"refresh_interval"`
	MarketLimit     int      `toml:"market_limit"`
}

// duration lets TOML carry values like "30s" or "5m".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d duration) Std() time.Duration { return time.Duration(d) }

// Defaults returns the built-in configuration used before the TOML file and
// environment overrides are applied.
func Defaults() Config {
	return Config{
		Polymarket: PolymarketConfig{
			GammaHost: "https://gamma-api.polymarket.com",
			ClobHost:  "https://clob.polymarket.com",
			WsHost:    "wss://ws-subscriptions-clob.polymarket.com/ws/market",
		},
		Kalshi: KalshiConfig{
			BaseURL: "https://api.elections.kalshi.com/trade-api/v2",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
		},
		Pipeline: PipelineConfig{
			SyncInterval:    duration(5 * time.Minute),
			RefreshInterval: duration(10 * time.Second),
			MarketLimit:     200,
		},
		Mode:     "sync",
		LogLevel: "info",
	}
}

// Validate checks that the configuration is internally consistent for the
// selected mode.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "sync", "refresh", "stream", "snapshot", "resolve":
	default:
		return fmt.Errorf("config: unsupported mode %q", c.Mode)
	}

	if c.Polymarket.GammaHost == "" {
		return fmt.Errorf("config: polymarket.gamma_host is required")
	}
	if c.Polymarket.ClobHost == "" {
		return fmt.Errorf("config: polymarket.clob_host is required")
	}
	if c.Kalshi.BaseURL == "" {
		return fmt.Errorf("config: kalshi.base_url is required")
	}

	if mode := strings.ToLower(c.Mode); mode == "sync" || mode == "refresh" || mode == "stream" {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required for mode %q", c.Mode)
		}
	}
	if strings.ToLower(c.Mode) == "snapshot" {
		if c.S3.Bucket == "" || c.S3.Region == "" {
			return fmt.Errorf("config: s3.bucket and s3.region are required for snapshot mode")
		}
	}

	if c.Pipeline.MarketLimit <= 0 {
		return fmt.Errorf("config: pipeline.market_limit must be positive")
	}
	if c.Pipeline.RefreshInterval.Std() < time.Second {
		return fmt.Errorf("config: pipeline.refresh_interval must be at least 1s")
	}

	return nil
}
