package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies POLYDRAFT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
//
// A missing file is not an error: defaults plus environment overrides are
// enough to run every mode against the public endpoints.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env if present (silently ignore if missing). This is also where
	// the active-venue selector usually comes from.
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known POLYDRAFT_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Polymarket.GammaHost, "POLYDRAFT_POLYMARKET_GAMMA_HOST")
	setStr(&cfg.Polymarket.ClobHost, "POLYDRAFT_POLYMARKET_CLOB_HOST")
	setStr(&cfg.Polymarket.WsHost, "POLYDRAFT_POLYMARKET_WS_HOST")

	setStr(&cfg.Kalshi.BaseURL, "POLYDRAFT_KALSHI_BASE_URL")
	setStr(&cfg.Kalshi.ApiKeyID, "POLYDRAFT_KALSHI_API_KEY_ID")
	setStr(&cfg.Kalshi.RsaPrivateKeyPath, "POLYDRAFT_KALSHI_RSA_PRIVATE_KEY_PATH")

	setStr(&cfg.Redis.Addr, "POLYDRAFT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "POLYDRAFT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "POLYDRAFT_REDIS_DB")
	setBool(&cfg.Redis.TLSEnabled, "POLYDRAFT_REDIS_TLS_ENABLED")

	setStr(&cfg.S3.Endpoint, "POLYDRAFT_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "POLYDRAFT_S3_REGION")
	setStr(&cfg.S3.Bucket, "POLYDRAFT_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "POLYDRAFT_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "POLYDRAFT_S3_SECRET_KEY")
	setBool(&cfg.S3.ForcePathStyle, "POLYDRAFT_S3_FORCE_PATH_STYLE")

	setInt(&cfg.Pipeline.MarketLimit, "POLYDRAFT_PIPELINE_MARKET_LIMIT")

	setStr(&cfg.Mode, "POLYDRAFT_MODE")
	setStr(&cfg.LogLevel, "POLYDRAFT_LOG_LEVEL")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
