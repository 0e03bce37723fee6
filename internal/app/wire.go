package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	s3blob "github.com/polydraft/venues/internal/blob/s3"
	"github.com/polydraft/venues/internal/cache/redis"
	"github.com/polydraft/venues/internal/config"
	"github.com/polydraft/venues/internal/domain"
	"github.com/polydraft/venues/internal/venue"
	"github.com/polydraft/venues/internal/venue/kalshi"
	"github.com/polydraft/venues/internal/venue/polymarket"
)

// Dependencies bundles every domain-level dependency the application modes
// need to operate. It is constructed by Wire and torn down by the returned
// cleanup function.
type Dependencies struct {
	Registry *venue.Registry
	Sink     domain.EventSink

	// Caches (nil for modes that do not need Redis)
	PriceCache  domain.PriceCache
	MarketCache domain.MarketCache

	// Blob storage (nil for modes that do not need S3)
	BlobWriter domain.BlobWriter
	Archiver   domain.SnapshotArchiver
}

// needsRedis returns true for modes that keep the price/market caches warm.
func needsRedis(mode string) bool {
	switch mode {
	case "sync", "refresh", "stream":
		return true
	default:
		return false
	}
}

// needsS3 returns true for modes that require object storage.
func needsS3(mode string) bool {
	return mode == "snapshot"
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	mode := strings.ToLower(cfg.Mode)

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Venue adapters and registry ---
	gamma := polymarket.NewGammaClient(cfg.Polymarket.GammaHost)
	clob := polymarket.NewClobClient(cfg.Polymarket.ClobHost)
	pmAdapter := polymarket.NewAdapter(gamma, clob, logger)

	kalshiClient := kalshi.NewClient(cfg.Kalshi.BaseURL, cfg.Kalshi.ApiKeyID)
	if cfg.Kalshi.RsaPrivateKeyPath != "" {
		pemBytes, err := os.ReadFile(cfg.Kalshi.RsaPrivateKeyPath)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: read kalshi rsa key: %w", err)
		}
		if err := kalshiClient.SetRSAPrivateKey(pemBytes); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: parse kalshi rsa key: %w", err)
		}
	}
	jupAdapter := kalshi.NewAdapter(kalshiClient, logger)

	registry := venue.NewRegistry(logger)
	registry.Register(pmAdapter)
	registry.Register(jupAdapter)
	deps.Registry = registry

	// --- Event sink ---
	deps.Sink = NewLogSink(logger)

	// --- Redis (only for modes that keep caches warm) ---
	if needsRedis(mode) {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, redisClient.Close)

		deps.PriceCache = redis.NewPriceCache(redisClient)
		deps.MarketCache = redis.NewMarketCache(redisClient)
	}

	// --- S3 (only for snapshot mode) ---
	if needsS3(mode) {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         true,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}

		deps.BlobWriter = s3blob.NewWriter(s3Client)
		deps.Archiver = s3blob.NewArchiver(deps.BlobWriter)
	}

	return deps, cleanup, nil
}
