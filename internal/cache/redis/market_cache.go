package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/polydraft/venues/internal/domain"
)

const (
	// marketTTL is the staleness window for a single market entry.
	marketTTL = 30 * time.Second

	// listingTTL is the staleness window for a cached listing page.
	listingTTL = 60 * time.Second
)

// MarketCache implements domain.MarketCache using JSON values. Markets live
// at "market:{venue}:{id}", listings at "listing:{venue}:{key}".
type MarketCache struct {
	rdb *redis.Client
}

// NewMarketCache creates a MarketCache backed by the given Client.
func NewMarketCache(c *Client) *MarketCache {
	return &MarketCache{rdb: c.Underlying()}
}

func marketKey(venue domain.VenueID, id string) string {
	return "market:" + string(venue) + ":" + id
}

func listingKey(venue domain.VenueID, key string) string {
	return "listing:" + string(venue) + ":" + key
}

// SetMarket caches a single normalized market.
func (mc *MarketCache) SetMarket(ctx context.Context, m domain.VenueMarket) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("redis: marshal market %s: %w", m.MarketID, err)
	}
	if err := mc.rdb.Set(ctx, marketKey(m.VenueID, m.MarketID), data, marketTTL).Err(); err != nil {
		return fmt.Errorf("redis: set market %s: %w", m.MarketID, err)
	}
	return nil
}

// GetMarket returns a cached market or domain.ErrNotFound on a miss.
func (mc *MarketCache) GetMarket(ctx context.Context, venue domain.VenueID, marketID string) (*domain.VenueMarket, error) {
	data, err := mc.rdb.Get(ctx, marketKey(venue, marketID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get market %s: %w", marketID, err)
	}

	var m domain.VenueMarket
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("redis: unmarshal market %s: %w", marketID, err)
	}
	return &m, nil
}

// SetListing caches a named listing result.
func (mc *MarketCache) SetListing(ctx context.Context, venue domain.VenueID, key string, markets []domain.VenueMarket) error {
	data, err := json.Marshal(markets)
	if err != nil {
		return fmt.Errorf("redis: marshal listing %s: %w", key, err)
	}
	if err := mc.rdb.Set(ctx, listingKey(venue, key), data, listingTTL).Err(); err != nil {
		return fmt.Errorf("redis: set listing %s: %w", key, err)
	}
	return nil
}

// GetListing returns a cached listing or domain.ErrNotFound on a miss.
func (mc *MarketCache) GetListing(ctx context.Context, venue domain.VenueID, key string) ([]domain.VenueMarket, error) {
	data, err := mc.rdb.Get(ctx, listingKey(venue, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get listing %s: %w", key, err)
	}

	var markets []domain.VenueMarket
	if err := json.Unmarshal(data, &markets); err != nil {
		return nil, fmt.Errorf("redis: unmarshal listing %s: %w", key, err)
	}
	return markets, nil
}

// Compile-time interface check.
var _ domain.MarketCache = (*MarketCache)(nil)
