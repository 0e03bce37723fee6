package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/polydraft/venues/internal/domain"
)

const (
	// priceTTL is the staleness window for a single price entry.
	priceTTL = 10 * time.Second

	// trackedTTL keeps the refresh working set alive well past the price
	// entries themselves so the refresher knows what to re-fetch.
	trackedTTL = 10 * time.Minute
)

// PriceCache implements domain.PriceCache using Redis hashes. Each token's
// price lives at "price:{venue}:{tokenID}" with fields "price" and "ts"
// (Unix nanosecond timestamp) and expires after priceTTL. The token ids a
// venue has seen recently are tracked in the set "tokens:{venue}".
type PriceCache struct {
	rdb *redis.Client
}

// NewPriceCache creates a PriceCache backed by the given Client.
func NewPriceCache(c *Client) *PriceCache {
	return &PriceCache{rdb: c.Underlying()}
}

func priceKey(venue domain.VenueID, tokenID string) string {
	return "price:" + string(venue) + ":" + tokenID
}

func tokensKey(venue domain.VenueID) string {
	return "tokens:" + string(venue)
}

// SetPrices stores every token price carried by the update and refreshes
// the venue's tracked-token set.
func (pc *PriceCache) SetPrices(ctx context.Context, venue domain.VenueID, update domain.VenuePriceUpdate) error {
	if len(update.TokenPrices) == 0 {
		return nil
	}

	ts := update.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	pipe := pc.rdb.Pipeline()
	tokens := make([]any, 0, len(update.TokenPrices))
	for tokenID, price := range update.TokenPrices {
		key := priceKey(venue, tokenID)
		pipe.HSet(ctx, key, map[string]any{
			"price": strconv.FormatFloat(price, 'f', -1, 64),
			"ts":    strconv.FormatInt(ts.UnixNano(), 10),
		})
		pipe.Expire(ctx, key, priceTTL)
		tokens = append(tokens, tokenID)
	}
	pipe.SAdd(ctx, tokensKey(venue), tokens...)
	pipe.Expire(ctx, tokensKey(venue), trackedTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set prices %s: %w", venue, err)
	}
	return nil
}

// GetPrice retrieves the latest price and snapshot time for a token. A miss
// or expired entry returns domain.ErrNotFound.
func (pc *PriceCache) GetPrice(ctx context.Context, venue domain.VenueID, tokenID string) (float64, time.Time, error) {
	vals, err := pc.rdb.HGetAll(ctx, priceKey(venue, tokenID)).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis: get price %s: %w", tokenID, err)
	}
	if len(vals) == 0 {
		return 0, time.Time{}, domain.ErrNotFound
	}

	price, err := strconv.ParseFloat(vals["price"], 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis: parse price %s: %w", tokenID, err)
	}
	tsNano, err := strconv.ParseInt(vals["ts"], 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis: parse ts %s: %w", tokenID, err)
	}

	return price, time.Unix(0, tsNano), nil
}

// TrackedTokens returns the token ids recently seen for a venue.
func (pc *PriceCache) TrackedTokens(ctx context.Context, venue domain.VenueID) ([]string, error) {
	tokens, err := pc.rdb.SMembers(ctx, tokensKey(venue)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis: tracked tokens %s: %w", venue, err)
	}
	return tokens, nil
}

// Compile-time interface check.
var _ domain.PriceCache = (*PriceCache)(nil)
