package domain

import (
	"context"
	"time"
)

// PriceCache provides short-lived access to the latest venue prices. The
// implementation owns the staleness window for price entries (~10s); a miss
// means "go back to the venue", not "price does not exist".
type PriceCache interface {
	// SetPrices stores every token price carried by the update and remembers
	// the token ids for later refresh rounds.
	SetPrices(ctx context.Context, venue VenueID, update VenuePriceUpdate) error

	// GetPrice returns the cached price and its snapshot time for a token.
	// It returns ErrNotFound on a miss or an expired entry.
	GetPrice(ctx context.Context, venue VenueID, tokenID string) (float64, time.Time, error)

	// TrackedTokens returns the token ids seen recently for a venue, the
	// working set refreshed by the price refresher.
	TrackedTokens(ctx context.Context, venue VenueID) ([]string, error)
}

// MarketCache provides short-lived market metadata lookups. Single markets
// carry a ~30s staleness window, listings ~60s; both are advisory freshness,
// not consistency guarantees.
type MarketCache interface {
	SetMarket(ctx context.Context, m VenueMarket) error
	GetMarket(ctx context.Context, venue VenueID, marketID string) (*VenueMarket, error)

	// SetListing caches a named listing result, e.g. the most recent
	// "active" page for a venue.
	SetListing(ctx context.Context, venue VenueID, key string, markets []VenueMarket) error
	GetListing(ctx context.Context, venue VenueID, key string) ([]VenueMarket, error)
}
