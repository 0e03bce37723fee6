package domain

import "context"

// VenueAdapter is the capability interface every venue integration
// implements. Adapters normalize their venue's raw shapes into the common
// domain model; callers never see venue-specific types.
//
// Fetch methods return explicit errors so callers can tell "confirmed empty"
// apart from "fetch failed". Markets that fail validation (raw or normalized
// tier) are silently dropped from list results, never surfaced as partial
// markets.
type VenueAdapter interface {
	VenueID() VenueID

	// FetchMarkets returns normalized markets matching the query. Invalid
	// markets are filtered out.
	FetchMarkets(ctx context.Context, q MarketQuery) ([]VenueMarket, error)

	// FetchMarket returns a single market by its venue-native id. It returns
	// ErrNotFound when the venue has no such market and ErrInvalidMarket when
	// the market exists but fails validation.
	FetchMarket(ctx context.Context, marketID string) (*VenueMarket, error)

	// FetchPrices refreshes prices for the given token/ticker ids. Lookups
	// run concurrently; a failed token is omitted from the result and never
	// fails the batch.
	FetchPrices(ctx context.Context, tokenIDs []string) (VenuePriceUpdate, error)

	// CheckResolution derives the settled state of a market from current
	// venue data. Ambiguous venue state yields Resolved=false, never a guess.
	CheckResolution(ctx context.Context, marketID string) (VenueResolution, error)

	// ToEvent projects a normalized market into the Event shape consumed by
	// the persistence/game layer.
	ToEvent(m VenueMarket) Event

	// IsValidMarket applies the common structural validation to a normalized
	// market.
	IsValidMarket(m VenueMarket) bool
}

// MarketSearcher is an optional adapter capability for free-text search.
// Venues without a server-side search endpoint may implement it by filtering
// a bounded page client-side.
type MarketSearcher interface {
	SearchMarkets(ctx context.Context, query string, limit int) ([]VenueMarket, error)
}

// TokenPricer is an optional adapter capability for single-token price
// lookups.
type TokenPricer interface {
	FetchTokenPrice(ctx context.Context, tokenID string) (float64, error)
}
