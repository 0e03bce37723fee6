package domain

import "time"

// VenueID identifies an external prediction-market trading backend.
type VenueID string

const (
	// VenuePolymarket is the Polymarket venue (Gamma metadata API + CLOB pricing API).
	VenuePolymarket VenueID = "polymarket"

	// VenueJupiter is the Jupiter Predictions venue, backed by the Kalshi
	// Trade API v2 for market data and pricing.
	VenueJupiter VenueID = "jupiter"
)

// OutcomePosition is the closed set of positions an outcome can occupy inside
// a market. Position A is always the first listed outcome.
type OutcomePosition string

const (
	PositionA    OutcomePosition = "a"
	PositionB    OutcomePosition = "b"
	PositionDraw OutcomePosition = "draw"
)

// Valid reports whether p is one of the known positions.
func (p OutcomePosition) Valid() bool {
	switch p {
	case PositionA, PositionB, PositionDraw:
		return true
	}
	return false
}

// Category is the fixed taxonomy markets are bucketed into.
type Category string

const (
	CategorySports        Category = "sports"
	CategoryPolitics      Category = "politics"
	CategoryCrypto        Category = "crypto"
	CategoryEconomy       Category = "economy"
	CategoryEntertainment Category = "entertainment"
)

// VenueOutcome is one possible resolution of a market.
type VenueOutcome struct {
	// Label is the display label, e.g. "Yes" or "Chelsea".
	Label string

	// TokenID is the venue-native token/ticker id used for price lookups.
	// Empty when the venue has no separate pricing identifier.
	TokenID string

	// Probability is the current implied probability in [0, 1].
	Probability float64

	Position OutcomePosition
}

// VenueMarket is the canonical normalized market every adapter produces.
// Markets carry 2 or 3 mutually exclusive outcomes; the first outcome is
// always position A. These are transient value objects constructed fresh on
// each adapter call and never mutated in place.
type VenueMarket struct {
	VenueID     VenueID
	MarketID    string
	Slug        string
	ConditionID string

	Title       string
	Description string
	ImageURL    string

	Outcomes     []VenueOutcome
	SupportsDraw bool

	OutcomeAProbability float64
	OutcomeBProbability float64
	DrawProbability     *float64

	IsActive   bool
	IsClosed   bool
	IsArchived bool

	StartDate *time.Time
	EndDate   *time.Time

	Volume   float64
	Category Category
}

// Outcome returns the outcome occupying the given position, or nil.
func (m *VenueMarket) Outcome(p OutcomePosition) *VenueOutcome {
	for i := range m.Outcomes {
		if m.Outcomes[i].Position == p {
			return &m.Outcomes[i]
		}
	}
	return nil
}

// TokenIDs returns the price-lookup token ids of all outcomes that have one,
// in position order.
func (m *VenueMarket) TokenIDs() []string {
	ids := make([]string, 0, len(m.Outcomes))
	for _, o := range m.Outcomes {
		if o.TokenID != "" {
			ids = append(ids, o.TokenID)
		}
	}
	return ids
}

// VenueResolution is the settled state of a market. Resolution is a pure
// function of venue state: re-deriving from the same payload always yields
// the same winner.
type VenueResolution struct {
	Resolved bool

	// WinningOutcome and WinningPrice are only meaningful when Resolved.
	WinningOutcome OutcomePosition
	WinningPrice   float64

	ResolvedAt *time.Time
}

// MarketPrices holds the outcome probabilities of a single market inside a
// batched price update.
type MarketPrices struct {
	OutcomeAProbability float64
	OutcomeBProbability float64
}

// VenuePriceUpdate is a batched price snapshot used to refresh already-known
// markets without re-fetching full metadata. Prices is keyed by venue market
// id where the venue can derive it from the price lookup alone; TokenPrices
// carries the raw per-token prices for every token that resolved.
type VenuePriceUpdate struct {
	Prices      map[string]MarketPrices
	TokenPrices map[string]float64
	Timestamp   time.Time
}

// MarketQuery carries the venue-agnostic listing parameters. Each adapter
// maps Status to its venue's native status vocabulary.
type MarketQuery struct {
	// Status is the request intent: "active", "closed", or empty for all.
	Status string

	// Archived includes archived markets where the venue supports them.
	Archived bool

	Limit  int
	Offset int

	Category string
	Search   string
}
