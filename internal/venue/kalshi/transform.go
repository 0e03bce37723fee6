package kalshi

import (
	"strings"

	"github.com/polydraft/venues/internal/domain"
	"github.com/polydraft/venues/internal/venue/normalize"
)

// centsCeiling is the maximum Kalshi price in cents. An ask pinned at the
// ceiling with no bid means the book is empty.
const centsCeiling = 100

// resolvedStatuses are the Kalshi statuses under which a market can carry a
// final result. Status alone is not enough: a terminal status with a "void"
// or absent result is a cancelled market, not a resolved one.
var resolvedStatuses = map[string]bool{
	"determined": true,
	"disputed":   true,
	"amended":    true,
	"finalized":  true,
	"settled":    true,
}

// closedStatuses are the statuses under which a market no longer trades.
var closedStatuses = map[string]bool{
	"closed":     true,
	"determined": true,
	"disputed":   true,
	"amended":    true,
	"finalized":  true,
	"settled":    true,
}

// extraKeywords extends the shared categorization lists with Kalshi-specific
// vocabulary, mostly league series tickers.
var extraKeywords = map[domain.Category][]string{
	domain.CategorySports: {
		"kxnba", "kxnfl", "kxmlb", "kxnhl", "kxncaa", "kxepl", "kxucl",
		"kxufc", "kxf1", "epl", "ucl", "fifa", "uefa",
	},
	domain.CategoryPolitics: {"kxprez", "kxsenate", "kxhouse", "kxgov"},
	domain.CategoryCrypto:   {"kxbtc", "kxeth", "kxsol"},
	domain.CategoryEconomy:  {"kxfed", "kxcpi", "kxgdp", "kxpayroll"},
}

// YesProbability derives the implied probability of the yes side from a
// market record. Kalshi prices are integer cents and must be divided by 100
// and clamped to [0, 1]; this conversion is exact by construction.
//
// Priority order: a nonzero last traded price wins; otherwise the midpoint
// of yes bid/ask; a book with no bid and the ask at its ceiling has no
// liquidity at all and defaults to 0.5.
func YesProbability(m Market) float64 {
	if m.LastPrice > 0 {
		return normalize.Clamp01(float64(m.LastPrice) / 100)
	}
	if m.YesBid == 0 && m.YesAsk >= centsCeiling {
		return 0.5
	}
	return normalize.Clamp01(float64(m.YesBid+m.YesAsk) / 200)
}

// StatusForIntent maps the venue-agnostic request intent onto Kalshi's
// status vocabulary. Unrecognized intents pass through unmapped.
func StatusForIntent(intent string) string {
	switch intent {
	case "active":
		return "open"
	case "closed":
		return "settled"
	default:
		return intent
	}
}

// OutcomeLabels returns the display labels for the yes and no sides. Kalshi
// sometimes ships the same sub-title for both sides; the no label is then
// hardcoded to "No" so the UI never shows two identical outcomes.
func OutcomeLabels(m Market) (yes, no string) {
	yes = m.YesSubTitle
	if yes == "" {
		yes = "Yes"
	}
	no = m.NoSubTitle
	if no == "" || no == yes {
		no = "No"
	}
	return yes, no
}

// IsValidKalshiMarket is the raw-tier validation applied before
// transforming: only binary markets with a ticker, a non-void result, and a
// usable yes-probability survive.
func IsValidKalshiMarket(m Market) bool {
	if m.MarketType != "binary" {
		return false
	}
	if m.Ticker == "" {
		return false
	}
	if m.Result == "void" {
		return false
	}
	p := YesProbability(m)
	return normalize.Finite(p) && p >= 0 && p <= 1
}

// ToVenueMarket maps a raw Kalshi market into the common domain model.
// Callers are expected to have checked IsValidKalshiMarket first.
func ToVenueMarket(m Market) domain.VenueMarket {
	yesProb := YesProbability(m)
	yesLabel, noLabel := OutcomeLabels(m)

	outcomes := []domain.VenueOutcome{
		{Label: yesLabel, TokenID: m.Ticker, Probability: yesProb, Position: domain.PositionA},
		{Label: noLabel, Probability: 1 - yesProb, Position: domain.PositionB},
	}

	title := m.Title
	if title == "" {
		title = m.Subtitle
	}

	return domain.VenueMarket{
		VenueID:             domain.VenueJupiter,
		MarketID:            m.Ticker,
		Slug:                strings.ToLower(m.Ticker),
		Title:               title,
		Description:         m.Subtitle,
		Outcomes:            outcomes,
		SupportsDraw:        false,
		OutcomeAProbability: yesProb,
		OutcomeBProbability: 1 - yesProb,
		IsActive:            m.Status == "open",
		IsClosed:            closedStatuses[m.Status],
		StartDate:           parseTime(m.OpenTime),
		EndDate:             parseTime(m.CloseTime),
		Volume:              float64(m.Volume),
		Category:            categorize(m),
	}
}

// DetermineResolution derives the settled state of a raw Kalshi market. It
// is a pure function of the payload: a market resolves only when its status
// is terminal AND its result names a side. A void or absent result means
// unresolved even under a terminal status, since a cancelled market has no
// winner.
func DetermineResolution(m Market) domain.VenueResolution {
	if !resolvedStatuses[m.Status] {
		return domain.VenueResolution{}
	}

	var winner domain.OutcomePosition
	switch m.Result {
	case "yes":
		winner = domain.PositionA
	case "no":
		winner = domain.PositionB
	default:
		return domain.VenueResolution{}
	}

	return domain.VenueResolution{
		Resolved:       true,
		WinningOutcome: winner,
		WinningPrice:   1.0,
		ResolvedAt:     parseTime(m.SettledTime),
	}
}

// categorize buckets a market using its title, sub-titles, ticker, and
// Kalshi's own category hint.
func categorize(m Market) domain.Category {
	text := strings.Join([]string{
		m.Title, m.Subtitle, m.YesSubTitle, m.Ticker, m.EventTicker, m.Category,
	}, " ")
	return normalize.Categorize(text, extraKeywords)
}
