// Package normalize holds the venue-agnostic helpers shared by every
// adapter: freeform-text categorization and structural validation of the
// common market shape.
package normalize

import (
	"strings"

	"github.com/polydraft/venues/internal/domain"
)

// categoryOrder fixes the matching precedence. The first category whose
// keyword list matches wins; unmatched text falls through to entertainment.
var categoryOrder = []domain.Category{
	domain.CategorySports,
	domain.CategoryPolitics,
	domain.CategoryCrypto,
	domain.CategoryEconomy,
}

// keywords maps each category to the substrings that place a market in it.
// Matching is case-insensitive substring matching over the market question,
// tags, and any venue-specific text the adapter chooses to include.
var keywords = map[domain.Category][]string{
	domain.CategorySports: {
		"nfl", "nba", "mlb", "nhl", "soccer", "football", "basketball",
		"baseball", "hockey", "tennis", "golf", "ufc", "boxing", "f1",
		"premier league", "champions league", "la liga", "serie a",
		"super bowl", "world cup", "world series", "playoffs", "finals",
		"grand slam", "olympics", "match winner",
	},
	domain.CategoryPolitics: {
		"election", "president", "presidential", "senate", "congress",
		"governor", "mayor", "vote", "ballot", "primary", "nominee",
		"democrat", "republican", "parliament", "prime minister",
		"white house", "impeach", "cabinet", "supreme court",
	},
	domain.CategoryCrypto: {
		"bitcoin", "btc", "ethereum", "eth", "crypto", "solana", "sol",
		"token", "blockchain", "defi", "nft", "stablecoin", "altcoin",
		"coinbase", "binance", "dogecoin", "xrp",
	},
	domain.CategoryEconomy: {
		"fed", "federal reserve", "interest rate", "rate cut", "rate hike",
		"inflation", "cpi", "gdp", "recession", "unemployment",
		"jobs report", "treasury", "tariff", "debt ceiling",
		"s&p", "nasdaq", "dow jones", "stock",
	},
}

// Categorize buckets freeform market text into the fixed category taxonomy.
// extra lets an adapter append venue-specific keywords (e.g. Kalshi league
// tickers) to the base lists; precedence order is unchanged. Unmatched text
// returns the entertainment default.
func Categorize(text string, extra map[domain.Category][]string) domain.Category {
	haystack := strings.ToLower(text)

	for _, cat := range categoryOrder {
		for _, kw := range keywords[cat] {
			if strings.Contains(haystack, kw) {
				return cat
			}
		}
		for _, kw := range extra[cat] {
			if strings.Contains(haystack, strings.ToLower(kw)) {
				return cat
			}
		}
	}

	return domain.CategoryEntertainment
}
