package kalshi

import "time"

// Market represents a market as returned by the Kalshi Trade API v2. All
// prices are integer cents (0-100).
type Market struct {
	Ticker       string `json:"ticker"`
	EventTicker  string `json:"event_ticker"`
	SeriesTicker string `json:"series_ticker"`
	MarketType   string `json:"market_type"` // "binary", "scalar"
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	YesSubTitle  string `json:"yes_sub_title"`
	NoSubTitle   string `json:"no_sub_title"`

	// Status is one of "unopened", "open", "closed", "determined",
	// "disputed", "amended", "finalized", "settled".
	Status string `json:"status"`

	// Result is "yes", "no", "void", or empty while unsettled.
	Result string `json:"result"`

	YesBid    int64 `json:"yes_bid"`
	YesAsk    int64 `json:"yes_ask"`
	NoBid     int64 `json:"no_bid"`
	NoAsk     int64 `json:"no_ask"`
	LastPrice int64 `json:"last_price"`

	Volume       int64 `json:"volume"`
	Volume24H    int64 `json:"volume_24h"`
	OpenInterest int64 `json:"open_interest"`

	OpenTime       string `json:"open_time"`
	CloseTime      string `json:"close_time"`
	ExpirationTime string `json:"expiration_time"`
	SettledTime    string `json:"settled_time"`

	Category      string `json:"category"`
	CanCloseEarly bool   `json:"can_close_early"`
}

// marketsResponse is the envelope of GET /markets.
type marketsResponse struct {
	Markets []Market `json:"markets"`
	Cursor  string   `json:"cursor"`
}

// marketResponse is the envelope of GET /markets/{ticker}.
type marketResponse struct {
	Market Market `json:"market"`
}

// errorResponse represents a Kalshi API error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// parseTime parses Kalshi's RFC3339 timestamps, returning nil for empty or
// malformed values.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}
