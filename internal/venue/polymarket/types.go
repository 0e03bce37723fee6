package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// flexBool unmarshals from JSON bool or string ("true"/"false") so Gamma API
// responses work whether flags are sent as bool or string.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// flexStrings unmarshals from either a literal JSON array of strings or a
// JSON-encoded string containing one (the Gamma API ships both shapes for
// outcomes, outcomePrices, and clobTokenIds). Malformed input leaves the
// slice nil rather than erroring; downstream parsing supplies neutral
// defaults.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*f = arr
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = nil
		return nil
	}
	if err := json.Unmarshal([]byte(s), &arr); err != nil {
		*f = nil
		return nil
	}
	*f = arr
	return nil
}

// flexFloat unmarshals from a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(n)
	return nil
}

// GammaMarket represents a market as returned by the Polymarket Gamma API.
type GammaMarket struct {
	ID            string      `json:"id"`
	Question      string      `json:"question"`
	Slug          string      `json:"slug"`
	ConditionID   string      `json:"conditionId"`
	Description   string      `json:"description"`
	Image         string      `json:"image"`
	Active        flexBool    `json:"active"`
	Closed        flexBool    `json:"closed"`
	Archived      flexBool    `json:"archived"`
	Outcomes      flexStrings `json:"outcomes"`
	OutcomePrices flexStrings `json:"outcomePrices"`
	ClobTokenIDs  flexStrings `json:"clobTokenIds"`
	Volume        flexFloat   `json:"volume"`
	StartDate     string      `json:"startDate"`
	EndDate       string      `json:"endDate"`
	Category      string      `json:"category"`
	Tags          flexStrings `json:"tags"`
}

// neutralPrice is the fallback applied when outcome prices are missing or
// malformed: a flat 50/50 split across a binary market.
const neutralPrice = 0.5

// ParsedPrices returns the outcome prices as floats. Missing or malformed
// price data degrades to the neutral [0.5, 0.5] split rather than erroring.
func (m *GammaMarket) ParsedPrices() []float64 {
	if len(m.OutcomePrices) == 0 {
		return []float64{neutralPrice, neutralPrice}
	}

	prices := make([]float64, 0, len(m.OutcomePrices))
	for _, raw := range m.OutcomePrices {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return []float64{neutralPrice, neutralPrice}
		}
		prices = append(prices, p)
	}
	return prices
}

// parseDate accepts the timestamp shapes Gamma ships (RFC3339 with or
// without sub-second precision, or a bare date).
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
