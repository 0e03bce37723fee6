package kalshi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polydraft/venues/internal/domain"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAdapter(NewClient(srv.URL, ""), nil)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func tickerMarket(ticker string) Market {
	m := openBinary()
	m.Ticker = ticker
	return m
}

func TestFetchMarketsCursorPagination(t *testing.T) {
	requests := 0
	handler := func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "open", r.URL.Query().Get("status"))

		switch r.URL.Query().Get("cursor") {
		case "":
			writeJSON(t, w, marketsResponse{
				Markets: []Market{tickerMarket("T1"), tickerMarket("T2")},
				Cursor:  "page2",
			})
		case "page2":
			writeJSON(t, w, marketsResponse{
				Markets: []Market{tickerMarket("T3"), tickerMarket("T4")},
			})
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	}

	a := newTestAdapter(t, handler)

	got, err := a.FetchMarkets(context.Background(), domain.MarketQuery{Status: "active", Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
	require.Len(t, got, 3)
	assert.Equal(t, "T1", got[0].MarketID)
	assert.Equal(t, "T3", got[2].MarketID)
}

func TestFetchMarketsDropsInvalid(t *testing.T) {
	scalar := tickerMarket("SCALAR")
	scalar.MarketType = "scalar"
	voided := tickerMarket("VOID")
	voided.Result = "void"

	handler := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, marketsResponse{
			Markets: []Market{scalar, voided, tickerMarket("GOOD")},
		})
	}

	a := newTestAdapter(t, handler)

	got, err := a.FetchMarkets(context.Background(), domain.MarketQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GOOD", got[0].MarketID)
}

func TestFetchPrices(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ticker := strings.TrimPrefix(r.URL.Path, "/markets/")
		switch ticker {
		case "T1":
			m := tickerMarket("T1")
			m.LastPrice = 72
			writeJSON(t, w, marketResponse{Market: m})
		case "T2":
			writeJSON(t, w, marketResponse{Market: tickerMarket("T2")})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}

	a := newTestAdapter(t, handler)

	update, err := a.FetchPrices(context.Background(), []string{"T1", "T2", "GONE"})
	require.NoError(t, err)

	// A ticker is its own market id, so both maps are populated; the failed
	// ticker is skipped.
	require.Len(t, update.Prices, 2)
	require.Len(t, update.TokenPrices, 2)

	assert.InDelta(t, 0.72, update.Prices["T1"].OutcomeAProbability, 1e-9)
	assert.InDelta(t, 0.28, update.Prices["T1"].OutcomeBProbability, 1e-9)
	assert.InDelta(t, 0.65, update.TokenPrices["T2"], 1e-9)
}

func TestFetchMarketsSearchFilter(t *testing.T) {
	btc := tickerMarket("KXBTC-T100")
	btc.Title = "Bitcoin above $100k?"
	fed := tickerMarket("KXFED-HIKE")
	fed.Title = "Fed hikes rates in June?"

	handler := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, marketsResponse{Markets: []Market{btc, fed}})
	}

	a := newTestAdapter(t, handler)

	// A search term in the listing query filters client-side, same as the
	// dedicated search path.
	got, err := a.FetchMarkets(context.Background(), domain.MarketQuery{Limit: 10, Search: "Bitcoin"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "KXBTC-T100", got[0].MarketID)
}

func TestSearchMarketsClientSide(t *testing.T) {
	btc := tickerMarket("KXBTC-T100")
	btc.Title = "Bitcoin above $100k?"
	fed := tickerMarket("KXFED-HIKE")
	fed.Title = "Fed hikes rates in June?"

	handler := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, marketsResponse{Markets: []Market{btc, fed}})
	}

	a := newTestAdapter(t, handler)

	got, err := a.SearchMarkets(context.Background(), "bitcoin", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "KXBTC-T100", got[0].MarketID)
}

func TestCheckResolution(t *testing.T) {
	settled := tickerMarket("T1")
	settled.Status = "settled"
	settled.Result = "yes"
	settled.SettledTime = "2026-04-01T00:05:00Z"

	handler := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, marketResponse{Market: settled})
	}

	a := newTestAdapter(t, handler)

	res, err := a.CheckResolution(context.Background(), "T1")
	require.NoError(t, err)
	require.True(t, res.Resolved)
	assert.Equal(t, domain.PositionA, res.WinningOutcome)
	assert.Equal(t, 1.0, res.WinningPrice)
}

func TestFetchMarketNotFound(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}

	a := newTestAdapter(t, handler)

	_, err := a.FetchMarket(context.Background(), "GONE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
