package polymarket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polydraft/venues/internal/domain"
)

func newTestAdapter(t *testing.T, gammaHandler, clobHandler http.HandlerFunc) *Adapter {
	t.Helper()

	gammaSrv := httptest.NewServer(gammaHandler)
	t.Cleanup(gammaSrv.Close)

	clobSrv := httptest.NewServer(clobHandler)
	t.Cleanup(clobSrv.Close)

	return NewAdapter(NewGammaClient(gammaSrv.URL), NewClobClient(clobSrv.URL), nil)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestFetchMarketsFiltersInvalid(t *testing.T) {
	gamma := func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("active"))
		assert.Equal(t, "false", q.Get("closed"))
		assert.Equal(t, "false", q.Get("archived"))

		writeJSON(t, w, []GammaMarket{
			gammaBinary(),
			{
				// Four outcomes: dropped by the raw tier.
				ID:            "bad-multi",
				Question:      "Which team wins the division?",
				Outcomes:      flexStrings{"A", "B", "C", "D"},
				OutcomePrices: flexStrings{"0.25", "0.25", "0.25", "0.25"},
			},
			{
				// Probabilities sum to 0.2: dropped by the structural tier.
				ID:            "bad-sum",
				Question:      "Sparse book market",
				Outcomes:      flexStrings{"Yes", "No"},
				OutcomePrices: flexStrings{"0.1", "0.1"},
			},
		})
	}

	a := newTestAdapter(t, gamma, func(w http.ResponseWriter, r *http.Request) {})

	got, err := a.FetchMarkets(context.Background(), domain.MarketQuery{Status: "active", Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "512329", got[0].MarketID)
}

func TestFetchMarketInvalidMarket(t *testing.T) {
	gamma := func(w http.ResponseWriter, r *http.Request) {
		m := gammaBinary()
		m.Archived = true
		writeJSON(t, w, m)
	}

	a := newTestAdapter(t, gamma, func(w http.ResponseWriter, r *http.Request) {})

	_, err := a.FetchMarket(context.Background(), "512329")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidMarket)
}

func TestFetchMarketNotFound(t *testing.T) {
	gamma := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}

	a := newTestAdapter(t, gamma, func(w http.ResponseWriter, r *http.Request) {})

	_, err := a.FetchMarket(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFetchPricesPartialFailure(t *testing.T) {
	clob := func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("token_id") {
		case "tok-yes":
			writeJSON(t, w, map[string]string{"mid": "0.62"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}

	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {}, clob)

	update, err := a.FetchPrices(context.Background(), []string{"tok-yes", "tok-gone"})
	require.NoError(t, err)

	// Failed tokens are skipped, never escalated.
	require.Len(t, update.TokenPrices, 1)
	assert.Equal(t, 0.62, update.TokenPrices["tok-yes"])
	assert.False(t, update.Timestamp.IsZero())
}

func TestFetchTokenPriceFallback(t *testing.T) {
	clob := func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/midpoint":
			w.WriteHeader(http.StatusNotFound)
		case "/price":
			assert.Equal(t, "buy", r.URL.Query().Get("side"))
			writeJSON(t, w, map[string]string{"price": "0.58"})
		}
	}

	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {}, clob)

	price, err := a.FetchTokenPrice(context.Background(), "tok-yes")
	require.NoError(t, err)
	assert.Equal(t, 0.58, price)
}

func TestCheckResolutionConservative(t *testing.T) {
	m := gammaBinary()
	m.Closed = true
	m.OutcomePrices = flexStrings{"0.97", "0.03"}

	gamma := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, m)
	}

	a := newTestAdapter(t, gamma, func(w http.ResponseWriter, r *http.Request) {})

	res, err := a.CheckResolution(context.Background(), "512329")
	require.NoError(t, err)
	assert.False(t, res.Resolved)
}

func TestCheckResolutionErrorSurfaces(t *testing.T) {
	gamma := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}

	a := newTestAdapter(t, gamma, func(w http.ResponseWriter, r *http.Request) {})

	_, err := a.CheckResolution(context.Background(), "512329")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
}
