package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polydraft/venues/internal/domain"
)

// fakeAdapter is a canned-response VenueAdapter for pipeline tests.
type fakeAdapter struct {
	markets     []domain.VenueMarket
	prices      map[string]float64
	resolutions map[string]domain.VenueResolution
	resErr      map[string]error
}

func (f *fakeAdapter) VenueID() domain.VenueID { return domain.VenuePolymarket }

func (f *fakeAdapter) FetchMarkets(ctx context.Context, q domain.MarketQuery) ([]domain.VenueMarket, error) {
	return f.markets, nil
}

func (f *fakeAdapter) FetchMarket(ctx context.Context, marketID string) (*domain.VenueMarket, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeAdapter) FetchPrices(ctx context.Context, tokenIDs []string) (domain.VenuePriceUpdate, error) {
	update := domain.VenuePriceUpdate{
		TokenPrices: make(map[string]float64),
		Timestamp:   time.Now().UTC(),
	}
	for _, id := range tokenIDs {
		if p, ok := f.prices[id]; ok {
			update.TokenPrices[id] = p
		}
	}
	return update, nil
}

func (f *fakeAdapter) CheckResolution(ctx context.Context, marketID string) (domain.VenueResolution, error) {
	if err := f.resErr[marketID]; err != nil {
		return domain.VenueResolution{}, err
	}
	return f.resolutions[marketID], nil
}

func (f *fakeAdapter) ToEvent(m domain.VenueMarket) domain.Event {
	return domain.Event{VenueID: m.VenueID, VenueMarketID: m.MarketID, Title: m.Title}
}

func (f *fakeAdapter) IsValidMarket(m domain.VenueMarket) bool { return true }

// recordingSink captures what the pipelines hand to the game layer.
type recordingSink struct {
	batches     [][]domain.Event
	resolutions map[string]domain.VenueResolution
}

func newRecordingSink() *recordingSink {
	return &recordingSink{resolutions: make(map[string]domain.VenueResolution)}
}

func (s *recordingSink) SyncEvents(ctx context.Context, events []domain.Event) error {
	s.batches = append(s.batches, events)
	return nil
}

func (s *recordingSink) RecordResolution(ctx context.Context, venue domain.VenueID, marketID string, res domain.VenueResolution) error {
	s.resolutions[marketID] = res
	return nil
}

// memPriceCache is an in-memory PriceCache.
type memPriceCache struct {
	prices  map[string]float64
	tracked []string
}

func (c *memPriceCache) SetPrices(ctx context.Context, venue domain.VenueID, update domain.VenuePriceUpdate) error {
	for id, p := range update.TokenPrices {
		c.prices[id] = p
	}
	return nil
}

func (c *memPriceCache) GetPrice(ctx context.Context, venue domain.VenueID, tokenID string) (float64, time.Time, error) {
	p, ok := c.prices[tokenID]
	if !ok {
		return 0, time.Time{}, domain.ErrNotFound
	}
	return p, time.Now(), nil
}

func (c *memPriceCache) TrackedTokens(ctx context.Context, venue domain.VenueID) ([]string, error) {
	return c.tracked, nil
}

func venueMarket(id string) domain.VenueMarket {
	return domain.VenueMarket{
		VenueID:  domain.VenuePolymarket,
		MarketID: id,
		Title:    "market " + id,
		Outcomes: []domain.VenueOutcome{
			{Label: "Yes", TokenID: "tok-" + id, Probability: 0.6, Position: domain.PositionA},
			{Label: "No", Probability: 0.4, Position: domain.PositionB},
		},
	}
}

func TestMarketSyncRun(t *testing.T) {
	adapter := &fakeAdapter{markets: []domain.VenueMarket{venueMarket("m1"), venueMarket("m2")}}
	sink := newRecordingSink()

	sync := NewMarketSync(adapter, sink, nil, 0, nil)
	require.NoError(t, sync.Run(context.Background()))

	require.Len(t, sink.batches, 1)
	require.Len(t, sink.batches[0], 2)
	assert.Equal(t, "m1", sink.batches[0][0].VenueMarketID)
	assert.Equal(t, "m2", sink.batches[0][1].VenueMarketID)
}

func TestPriceRefresherSeedsWhenUntracked(t *testing.T) {
	adapter := &fakeAdapter{
		markets: []domain.VenueMarket{venueMarket("m1")},
		prices:  map[string]float64{"tok-m1": 0.61},
	}
	cache := &memPriceCache{prices: make(map[string]float64)}

	r := NewPriceRefresher(adapter, cache, nil)
	require.NoError(t, r.Run(context.Background()))

	p, _, err := cache.GetPrice(context.Background(), domain.VenuePolymarket, "tok-m1")
	require.NoError(t, err)
	assert.Equal(t, 0.61, p)
}

func TestPriceRefresherUsesTrackedTokens(t *testing.T) {
	adapter := &fakeAdapter{prices: map[string]float64{"tok-a": 0.3, "tok-b": 0.7}}
	cache := &memPriceCache{
		prices:  make(map[string]float64),
		tracked: []string{"tok-a", "tok-b"},
	}

	r := NewPriceRefresher(adapter, cache, nil)
	require.NoError(t, r.Run(context.Background()))

	assert.Len(t, cache.prices, 2)
}

func TestResolutionCheckerRun(t *testing.T) {
	adapter := &fakeAdapter{
		resolutions: map[string]domain.VenueResolution{
			"settled": {Resolved: true, WinningOutcome: domain.PositionA, WinningPrice: 1.0},
			"open":    {},
		},
		resErr: map[string]error{
			"flaky": errors.New("boom"),
		},
	}
	sink := newRecordingSink()

	c := NewResolutionChecker(adapter, sink, nil)
	require.NoError(t, c.Run(context.Background(), []string{"settled", "open", "flaky"}))

	// Only the confirmed resolution reaches the sink; the unresolved market
	// and the failed lookup are skipped.
	require.Len(t, sink.resolutions, 1)
	assert.Equal(t, domain.PositionA, sink.resolutions["settled"].WinningOutcome)
}

func TestResolutionCheckerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewResolutionChecker(&fakeAdapter{}, newRecordingSink(), nil)
	err := c.Run(ctx, []string{"m1"})
	assert.ErrorIs(t, err, context.Canceled)
}
