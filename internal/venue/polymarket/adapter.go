package polymarket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/polydraft/venues/internal/domain"
	"github.com/polydraft/venues/internal/venue/normalize"
)

const (
	// defaultPageSize is the Gamma page size used when paginating listings.
	defaultPageSize = 100

	// maxListLimit caps how many markets one FetchMarkets call will pull.
	maxListLimit = 1000

	// priceConcurrency bounds concurrent CLOB price lookups per batch.
	priceConcurrency = 8
)

// Adapter implements domain.VenueAdapter for Polymarket over the Gamma
// metadata API and the CLOB pricing API.
type Adapter struct {
	gamma  *GammaClient
	clob   *ClobClient
	logger *slog.Logger
}

// NewAdapter creates the Polymarket adapter.
func NewAdapter(gamma *GammaClient, clob *ClobClient, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		gamma:  gamma,
		clob:   clob,
		logger: logger.With(slog.String("venue", string(domain.VenuePolymarket))),
	}
}

// VenueID returns the venue this adapter serves.
func (a *Adapter) VenueID() domain.VenueID { return domain.VenuePolymarket }

// FetchMarkets lists markets from Gamma, applies both validation tiers, and
// returns the normalized survivors. It paginates internally up to q.Limit.
func (a *Adapter) FetchMarkets(ctx context.Context, q domain.MarketQuery) ([]domain.VenueMarket, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	params := ListParams{
		Category: q.Category,
		Search:   q.Search,
		Offset:   q.Offset,
	}
	switch q.Status {
	case "active":
		params.Active = boolPtr(true)
		params.Closed = boolPtr(false)
	case "closed":
		params.Closed = boolPtr(true)
	}
	if !q.Archived {
		params.Archived = boolPtr(false)
	}

	var out []domain.VenueMarket
	for len(out) < limit {
		params.Limit = defaultPageSize
		if remaining := limit - len(out); remaining < defaultPageSize {
			params.Limit = remaining
		}

		page, err := a.gamma.ListMarkets(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("polymarket: fetch markets: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for _, raw := range page {
			vm, ok := a.normalize(raw)
			if !ok {
				continue
			}
			out = append(out, vm)
			if len(out) == limit {
				break
			}
		}

		if len(page) < params.Limit {
			break
		}
		params.Offset += len(page)
	}

	return out, nil
}

// FetchMarket returns a single normalized market by Gamma id.
func (a *Adapter) FetchMarket(ctx context.Context, marketID string) (*domain.VenueMarket, error) {
	raw, err := a.gamma.GetMarket(ctx, marketID)
	if err != nil {
		return nil, fmt.Errorf("polymarket: fetch market %s: %w", marketID, err)
	}

	vm, ok := a.normalize(raw)
	if !ok {
		return nil, fmt.Errorf("polymarket: market %s: %w", marketID, domain.ErrInvalidMarket)
	}
	return &vm, nil
}

// SearchMarkets uses Gamma's server-side search over active markets.
func (a *Adapter) SearchMarkets(ctx context.Context, query string, limit int) ([]domain.VenueMarket, error) {
	return a.FetchMarkets(ctx, domain.MarketQuery{
		Status: "active",
		Search: query,
		Limit:  limit,
	})
}

// FetchPrices looks up CLOB midpoints for the given token ids concurrently.
// A failed token is logged and omitted; it never fails the batch. Polymarket
// cannot map a bare token id back to its market, so only TokenPrices is
// populated.
func (a *Adapter) FetchPrices(ctx context.Context, tokenIDs []string) (domain.VenuePriceUpdate, error) {
	update := domain.VenuePriceUpdate{
		TokenPrices: make(map[string]float64, len(tokenIDs)),
		Timestamp:   time.Now().UTC(),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(priceConcurrency)

	for _, tokenID := range tokenIDs {
		tokenID := tokenID
		g.Go(func() error {
			price, err := a.clob.GetMidpoint(ctx, tokenID)
			if err != nil {
				a.logger.Debug("price lookup failed, skipping token",
					slog.String("token_id", tokenID),
					slog.String("error", err.Error()),
				)
				return nil
			}
			mu.Lock()
			update.TokenPrices[tokenID] = price
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return update, fmt.Errorf("polymarket: fetch prices: %w", err)
	}
	return update, nil
}

// FetchTokenPrice returns the midpoint for one token, falling back to the
// best buy price when the midpoint endpoint has no data.
func (a *Adapter) FetchTokenPrice(ctx context.Context, tokenID string) (float64, error) {
	mid, err := a.clob.GetMidpoint(ctx, tokenID)
	if err == nil {
		return mid, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return a.clob.GetPrice(ctx, tokenID, "buy")
	}
	return 0, err
}

// CheckResolution re-fetches the market and derives its settled state.
func (a *Adapter) CheckResolution(ctx context.Context, marketID string) (domain.VenueResolution, error) {
	raw, err := a.gamma.GetMarket(ctx, marketID)
	if err != nil {
		return domain.VenueResolution{}, fmt.Errorf("polymarket: check resolution %s: %w", marketID, err)
	}
	return DetermineResolution(raw), nil
}

// ToEvent projects a normalized market into the game layer's Event shape.
func (a *Adapter) ToEvent(m domain.VenueMarket) domain.Event {
	return normalize.ToEvent(m)
}

// IsValidMarket applies the common structural validation.
func (a *Adapter) IsValidMarket(m domain.VenueMarket) bool {
	return normalize.ValidateMarket(m)
}

// normalize runs the two-tier validation around the transform. Markets
// failing either tier are dropped, never surfaced as partial markets.
func (a *Adapter) normalize(raw GammaMarket) (domain.VenueMarket, bool) {
	if !IsValidGammaMarket(raw) {
		a.logger.Debug("dropping invalid gamma market", slog.String("market_id", raw.ID))
		return domain.VenueMarket{}, false
	}
	vm := ToVenueMarket(raw)
	if !normalize.ValidateMarket(vm) {
		a.logger.Debug("dropping structurally invalid market", slog.String("market_id", raw.ID))
		return domain.VenueMarket{}, false
	}
	return vm, true
}

func boolPtr(b bool) *bool { return &b }

// Compile-time interface checks.
var (
	_ domain.VenueAdapter   = (*Adapter)(nil)
	_ domain.MarketSearcher = (*Adapter)(nil)
	_ domain.TokenPricer    = (*Adapter)(nil)
)
