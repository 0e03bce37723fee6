package kalshi

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/polydraft/venues/internal/domain"
	"github.com/polydraft/venues/internal/venue/normalize"
)

const (
	// pageSize is the Kalshi page size used when paginating listings.
	pageSize = 100

	// maxListLimit caps how many markets one FetchMarkets call will pull.
	maxListLimit = 1000

	// searchPoolSize bounds how many open markets the client-side search
	// scans. Kalshi has no server-side search endpoint, so search quality
	// degrades beyond this window; a known scalability limit.
	searchPoolSize = 200

	// priceConcurrency bounds concurrent per-ticker lookups per batch.
	priceConcurrency = 8
)

// Adapter implements domain.VenueAdapter for Jupiter Predictions over the
// Kalshi Trade API v2.
type Adapter struct {
	client *Client
	logger *slog.Logger
}

// NewAdapter creates the Jupiter/Kalshi adapter.
func NewAdapter(client *Client, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		client: client,
		logger: logger.With(slog.String("venue", string(domain.VenueJupiter))),
	}
}

// VenueID returns the venue this adapter serves.
func (a *Adapter) VenueID() domain.VenueID { return domain.VenueJupiter }

// FetchMarkets lists markets via cursor pagination, applies both validation
// tiers, and returns the normalized survivors up to q.Limit. Kalshi has no
// category or search filter server-side, so both are applied after
// normalization.
func (a *Adapter) FetchMarkets(ctx context.Context, q domain.MarketQuery) ([]domain.VenueMarket, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = pageSize
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	params := ListParams{
		Limit:  pageSize,
		Status: StatusForIntent(q.Status),
	}
	needle := strings.ToLower(q.Search)

	var out []domain.VenueMarket
	for len(out) < limit {
		page, cursor, err := a.client.ListMarkets(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("jupiter: fetch markets: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for _, raw := range page {
			vm, ok := a.normalize(raw)
			if !ok {
				continue
			}
			if q.Category != "" && string(vm.Category) != q.Category {
				continue
			}
			if needle != "" && !matchesSearch(vm, needle) {
				continue
			}
			out = append(out, vm)
			if len(out) == limit {
				break
			}
		}

		if cursor == "" {
			break
		}
		params.Cursor = cursor
	}

	return out, nil
}

// FetchMarket returns a single normalized market by ticker.
func (a *Adapter) FetchMarket(ctx context.Context, marketID string) (*domain.VenueMarket, error) {
	raw, err := a.client.GetMarket(ctx, marketID)
	if err != nil {
		return nil, fmt.Errorf("jupiter: fetch market %s: %w", marketID, err)
	}

	vm, ok := a.normalize(raw)
	if !ok {
		return nil, fmt.Errorf("jupiter: market %s: %w", marketID, domain.ErrInvalidMarket)
	}
	return &vm, nil
}

// SearchMarkets fetches a bounded page of open markets and filters
// client-side by substring match on title, subtitle, and ticker. Kalshi has
// no server-side search endpoint.
func (a *Adapter) SearchMarkets(ctx context.Context, query string, limit int) ([]domain.VenueMarket, error) {
	if limit <= 0 {
		limit = pageSize
	}

	pool, err := a.FetchMarkets(ctx, domain.MarketQuery{Status: "active", Limit: searchPoolSize})
	if err != nil {
		return nil, fmt.Errorf("jupiter: search markets: %w", err)
	}

	needle := strings.ToLower(query)
	var out []domain.VenueMarket
	for _, vm := range pool {
		if matchesSearch(vm, needle) {
			out = append(out, vm)
			if len(out) == limit {
				break
			}
		}
	}

	return out, nil
}

// matchesSearch reports whether a normalized market matches a lowercased
// search needle on title, description, or ticker.
func matchesSearch(vm domain.VenueMarket, needle string) bool {
	return strings.Contains(strings.ToLower(vm.Title), needle) ||
		strings.Contains(strings.ToLower(vm.Description), needle) ||
		strings.Contains(strings.ToLower(vm.MarketID), needle)
}

// FetchPrices refreshes yes-probabilities for the given tickers
// concurrently. A ticker is its own market id, so Prices is keyed per
// market; TokenPrices carries the raw converted value. A failed ticker is
// logged and omitted; it never fails the batch.
func (a *Adapter) FetchPrices(ctx context.Context, tokenIDs []string) (domain.VenuePriceUpdate, error) {
	update := domain.VenuePriceUpdate{
		Prices:      make(map[string]domain.MarketPrices, len(tokenIDs)),
		TokenPrices: make(map[string]float64, len(tokenIDs)),
		Timestamp:   time.Now().UTC(),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(priceConcurrency)

	for _, ticker := range tokenIDs {
		ticker := ticker
		g.Go(func() error {
			raw, err := a.client.GetMarket(ctx, ticker)
			if err != nil {
				a.logger.Debug("price lookup failed, skipping ticker",
					slog.String("ticker", ticker),
					slog.String("error", err.Error()),
				)
				return nil
			}

			yes := YesProbability(raw)
			mu.Lock()
			update.Prices[ticker] = domain.MarketPrices{
				OutcomeAProbability: yes,
				OutcomeBProbability: 1 - yes,
			}
			update.TokenPrices[ticker] = yes
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return update, fmt.Errorf("jupiter: fetch prices: %w", err)
	}
	return update, nil
}

// FetchTokenPrice returns the yes-probability for a single ticker.
func (a *Adapter) FetchTokenPrice(ctx context.Context, tokenID string) (float64, error) {
	raw, err := a.client.GetMarket(ctx, tokenID)
	if err != nil {
		return 0, fmt.Errorf("jupiter: fetch token price %s: %w", tokenID, err)
	}
	return YesProbability(raw), nil
}

// CheckResolution re-fetches the market and derives its settled state.
func (a *Adapter) CheckResolution(ctx context.Context, marketID string) (domain.VenueResolution, error) {
	raw, err := a.client.GetMarket(ctx, marketID)
	if err != nil {
		return domain.VenueResolution{}, fmt.Errorf("jupiter: check resolution %s: %w", marketID, err)
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

// normalize runs the two-tier validation around the transform.
func (a *Adapter) normalize(raw Market) (domain.VenueMarket, bool) {
	if !IsValidKalshiMarket(raw) {
		a.logger.Debug("dropping invalid kalshi market", slog.String("ticker", raw.Ticker))
		return domain.VenueMarket{}, false
	}
	vm := ToVenueMarket(raw)
	if !normalize.ValidateMarket(vm) {
		a.logger.Debug("dropping structurally invalid market", slog.String("ticker", raw.Ticker))
		return domain.VenueMarket{}, false
	}
	return vm, true
}

// Compile-time interface checks.
var (
	_ domain.VenueAdapter   = (*Adapter)(nil)
	_ domain.MarketSearcher = (*Adapter)(nil)
	_ domain.TokenPricer    = (*Adapter)(nil)
)
