package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/polydraft/venues/internal/domain"
)

// seedLimit bounds how many markets are listed when the tracked-token set
// is empty and needs seeding.
const seedLimit = 200

// PriceRefresher keeps the price cache warm for the tokens a venue is
// currently tracking. When nothing is tracked yet it seeds the set from the
// active market listing.
type PriceRefresher struct {
	adapter domain.VenueAdapter
	prices  domain.PriceCache
	logger  *slog.Logger
}

// NewPriceRefresher creates a new PriceRefresher.
func NewPriceRefresher(adapter domain.VenueAdapter, prices domain.PriceCache, logger *slog.Logger) *PriceRefresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceRefresher{
		adapter: adapter,
		prices:  prices,
		logger:  logger,
	}
}

// Run executes a single refresh pass. Individual token failures inside the
// batch are already filtered by the adapter; only transport-level failures
// escalate.
func (r *PriceRefresher) Run(ctx context.Context) error {
	venue := r.adapter.VenueID()

	tokens, err := r.prices.TrackedTokens(ctx, venue)
	if err != nil {
		return fmt.Errorf("price refresh %s: tracked tokens: %w", venue, err)
	}
	if len(tokens) == 0 {
		tokens, err = r.seed(ctx)
		if err != nil {
			return err
		}
	}
	if len(tokens) == 0 {
		r.logger.Debug("no tokens to refresh", slog.String("venue", string(venue)))
		return nil
	}

	update, err := r.adapter.FetchPrices(ctx, tokens)
	if err != nil {
		return fmt.Errorf("price refresh %s: %w", venue, err)
	}

	if err := r.prices.SetPrices(ctx, venue, update); err != nil {
		return fmt.Errorf("price refresh %s: cache: %w", venue, err)
	}

	r.logger.Info("price refresh complete",
		slog.String("venue", string(venue)),
		slog.Int("requested", len(tokens)),
		slog.Int("refreshed", len(update.TokenPrices)),
	)
	return nil
}

// seed lists active markets and collects their token ids.
func (r *PriceRefresher) seed(ctx context.Context) ([]string, error) {
	markets, err := r.adapter.FetchMarkets(ctx, domain.MarketQuery{Status: "active", Limit: seedLimit})
	if err != nil {
		return nil, fmt.Errorf("price refresh %s: seed: %w", r.adapter.VenueID(), err)
	}

	var tokens []string
	for _, m := range markets {
		tokens = append(tokens, m.TokenIDs()...)
	}
	return tokens, nil
}

// RunLoop runs the refresher on a repeating interval until the context is
// cancelled.
func (r *PriceRefresher) RunLoop(ctx context.Context, interval time.Duration) error {
	if err := r.Run(ctx); err != nil {
		r.logger.Error("price refresh failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("price refresh loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := r.Run(ctx); err != nil {
				r.logger.Error("price refresh failed", slog.String("error", err.Error()))
			}
		}
	}
}
