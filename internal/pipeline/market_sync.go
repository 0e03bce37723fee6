// Package pipeline contains the periodic jobs that pull venue data through
// the adapters and push the results into caches, sinks, and cold storage.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/polydraft/venues/internal/domain"
)

// listLimit bounds how many markets a single sync run pulls per venue.
const listLimit = 500

// MarketSync pulls the active market listing from a venue adapter, projects
// each market into an Event, and hands the batch to the sink. When a market
// cache is provided the listing and its members are also cached.
type MarketSync struct {
	adapter domain.VenueAdapter
	sink    domain.EventSink
	markets domain.MarketCache
	limit   int
	logger  *slog.Logger
}

// NewMarketSync creates a new MarketSync. markets may be nil to skip
// caching; limit <= 0 falls back to the default.
func NewMarketSync(adapter domain.VenueAdapter, sink domain.EventSink, markets domain.MarketCache, limit int, logger *slog.Logger) *MarketSync {
	if limit <= 0 {
		limit = listLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MarketSync{
		adapter: adapter,
		sink:    sink,
		markets: markets,
		limit:   limit,
		logger:  logger,
	}
}

// Run executes a single sync pass.
func (s *MarketSync) Run(ctx context.Context) error {
	venue := s.adapter.VenueID()

	markets, err := s.adapter.FetchMarkets(ctx, domain.MarketQuery{Status: "active", Limit: s.limit})
	if err != nil {
		return fmt.Errorf("market sync %s: %w", venue, err)
	}

	events := make([]domain.Event, 0, len(markets))
	for _, m := range markets {
		events = append(events, s.adapter.ToEvent(m))
	}

	if err := s.sink.SyncEvents(ctx, events); err != nil {
		return fmt.Errorf("market sync %s: sink: %w", venue, err)
	}

	if s.markets != nil {
		if err := s.markets.SetListing(ctx, venue, "active", markets); err != nil {
			s.logger.Warn("caching listing failed", slog.String("error", err.Error()))
		}
		for _, m := range markets {
			if err := s.markets.SetMarket(ctx, m); err != nil {
				s.logger.Warn("caching market failed",
					slog.String("market_id", m.MarketID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	s.logger.Info("market sync complete",
		slog.String("venue", string(venue)),
		slog.Int("markets", len(markets)),
	)
	return nil
}

// RunLoop runs the sync on a repeating interval until the context is
// cancelled.
func (s *MarketSync) RunLoop(ctx context.Context, interval time.Duration) error {
	// Run immediately on start.
	if err := s.Run(ctx); err != nil {
		s.logger.Error("market sync failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("market sync loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := s.Run(ctx); err != nil {
				s.logger.Error("market sync failed", slog.String("error", err.Error()))
			}
		}
	}
}
