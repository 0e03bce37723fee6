package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/polydraft/venues/internal/domain"
	"github.com/polydraft/venues/internal/pipeline"
	"github.com/polydraft/venues/internal/venue/polymarket"
)

// SyncMode periodically pulls the active venue's market listing, projects it
// into events, and pushes the batch into the sink.
func (a *App) SyncMode(ctx context.Context, deps *Dependencies) error {
	adapter, err := deps.Registry.Default()
	if err != nil {
		return fmt.Errorf("app: sync mode: %w", err)
	}

	sync := pipeline.NewMarketSync(adapter, deps.Sink, deps.MarketCache, a.cfg.Pipeline.MarketLimit, a.logger)
	return sync.RunLoop(ctx, a.cfg.Pipeline.SyncInterval.Std())
}

// RefreshMode keeps the price cache warm for the active venue by polling the
// pricing endpoints on the configured interval.
func (a *App) RefreshMode(ctx context.Context, deps *Dependencies) error {
	adapter, err := deps.Registry.Default()
	if err != nil {
		return fmt.Errorf("app: refresh mode: %w", err)
	}

	refresher := pipeline.NewPriceRefresher(adapter, deps.PriceCache, a.logger)
	return refresher.RunLoop(ctx, a.cfg.Pipeline.RefreshInterval.Std())
}

// StreamMode subscribes to the Polymarket market websocket and forwards
// every price update into the cache. Jupiter has no streaming endpoint;
// use refresh mode for it.
func (a *App) StreamMode(ctx context.Context, deps *Dependencies) error {
	adapter, err := deps.Registry.Get(domain.VenuePolymarket)
	if err != nil {
		return fmt.Errorf("app: stream mode: %w", err)
	}

	markets, err := adapter.FetchMarkets(ctx, domain.MarketQuery{Status: "active", Limit: a.cfg.Pipeline.MarketLimit})
	if err != nil {
		return fmt.Errorf("app: stream mode: list markets: %w", err)
	}

	var assetIDs []string
	for _, m := range markets {
		assetIDs = append(assetIDs, m.TokenIDs()...)
	}
	if len(assetIDs) == 0 {
		return fmt.Errorf("app: stream mode: no tokens to subscribe")
	}

	handler := func(update domain.VenuePriceUpdate) {
		if err := deps.PriceCache.SetPrices(ctx, domain.VenuePolymarket, update); err != nil {
			a.logger.Warn("caching streamed prices failed", slog.String("error", err.Error()))
		}
	}

	feed := polymarket.NewPriceFeed(a.cfg.Polymarket.WsHost, assetIDs, handler, a.logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return feed.Run(ctx)
	})
	return g.Wait()
}

// SnapshotMode captures one snapshot of the active venue's listing to cold
// storage and exits.
func (a *App) SnapshotMode(ctx context.Context, deps *Dependencies) error {
	adapter, err := deps.Registry.Default()
	if err != nil {
		return fmt.Errorf("app: snapshot mode: %w", err)
	}

	snap := pipeline.NewSnapshotter(adapter, deps.Archiver, a.cfg.Pipeline.MarketLimit, a.logger)
	if _, err := snap.Run(ctx); err != nil {
		return fmt.Errorf("app: snapshot mode: %w", err)
	}
	return nil
}

// ResolveMode checks the given market ids for settlement once and exits.
func (a *App) ResolveMode(ctx context.Context, deps *Dependencies) error {
	if len(a.resolveTargets) == 0 {
		return fmt.Errorf("app: resolve mode: no market ids given")
	}

	adapter, err := deps.Registry.Default()
	if err != nil {
		return fmt.Errorf("app: resolve mode: %w", err)
	}

	checker := pipeline.NewResolutionChecker(adapter, deps.Sink, a.logger)
	return checker.Run(ctx, a.resolveTargets)
}
