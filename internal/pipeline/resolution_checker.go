package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/polydraft/venues/internal/domain"
)

// ResolutionChecker probes a set of markets for settlement and records any
// confirmed resolutions with the sink. Unresolved markets are left alone:
// resolution is derived conservatively, so "not resolved yet" is the safe
// answer for anything ambiguous.
type ResolutionChecker struct {
	adapter domain.VenueAdapter
	sink    domain.EventSink
	logger  *slog.Logger
}

// NewResolutionChecker creates a new ResolutionChecker.
func NewResolutionChecker(adapter domain.VenueAdapter, sink domain.EventSink, logger *slog.Logger) *ResolutionChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolutionChecker{
		adapter: adapter,
		sink:    sink,
		logger:  logger,
	}
}

// Run checks every market id once. A failed lookup is logged and skipped so
// one flaky market cannot block the rest of the batch; context cancellation
// stops the run.
func (c *ResolutionChecker) Run(ctx context.Context, marketIDs []string) error {
	venue := c.adapter.VenueID()
	resolved := 0

	for _, id := range marketIDs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("resolution check cancelled: %w", err)
		}

		res, err := c.adapter.CheckResolution(ctx, id)
		if err != nil {
			c.logger.Warn("resolution check failed",
				slog.String("market_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		if !res.Resolved {
			c.logger.Debug("market not resolved", slog.String("market_id", id))
			continue
		}

		if err := c.sink.RecordResolution(ctx, venue, id, res); err != nil {
			return fmt.Errorf("recording resolution %s: %w", id, err)
		}

		resolved++
		c.logger.Info("market resolved",
			slog.String("market_id", id),
			slog.String("winner", string(res.WinningOutcome)),
		)
	}

	c.logger.Info("resolution check complete",
		slog.String("venue", string(venue)),
		slog.Int("checked", len(marketIDs)),
		slog.Int("resolved", resolved),
	)
	return nil
}
