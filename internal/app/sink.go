package app

import (
	"context"
	"log/slog"

	"github.com/polydraft/venues/internal/domain"
)

// LogSink is an EventSink that records synced events and resolutions to the
// structured log. It stands in for the game layer's persistence when the
// service runs standalone.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger.With(slog.String("component", "sink"))}
}

// SyncEvents logs a batch summary at Info and each event at Debug.
func (s *LogSink) SyncEvents(ctx context.Context, events []domain.Event) error {
	s.logger.InfoContext(ctx, "events synced", slog.Int("count", len(events)))
	for _, ev := range events {
		s.logger.DebugContext(ctx, "event",
			slog.String("venue", string(ev.VenueID)),
			slog.String("market_id", ev.VenueMarketID),
			slog.String("status", string(ev.Status)),
			slog.String("category", string(ev.Category)),
			slog.Float64("prob_a", ev.OutcomeAProbability),
		)
	}
	return nil
}

// RecordResolution logs a confirmed resolution.
func (s *LogSink) RecordResolution(ctx context.Context, venue domain.VenueID, marketID string, res domain.VenueResolution) error {
	s.logger.InfoContext(ctx, "resolution recorded",
		slog.String("venue", string(venue)),
		slog.String("market_id", marketID),
		slog.String("winner", string(res.WinningOutcome)),
		slog.Float64("winning_price", res.WinningPrice),
	)
	return nil
}

// Compile-time interface check.
var _ domain.EventSink = (*LogSink)(nil)
