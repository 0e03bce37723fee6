package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/polydraft/venues/internal/domain"
)

// Snapshotter captures the current active listing of a venue and ships it
// to cold storage.
type Snapshotter struct {
	adapter  domain.VenueAdapter
	archiver domain.SnapshotArchiver
	limit    int
	logger   *slog.Logger
}

// NewSnapshotter creates a new Snapshotter. limit <= 0 falls back to the
// default listing size.
func NewSnapshotter(adapter domain.VenueAdapter, archiver domain.SnapshotArchiver, limit int, logger *slog.Logger) *Snapshotter {
	if limit <= 0 {
		limit = listLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Snapshotter{
		adapter:  adapter,
		archiver: archiver,
		limit:    limit,
		logger:   logger,
	}
}

// Run captures and uploads one snapshot, returning the object path.
func (s *Snapshotter) Run(ctx context.Context) (string, error) {
	venue := s.adapter.VenueID()

	markets, err := s.adapter.FetchMarkets(ctx, domain.MarketQuery{Status: "active", Limit: s.limit})
	if err != nil {
		return "", fmt.Errorf("snapshot %s: %w", venue, err)
	}
	if len(markets) == 0 {
		s.logger.Info("nothing to snapshot", slog.String("venue", string(venue)))
		return "", nil
	}

	path, err := s.archiver.ArchiveMarkets(ctx, venue, markets)
	if err != nil {
		return "", fmt.Errorf("snapshot %s: %w", venue, err)
	}

	s.logger.Info("snapshot archived",
		slog.String("venue", string(venue)),
		slog.Int("markets", len(markets)),
		slog.String("path", path),
	)
	return path, nil
}
