package domain

import (
	"context"
	"io"
)

// BlobWriter uploads data to object storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}

// SnapshotArchiver stores point-in-time snapshots of normalized venue
// markets in cold storage, keeping an audit trail for resolution disputes.
type SnapshotArchiver interface {
	// ArchiveMarkets uploads the snapshot and returns the object path.
	ArchiveMarkets(ctx context.Context, venue VenueID, markets []VenueMarket) (string, error)
}
