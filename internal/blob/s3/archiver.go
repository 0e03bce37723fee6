package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/polydraft/venues/internal/domain"
)

// ArchiveImpl implements domain.SnapshotArchiver by serializing normalized
// markets to JSONL and uploading the result to object storage. Snapshots
// exist as an audit trail: when a resolution is disputed, the archived
// probabilities show what the venue was reporting at the time.
type ArchiveImpl struct {
	writer domain.BlobWriter
}

// NewArchiver creates a new ArchiveImpl on top of any BlobWriter.
func NewArchiver(writer domain.BlobWriter) *ArchiveImpl {
	return &ArchiveImpl{writer: writer}
}

// ArchiveMarkets serializes the snapshot to JSONL and uploads it at
// snapshots/{venue}/{YYYY-MM-DD}/{uuid}.jsonl, returning the object path.
// An empty snapshot uploads nothing and returns an empty path.
func (a *ArchiveImpl) ArchiveMarkets(ctx context.Context, venue domain.VenueID, markets []domain.VenueMarket) (string, error) {
	if len(markets) == 0 {
		return "", nil
	}

	buf, err := marshalJSONL(markets)
	if err != nil {
		return "", fmt.Errorf("s3blob: archive markets marshal: %w", err)
	}

	path := snapshotPath(venue, time.Now().UTC())
	if err := a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson"); err != nil {
		return "", fmt.Errorf("s3blob: archive markets upload: %w", err)
	}

	return path, nil
}

// snapshotPath builds the object key for a snapshot, partitioned by venue
// and day:
//
//	snapshots/polymarket/2025-09-01/5f1b….jsonl
func snapshotPath(venue domain.VenueID, at time.Time) string {
	return fmt.Sprintf("snapshots/%s/%s/%s.jsonl", venue, at.Format("2006-01-02"), uuid.NewString())
}

// marshalJSONL serialises a slice of values as newline-delimited JSON.
// Each element is marshalled as a single compact JSON line followed by '\n'.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// Compile-time interface check.
var _ domain.SnapshotArchiver = (*ArchiveImpl)(nil)
