package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polydraft/venues/internal/domain"
)

// memWriter captures uploads in memory.
type memWriter struct {
	path        string
	contentType string
	data        []byte
}

func (w *memWriter) Put(ctx context.Context, path string, data io.Reader, contentType string) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	w.path = path
	w.contentType = contentType
	w.data = b
	return nil
}

func TestArchiveMarkets(t *testing.T) {
	w := &memWriter{}
	a := NewArchiver(w)

	markets := []domain.VenueMarket{
		{VenueID: domain.VenuePolymarket, MarketID: "m1", Title: "first"},
		{VenueID: domain.VenuePolymarket, MarketID: "m2", Title: "second"},
	}

	path, err := a.ArchiveMarkets(context.Background(), domain.VenuePolymarket, markets)
	require.NoError(t, err)
	assert.Equal(t, w.path, path)
	assert.True(t, strings.HasPrefix(path, "snapshots/polymarket/"))
	assert.True(t, strings.HasSuffix(path, ".jsonl"))
	assert.Equal(t, "application/x-ndjson", w.contentType)

	lines := bytes.Split(bytes.TrimRight(w.data, "\n"), []byte("\n"))
	require.Len(t, lines, 2)

	var got domain.VenueMarket
	require.NoError(t, json.Unmarshal(lines[0], &got))
	assert.Equal(t, "m1", got.MarketID)
}

func TestArchiveMarketsEmpty(t *testing.T) {
	w := &memWriter{}
	a := NewArchiver(w)

	path, err := a.ArchiveMarkets(context.Background(), domain.VenueJupiter, nil)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Nil(t, w.data, "nothing uploaded")
}
