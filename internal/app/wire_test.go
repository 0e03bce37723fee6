package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polydraft/venues/internal/config"
	"github.com/polydraft/venues/internal/domain"
)

func TestNeedsRedis(t *testing.T) {
	// Every mode that caches listings or prices needs Redis, including sync.
	for _, mode := range []string{"sync", "refresh", "stream"} {
		assert.True(t, needsRedis(mode), mode)
	}
	for _, mode := range []string{"snapshot", "resolve"} {
		assert.False(t, needsRedis(mode), mode)
	}
}

func TestNeedsS3(t *testing.T) {
	assert.True(t, needsS3("snapshot"))
	for _, mode := range []string{"sync", "refresh", "stream", "resolve"} {
		assert.False(t, needsS3(mode), mode)
	}
}

func TestWireRegistersBothVenues(t *testing.T) {
	cfg := config.Defaults()
	cfg.Mode = "resolve"

	deps, cleanup, err := Wire(context.Background(), &cfg, nil)
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, deps.Sink)
	assert.Len(t, deps.Registry.VenueIDs(), 2)

	for _, id := range []domain.VenueID{domain.VenuePolymarket, domain.VenueJupiter} {
		adapter, err := deps.Registry.Get(id)
		require.NoError(t, err)
		assert.Equal(t, id, adapter.VenueID())
	}

	// Resolve mode carries no caches or blob storage.
	assert.Nil(t, deps.PriceCache)
	assert.Nil(t, deps.MarketCache)
	assert.Nil(t, deps.Archiver)
}
