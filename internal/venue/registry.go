// Package venue provides the adapter registry mapping venue ids to adapter
// instances. The registry is built explicitly at startup (see app.Wire) and
// injected into callers; there is no import-side-effect registration.
package venue

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/polydraft/venues/internal/config"
	"github.com/polydraft/venues/internal/domain"
)

// Registry maps venue ids to adapter instances. It is populated once during
// wiring and read-mostly afterwards; Unregister and Clear exist for test
// teardown only.
type Registry struct {
	mu       sync.RWMutex
	adapters map[domain.VenueID]domain.VenueAdapter
	logger   *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		adapters: make(map[domain.VenueID]domain.VenueAdapter),
		logger:   logger.With(slog.String("component", "venue_registry")),
	}
}

// Register adds an adapter under its venue id. Registering over an existing
// id overwrites it and logs a warning: last registration wins.
func (r *Registry) Register(a domain.VenueAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := a.VenueID()
	if _, exists := r.adapters[id]; exists {
		r.logger.Warn("overwriting registered adapter", slog.String("venue", string(id)))
	}
	r.adapters[id] = a
}

// Unregister removes the adapter for a venue id. Intended for test teardown.
func (r *Registry) Unregister(id domain.VenueID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.adapters, id)
}

// Clear removes every registered adapter. Intended for test teardown.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters = make(map[domain.VenueID]domain.VenueAdapter)
}

// Get returns the adapter for a venue id. A missing adapter is a hard error:
// it means the process was wired wrong, not that upstream data is missing.
func (r *Registry) Get(id domain.VenueID) (domain.VenueAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[id]
	if !ok {
		return nil, fmt.Errorf("venue: %w: %s", domain.ErrNotRegistered, id)
	}
	return a, nil
}

// Lookup is the soft variant of Get: it returns nil for an unknown id.
func (r *Registry) Lookup(id domain.VenueID) domain.VenueAdapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.adapters[id]
}

// DefaultVenueID delegates to the venue config's active-venue selection. The
// registry holds no independent notion of "default".
func (r *Registry) DefaultVenueID() domain.VenueID {
	return config.ActiveVenueID()
}

// Default returns the adapter for the currently active venue.
func (r *Registry) Default() (domain.VenueAdapter, error) {
	return r.Get(r.DefaultVenueID())
}

// VenueIDs returns the ids of all registered adapters.
func (r *Registry) VenueIDs() []domain.VenueID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]domain.VenueID, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	return ids
}
