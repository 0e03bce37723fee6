package domain

import (
	"context"
	"time"
)

// EventStatus is the three-state lifecycle exposed to the game layer.
type EventStatus string

const (
	EventStatusUpcoming EventStatus = "upcoming"
	EventStatusActive   EventStatus = "active"
	EventStatusResolved EventStatus = "resolved"
)

// Event is the partial record handed to the external persistence/game layer.
// It is the sole output boundary of the venue adapter subsystem: callers
// consume Events without knowing which venue produced them.
type Event struct {
	VenueID       VenueID
	VenueMarketID string
	Slug          string

	Title       string
	Description string
	ImageURL    string

	OutcomeALabel       string
	OutcomeBLabel       string
	OutcomeAProbability float64
	OutcomeBProbability float64

	SupportsDraw    bool
	DrawLabel       string
	DrawProbability *float64

	Status   EventStatus
	Category Category
	Volume   float64
	EndDate  *time.Time
}

// EventSink receives normalized events and resolution outcomes. The actual
// game/persistence layer lives outside this repository; it plugs in here.
type EventSink interface {
	// SyncEvents hands a batch of normalized events to the consumer.
	SyncEvents(ctx context.Context, events []Event) error

	// RecordResolution reports the settled outcome of a single market.
	RecordResolution(ctx context.Context, venueID VenueID, marketID string, res VenueResolution) error
}
