package normalize

import (
	"time"

	"github.com/polydraft/venues/internal/domain"
)

// ToEvent projects a normalized market into the partial Event record the
// game layer persists. The projection is venue-agnostic; adapters delegate
// here so every venue produces an identical shape.
func ToEvent(m domain.VenueMarket) domain.Event {
	e := domain.Event{
		VenueID:             m.VenueID,
		VenueMarketID:       m.MarketID,
		Slug:                m.Slug,
		Title:               m.Title,
		Description:         m.Description,
		ImageURL:            m.ImageURL,
		OutcomeAProbability: m.OutcomeAProbability,
		OutcomeBProbability: m.OutcomeBProbability,
		SupportsDraw:        m.SupportsDraw,
		DrawProbability:     m.DrawProbability,
		Status:              eventStatus(m),
		Category:            m.Category,
		Volume:              m.Volume,
		EndDate:             m.EndDate,
	}

	if a := m.Outcome(domain.PositionA); a != nil {
		e.OutcomeALabel = a.Label
	}
	if b := m.Outcome(domain.PositionB); b != nil {
		e.OutcomeBLabel = b.Label
	}
	if d := m.Outcome(domain.PositionDraw); d != nil {
		e.DrawLabel = d.Label
	}

	return e
}

// eventStatus collapses venue activity flags into the three-state lifecycle.
// Closed markets map to resolved regardless of whether a winner has been
// determined yet; the resolution checker reports the actual winner.
func eventStatus(m domain.VenueMarket) domain.EventStatus {
	switch {
	case m.IsClosed:
		return domain.EventStatusResolved
	case m.StartDate != nil && m.StartDate.After(time.Now()):
		return domain.EventStatusUpcoming
	case m.IsActive:
		return domain.EventStatusActive
	default:
		return domain.EventStatusUpcoming
	}
}
