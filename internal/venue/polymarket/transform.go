package polymarket

import (
	"strings"

	"github.com/polydraft/venues/internal/domain"
	"github.com/polydraft/venues/internal/venue/normalize"
)

// resolvedPriceThreshold is the settled price at which an outcome counts as
// the winner of a closed market.
const resolvedPriceThreshold = 0.99

// IsValidGammaMarket is the raw-tier validation applied before transforming.
// A market must carry 2 or 3 outcomes, must not be archived, and its parsed
// price array must cover every outcome.
func IsValidGammaMarket(m GammaMarket) bool {
	if n := len(m.Outcomes); n < 2 || n > 3 {
		return false
	}
	if bool(m.Archived) {
		return false
	}
	return len(m.ParsedPrices()) >= len(m.Outcomes)
}

// ToVenueMarket maps a raw Gamma market into the common domain model.
// Callers are expected to have checked IsValidGammaMarket first.
func ToVenueMarket(m GammaMarket) domain.VenueMarket {
	prices := m.ParsedPrices()
	positions := []domain.OutcomePosition{domain.PositionA, domain.PositionB, domain.PositionDraw}

	outcomes := make([]domain.VenueOutcome, 0, len(m.Outcomes))
	for i, label := range m.Outcomes {
		if i >= len(positions) {
			break
		}
		o := domain.VenueOutcome{
			Label:    label,
			Position: positions[i],
		}
		if i < len(prices) {
			o.Probability = normalize.Clamp01(prices[i])
		}
		if i < len(m.ClobTokenIDs) {
			o.TokenID = m.ClobTokenIDs[i]
		}
		outcomes = append(outcomes, o)
	}

	vm := domain.VenueMarket{
		VenueID:      domain.VenuePolymarket,
		MarketID:     m.ID,
		Slug:         m.Slug,
		ConditionID:  m.ConditionID,
		Title:        m.Question,
		Description:  m.Description,
		ImageURL:     m.Image,
		Outcomes:     outcomes,
		SupportsDraw: len(outcomes) == 3,
		IsActive:     bool(m.Active),
		IsClosed:     bool(m.Closed),
		IsArchived:   bool(m.Archived),
		StartDate:    parseDate(m.StartDate),
		EndDate:      parseDate(m.EndDate),
		Volume:       float64(m.Volume),
		Category:     categorize(m),
	}

	if len(outcomes) > 0 {
		vm.OutcomeAProbability = outcomes[0].Probability
	}
	if len(outcomes) > 1 {
		vm.OutcomeBProbability = outcomes[1].Probability
	}
	if len(outcomes) > 2 {
		draw := outcomes[2].Probability
		vm.DrawProbability = &draw
	}

	return vm
}

// DetermineResolution derives the settled state of a raw Gamma market. It is
// a pure function of the payload: a market that is not closed is always
// unresolved, and a closed market only resolves once one outcome's settled
// price clears the threshold. A closed market where no outcome has cleared
// it yet (mid-settlement) stays unresolved rather than guessing a winner.
func DetermineResolution(m GammaMarket) domain.VenueResolution {
	if !bool(m.Closed) {
		return domain.VenueResolution{}
	}

	prices := m.ParsedPrices()
	positions := []domain.OutcomePosition{domain.PositionA, domain.PositionB, domain.PositionDraw}

	for i := range m.Outcomes {
		if i >= len(prices) || i >= len(positions) {
			break
		}
		if prices[i] >= resolvedPriceThreshold {
			return domain.VenueResolution{
				Resolved:       true,
				WinningOutcome: positions[i],
				WinningPrice:   prices[i],
				ResolvedAt:     parseDate(m.EndDate),
			}
		}
	}

	return domain.VenueResolution{}
}

// categorize buckets a market using its question, category hint, and tags.
func categorize(m GammaMarket) domain.Category {
	parts := make([]string, 0, 2+len(m.Tags))
	parts = append(parts, m.Question, m.Category)
	parts = append(parts, m.Tags...)
	return normalize.Categorize(strings.Join(parts, " "), nil)
}
