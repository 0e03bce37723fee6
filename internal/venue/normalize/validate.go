package normalize

import (
	"math"

	"github.com/polydraft/venues/internal/domain"
)

// Probability-sum tolerance band. Venue prices are rounded independently per
// outcome, so the sum can drift off 1; anything inside the band is accepted.
const (
	ProbSumMin = 0.9
	ProbSumMax = 1.1
)

// ValidateMarket is the common-layer structural check applied to every
// normalized market, the second tier after the venue-specific raw check.
// A market passing here is safe to hand to the game layer.
func ValidateMarket(m domain.VenueMarket) bool {
	if n := len(m.Outcomes); n < 2 || n > 3 {
		return false
	}
	if m.SupportsDraw != (len(m.Outcomes) == 3) {
		return false
	}
	if m.Outcomes[0].Position != domain.PositionA {
		return false
	}

	seen := make(map[domain.OutcomePosition]bool, len(m.Outcomes))
	sum := 0.0
	for _, o := range m.Outcomes {
		if !o.Position.Valid() || seen[o.Position] {
			return false
		}
		seen[o.Position] = true
		if !Finite(o.Probability) || o.Probability < 0 || o.Probability > 1 {
			return false
		}
		sum += o.Probability
	}

	return sum >= ProbSumMin && sum <= ProbSumMax
}

// Clamp01 clamps v into [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Finite reports whether v is a usable number.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
