package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polydraft/venues/internal/domain"
)

func binaryMarket(probA, probB float64) domain.VenueMarket {
	return domain.VenueMarket{
		VenueID:  domain.VenuePolymarket,
		MarketID: "m1",
		Outcomes: []domain.VenueOutcome{
			{Label: "Yes", Probability: probA, Position: domain.PositionA},
			{Label: "No", Probability: probB, Position: domain.PositionB},
		},
	}
}

func TestValidateMarketBinary(t *testing.T) {
	assert.True(t, ValidateMarket(binaryMarket(0.65, 0.35)))
}

func TestValidateMarketSumBand(t *testing.T) {
	tests := []struct {
		name   string
		a, b   float64
		wantOK bool
	}{
		{"sum exactly min", 0.45, 0.45, true},
		{"sum exactly max", 0.55, 0.55, true},
		{"sum below band", 0.4, 0.45, false},
		{"sum above band", 0.6, 0.55, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOK, ValidateMarket(binaryMarket(tt.a, tt.b)))
		})
	}
}

func TestValidateMarketStructure(t *testing.T) {
	t.Run("single outcome rejected", func(t *testing.T) {
		m := binaryMarket(0.5, 0.5)
		m.Outcomes = m.Outcomes[:1]
		assert.False(t, ValidateMarket(m))
	})

	t.Run("first outcome must be position a", func(t *testing.T) {
		m := binaryMarket(0.5, 0.5)
		m.Outcomes[0].Position = domain.PositionB
		m.Outcomes[1].Position = domain.PositionA
		assert.False(t, ValidateMarket(m))
	})

	t.Run("duplicate positions rejected", func(t *testing.T) {
		m := binaryMarket(0.5, 0.5)
		m.Outcomes[1].Position = domain.PositionA
		assert.False(t, ValidateMarket(m))
	})

	t.Run("three outcomes require draw flag", func(t *testing.T) {
		m := binaryMarket(0.4, 0.35)
		m.Outcomes = append(m.Outcomes, domain.VenueOutcome{
			Label: "Draw", Probability: 0.25, Position: domain.PositionDraw,
		})
		assert.False(t, ValidateMarket(m))

		m.SupportsDraw = true
		assert.True(t, ValidateMarket(m))
	})

	t.Run("draw flag without third outcome rejected", func(t *testing.T) {
		m := binaryMarket(0.5, 0.5)
		m.SupportsDraw = true
		assert.False(t, ValidateMarket(m))
	})

	t.Run("probability out of range rejected", func(t *testing.T) {
		assert.False(t, ValidateMarket(binaryMarket(1.2, -0.2)))
	})

	t.Run("nan probability rejected", func(t *testing.T) {
		assert.False(t, ValidateMarket(binaryMarket(math.NaN(), 0.5)))
	})
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.3))
	assert.Equal(t, 1.0, Clamp01(1.7))
	assert.Equal(t, 0.42, Clamp01(0.42))
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(0.5))
	assert.False(t, Finite(math.NaN()))
	assert.False(t, Finite(math.Inf(1)))
}
