package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polydraft/venues/internal/domain"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.Category
	}{
		{"sports league", "Will the Chiefs win the NFL playoffs?", domain.CategorySports},
		{"politics", "Who wins the presidential election?", domain.CategoryPolitics},
		{"crypto", "Will Bitcoin close above $100k?", domain.CategoryCrypto},
		{"economy", "Will the Fed announce a rate cut in March?", domain.CategoryEconomy},
		{"default entertainment", "Will the next Bond film gross $1B?", domain.CategoryEntertainment},
		{"empty text", "", domain.CategoryEntertainment},
		{"case insensitive", "SUPER BOWL winner", domain.CategorySports},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.text, nil))
		})
	}
}

func TestCategorizePrecedence(t *testing.T) {
	// Sports outranks politics when both match.
	got := Categorize("NBA players vote on the election", nil)
	assert.Equal(t, domain.CategorySports, got)

	// Politics outranks crypto.
	got = Categorize("Senate hearing on bitcoin regulation", nil)
	assert.Equal(t, domain.CategoryPolitics, got)
}

func TestCategorizeExtraKeywords(t *testing.T) {
	extra := map[domain.Category][]string{
		domain.CategorySports: {"kxnba"},
	}

	assert.Equal(t, domain.CategorySports, Categorize("KXNBA-25DEC25", extra))

	// Extra keywords extend the lists without changing precedence.
	assert.Equal(t, domain.CategoryEntertainment, Categorize("KXNBA-25DEC25", nil))
}
