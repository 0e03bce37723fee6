package config

import (
	"log/slog"
	"os"

	"github.com/polydraft/venues/internal/domain"
)

// ActiveVenueEnv is the environment variable that selects the active venue.
const ActiveVenueEnv = "POLYDRAFT_ACTIVE_VENUE"

// DefaultVenueID is the fallback when the selector is unset or unknown.
const DefaultVenueID = domain.VenuePolymarket

// VenueRules are the per-venue gameplay rules.
type VenueRules struct {
	PicksPerPack    int
	WeeklyPackLimit int
	CashoutAllowed  bool
}

// VenueFeatures are the per-venue feature switches.
type VenueFeatures struct {
	WalletRequired   bool
	ShowOrderbook    bool
	InstantExecution bool
	PartialSell      bool
}

// VenueTheme is the per-venue branding data.
type VenueTheme struct {
	AccentColor   string
	LogoURL       string
	BackgroundURL string
}

// VenueEntry bundles the static configuration of one venue.
type VenueEntry struct {
	Rules    VenueRules
	Features VenueFeatures
	Theme    VenueTheme
}

// venueTable is the static, purely declarative per-venue configuration.
var venueTable = map[domain.VenueID]VenueEntry{
	domain.VenuePolymarket: {
		Rules:    VenueRules{PicksPerPack: 5, WeeklyPackLimit: 3, CashoutAllowed: true},
		Features: VenueFeatures{WalletRequired: true, ShowOrderbook: true, PartialSell: true},
		Theme: VenueTheme{
			AccentColor:   "#1652f0",
			LogoURL:       "/venues/polymarket/logo.svg",
			BackgroundURL: "/venues/polymarket/bg.webp",
		},
	},
	domain.VenueJupiter: {
		Rules:    VenueRules{PicksPerPack: 5, WeeklyPackLimit: 5, CashoutAllowed: false},
		Features: VenueFeatures{WalletRequired: true, InstantExecution: true},
		Theme: VenueTheme{
			AccentColor:   "#c7f284",
			LogoURL:       "/venues/jupiter/logo.svg",
			BackgroundURL: "/venues/jupiter/bg.webp",
		},
	},
}

// defaultEntry is returned for unknown venue ids. Lookups never fail; an
// unknown id degrades to safe defaults.
var defaultEntry = VenueEntry{
	Rules: VenueRules{PicksPerPack: 5, WeeklyPackLimit: 3, CashoutAllowed: false},
	Theme: VenueTheme{AccentColor: "#1652f0"},
}

// ActiveVenueID resolves the single active venue from the environment.
// An unset or unknown value falls back to DefaultVenueID with a warning
// rather than failing.
func ActiveVenueID() domain.VenueID {
	raw := os.Getenv(ActiveVenueEnv)
	if raw == "" {
		return DefaultVenueID
	}
	id := domain.VenueID(raw)
	if _, ok := venueTable[id]; !ok {
		slog.Warn("unknown active venue, falling back to default",
			slog.String("venue", raw),
			slog.String("default", string(DefaultVenueID)),
		)
		return DefaultVenueID
	}
	return id
}

// IsVenueEnabled reports whether the given venue is the active one. This is
// deliberately a single-active-venue model, not a multi-tenant one.
func IsVenueEnabled(id domain.VenueID) bool {
	return id == ActiveVenueID()
}

// KnownVenue reports whether the venue id has a configuration entry.
func KnownVenue(id domain.VenueID) bool {
	_, ok := venueTable[id]
	return ok
}

// RulesFor returns the rules for a venue, or safe defaults for an unknown id.
func RulesFor(id domain.VenueID) VenueRules {
	if e, ok := venueTable[id]; ok {
		return e.Rules
	}
	return defaultEntry.Rules
}

// FeaturesFor returns the feature switches for a venue, or safe defaults.
func FeaturesFor(id domain.VenueID) VenueFeatures {
	if e, ok := venueTable[id]; ok {
		return e.Features
	}
	return defaultEntry.Features
}

// ThemeFor returns the theme for a venue, or safe defaults.
func ThemeFor(id domain.VenueID) VenueTheme {
	if e, ok := venueTable[id]; ok {
		return e.Theme
	}
	return defaultEntry.Theme
}
