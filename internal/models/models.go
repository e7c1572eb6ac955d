package models

import (
	"time"

	"github.com/google/uuid"
)

type Venue string

const (
	VenueDrift       Venue = "Drift"
	VenueHyperliquid Venue = "Hyperliquid"
	VenueGMX         Venue = "GMX"
	VenueLighter     Venue = "Lighter"
	VenueParadex     Venue = "Paradex"

	// Synthetic zero-rate leg that is always on the long side of the book.
	VenueSpot Venue = "Spot"
)

// Fixed iteration order for everything that walks the venue set.
var AllVenues = []Venue{VenueDrift, VenueHyperliquid, VenueGMX, VenueLighter, VenueParadex}

// Funding interval per venue, in hours.
func (v Venue) FundingPeriodHours() int {
	if v == VenueLighter {
		return 1
	}
	return 8
}

// RawVenueQuote is one venue's market record for one asset, reduced to
// the fields the rest of the app cares about.
type RawVenueQuote struct {
	Venue              Venue   `json:"venue"`
	Asset              string  `json:"asset"`
	Symbol             string  `json:"symbol"` // venue-native symbol
	RawRate            string  `json:"raw_rate"`
	FundingPeriodHours int     `json:"funding_period_hours"`
	OpenInterest       float64 `json:"open_interest"` // USD notional
	MarkPrice          float64 `json:"mark_price"`
	Volume24h          float64 `json:"volume_24h"`
}

type VenueRate struct {
	Rate         float64        `json:"rate"`
	Available    bool           `json:"available"`
	OpenInterest float64        `json:"open_interest"`
	Raw          *RawVenueQuote `json:"raw,omitempty"`
}

type Opportunity struct {
	Asset             string              `json:"asset"`
	PerVenue          map[Venue]VenueRate `json:"per_venue"`
	OpenInterest      float64             `json:"open_interest"` // sum across venues, display only
	MaxSpread         float64             `json:"max_spread"`
	CurrentAPR        float64             `json:"current_apr"`
	BestStrategy      string              `json:"best_strategy"`
	BestLong          Venue               `json:"best_long,omitempty"`
	BestShort         Venue               `json:"best_short,omitempty"`
	MaxPriceDeviation float64             `json:"max_price_deviation"`
}

// Reports whether any derivative venue quoted this asset.
func (o *Opportunity) HasDerivativeVenue() bool {
	for _, vr := range o.PerVenue {
		if vr.Available {
			return true
		}
	}
	return false
}

// Snapshot bundles everything one scoring pass reads. It is treated as
// immutable once handed to the scorer.
type Snapshot struct {
	ID      uuid.UUID `json:"id"`
	TakenAt time.Time `json:"taken_at"`

	Drift       []DriftContract            `json:"drift,omitempty"`
	Hyperliquid HyperliquidMeta            `json:"hyperliquid"`
	GMX         []GMXMarket                `json:"gmx,omitempty"`
	Lighter     map[int]LighterMarketStats `json:"lighter,omitempty"`
	Paradex     []ParadexMarketSummary     `json:"paradex,omitempty"`

	// Static asset -> Lighter market id table.
	LighterMarkets map[string]int `json:"lighter_markets,omitempty"`
}

func NewSnapshot(lighterMarkets map[string]int) Snapshot {
	return Snapshot{
		ID:             uuid.New(),
		TakenAt:        time.Now(),
		LighterMarkets: lighterMarkets,
	}
}

// VenueData is the result of one adapter fetch. Only the field matching
// Venue is populated.
type VenueData struct {
	Venue       Venue
	Drift       []DriftContract
	Hyperliquid HyperliquidMeta
	GMX         []GMXMarket
	Lighter     map[int]LighterMarketStats
	Paradex     []ParadexMarketSummary
}

// Merge copies the venue's payload into the snapshot.
func (s *Snapshot) Merge(d VenueData) {
	switch d.Venue {
	case VenueDrift:
		s.Drift = d.Drift
	case VenueHyperliquid:
		s.Hyperliquid = d.Hyperliquid
	case VenueGMX:
		s.GMX = d.GMX
	case VenueLighter:
		s.Lighter = d.Lighter
	case VenueParadex:
		s.Paradex = d.Paradex
	}
}

// Clear drops a venue's payload, e.g. after a failed fetch.
func (s *Snapshot) Clear(v Venue) {
	s.Merge(VenueData{Venue: v})
}

type VenueStatus struct {
	Venue     Venue     `json:"venue"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	Records   int       `json:"records"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Result is one completed scoring pass.
type Result struct {
	SnapshotID    uuid.UUID              `json:"snapshot_id"`
	ComputedAt    time.Time              `json:"computed_at"`
	Opportunities []Opportunity          `json:"opportunities"`
	Venues        map[Venue]*VenueStatus `json:"venues"`
}
