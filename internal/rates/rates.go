// Package rates converts venue-native funding numbers into the common
// per-tick rate the scorer compares across venues.
//
// The per-venue factors are not a period normalization (Lighter funds
// hourly, yet is divided by 10 rather than multiplied by 8). Each venue
// has its own conversion function so the factors can be changed in one
// place without touching strategy selection.
package rates

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/suwandre/fundingarb/internal/models"
)

const (
	driftDivisor      = 100.0
	hyperliquidFactor = 10.0
	lighterDivisor    = 10.0

	// GMX reports annualized rates; 1095 = 365 * 3 eight-hour periods.
	gmxPeriodsPerYear = 1095
	gmxShortPrecision = 30
	gmxLongPrecision  = 36
)

// NormalizedRate is a venue rate in comparison units.
type NormalizedRate struct {
	Rate      float64 `json:"rate"`
	Available bool    `json:"available"`
}

// RateFields carries the raw funding fields a venue may report. Only the
// fields relevant to the venue are read.
type RateFields struct {
	FundingRate        models.NumString // Drift, Hyperliquid, Paradex, Lighter fallback
	CurrentFundingRate models.NumString // Lighter
	FundingRateLong    models.NumString // GMX
	FundingRateShort   models.NumString // GMX
}

// Normalize dispatches to the venue's conversion. A venue that did not
// send its rate field is reported unavailable.
func Normalize(venue models.Venue, f RateFields) NormalizedRate {
	switch venue {
	case models.VenueDrift:
		if !f.FundingRate.Present {
			return NormalizedRate{}
		}
		return NormalizedRate{Rate: Drift(f.FundingRate.Value), Available: true}
	case models.VenueHyperliquid:
		if !f.FundingRate.Present {
			return NormalizedRate{}
		}
		return NormalizedRate{Rate: Hyperliquid(f.FundingRate.Value), Available: true}
	case models.VenueLighter:
		if !f.CurrentFundingRate.Present && !f.FundingRate.Present {
			return NormalizedRate{}
		}
		return NormalizedRate{Rate: Lighter(f.CurrentFundingRate, f.FundingRate), Available: true}
	case models.VenueParadex:
		if !f.FundingRate.Present {
			return NormalizedRate{}
		}
		return NormalizedRate{Rate: Paradex(f.FundingRate.Value), Available: true}
	case models.VenueGMX:
		if !f.FundingRateLong.Present && !f.FundingRateShort.Present {
			return NormalizedRate{}
		}
		return NormalizedRate{Rate: GMX(f.FundingRateLong.Value, f.FundingRateShort.Value), Available: true}
	}
	return NormalizedRate{}
}

func Drift(raw string) float64 {
	return ParseFloat(raw) / driftDivisor
}

func Hyperliquid(raw string) float64 {
	return ParseFloat(raw) * hyperliquidFactor
}

// Lighter prefers current_funding_rate and falls back to funding_rate.
func Lighter(current, fallback models.NumString) float64 {
	raw := fallback.Value
	if current.Present && current.Value != "" {
		raw = current.Value
	}
	return ParseFloat(raw) / lighterDivisor
}

func Paradex(raw string) float64 {
	return ParseFloat(raw)
}

// GMX uses the long rate when it is non-zero, otherwise the negated short
// rate.
func GMX(long, short string) float64 {
	if r := GMXRate8h(long); r != 0 {
		return r
	}
	return -GMXRate8h(short)
}

// GMXRate8h converts a GMX annualized fixed-point integer into an
// eight-hour rate. Values with more than 30 digits use 36-decimal
// precision.
func GMXRate8h(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0
	}
	precision := int32(gmxShortPrecision)
	if len(d.Abs().Truncate(0).String()) > gmxShortPrecision {
		precision = gmxLongPrecision
	}
	f, _ := d.Shift(-precision).Float64()
	return finite(f / gmxPeriodsPerYear)
}

// GMXUSD converts a 30-decimal fixed-point USD amount.
func GMXUSD(raw string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	f, _ := d.Shift(-gmxShortPrecision).Float64()
	return finite(f)
}

// ParseFloat parses a venue number, coercing anything unusable to 0.
func ParseFloat(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
