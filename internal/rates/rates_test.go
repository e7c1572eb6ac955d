package rates

import (
	"math"
	"strings"
	"testing"

	"github.com/suwandre/fundingarb/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestNormalizePerVenue(t *testing.T) {
	tests := []struct {
		name   string
		venue  models.Venue
		fields RateFields
		want   NormalizedRate
	}{
		{"drift", models.VenueDrift, RateFields{FundingRate: models.NewNumString("0.01")}, NormalizedRate{0.0001, true}},
		{"hyperliquid", models.VenueHyperliquid, RateFields{FundingRate: models.NewNumString("0.0005")}, NormalizedRate{0.005, true}},
		{"paradex", models.VenueParadex, RateFields{FundingRate: models.NewNumString("0.0003")}, NormalizedRate{0.0003, true}},
		{"lighter current", models.VenueLighter, RateFields{
			CurrentFundingRate: models.NewNumString("0.002"),
			FundingRate:        models.NewNumString("0.009"),
		}, NormalizedRate{0.0002, true}},
		{"lighter fallback", models.VenueLighter, RateFields{FundingRate: models.NewNumString("0.009")}, NormalizedRate{0.0009, true}},
		{"drift missing", models.VenueDrift, RateFields{}, NormalizedRate{}},
		{"lighter missing", models.VenueLighter, RateFields{}, NormalizedRate{}},
		{"gmx missing", models.VenueGMX, RateFields{}, NormalizedRate{}},
		{"unparseable", models.VenueParadex, RateFields{FundingRate: models.NewNumString("n/a")}, NormalizedRate{0, true}},
		{"nan", models.VenueHyperliquid, RateFields{FundingRate: models.NewNumString("NaN")}, NormalizedRate{0, true}},
		{"unknown venue", models.VenueSpot, RateFields{FundingRate: models.NewNumString("1")}, NormalizedRate{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.venue, tt.fields)
			if got.Available != tt.want.Available || !almostEqual(got.Rate, tt.want.Rate) {
				t.Fatalf("Normalize(%s) = %+v, want %+v", tt.venue, got, tt.want)
			}
		})
	}
}

func TestGMXRate8hPrecision(t *testing.T) {
	// 31 digits: 36-decimal precision.
	long := "1" + strings.Repeat("0", 30)
	if got, want := GMXRate8h(long), 1e-6/1095; !almostEqual(got, want) {
		t.Errorf("GMXRate8h(31 digits) = %g, want %g", got, want)
	}

	// 30 digits: 30-decimal precision.
	short := "1" + strings.Repeat("0", 29)
	if got, want := GMXRate8h(short), 0.1/1095; !almostEqual(got, want) {
		t.Errorf("GMXRate8h(30 digits) = %g, want %g", got, want)
	}

	negative := "-" + long
	if got, want := GMXRate8h(negative), -1e-6/1095; !almostEqual(got, want) {
		t.Errorf("GMXRate8h(negative 31 digits) = %g, want %g", got, want)
	}

	if got := GMXRate8h("garbage"); got != 0 {
		t.Errorf("GMXRate8h(garbage) = %g, want 0", got)
	}
	if got := GMXRate8h(""); got != 0 {
		t.Errorf("GMXRate8h(empty) = %g, want 0", got)
	}
}

func TestGMXPrefersLongRate(t *testing.T) {
	rate := "1" + strings.Repeat("0", 29)

	if got, want := GMX(rate, "5"+strings.Repeat("0", 29)), 0.1/1095; !almostEqual(got, want) {
		t.Errorf("GMX(long, short) = %g, want %g", got, want)
	}
	if got, want := GMX("0", rate), -0.1/1095; !almostEqual(got, want) {
		t.Errorf("GMX(0, short) = %g, want %g", got, want)
	}

	got := Normalize(models.VenueGMX, RateFields{FundingRateShort: models.NewNumString(rate)})
	if !got.Available || !almostEqual(got.Rate, -0.1/1095) {
		t.Errorf("Normalize(GMX short only) = %+v", got)
	}
}

func TestGMXUSD(t *testing.T) {
	if got := GMXUSD("1500" + strings.Repeat("0", 30)); !almostEqual(got, 1500) {
		t.Errorf("GMXUSD = %g, want 1500", got)
	}
	if got := GMXUSD("x"); got != 0 {
		t.Errorf("GMXUSD(x) = %g, want 0", got)
	}
}

func TestParseFloatCoercesToZero(t *testing.T) {
	for _, raw := range []string{"", "abc", "NaN", "+Inf", "-Inf"} {
		if got := ParseFloat(raw); got != 0 {
			t.Errorf("ParseFloat(%q) = %g, want 0", raw, got)
		}
	}
	if got := ParseFloat(" 1.25 "); got != 1.25 {
		t.Errorf("ParseFloat(1.25) = %g", got)
	}
}
