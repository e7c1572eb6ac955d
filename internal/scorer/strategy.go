package scorer

import (
	"math"
	"sort"

	"github.com/suwandre/fundingarb/internal/models"
)

const NoArbitrage = "No arbitrage available"

// Strategy is the best long/short pairing for one asset.
type Strategy struct {
	MaxSpread         float64
	CurrentAPR        float64
	BestStrategy      string
	BestLong          models.Venue
	BestShort         models.Venue
	MaxPriceDeviation float64
}

type leg struct {
	venue models.Venue
	rate  float64
}

// SelectStrategy picks the cheapest leg to hold long (Spot counts, at a
// zero rate) and the most expensive derivative leg to hold short.
func SelectStrategy(o *models.Opportunity) Strategy {
	// Spot first so it wins ties at zero.
	legs := []leg{{venue: models.VenueSpot}}
	deviation := 0.0
	for _, v := range models.AllVenues {
		vr, ok := o.PerVenue[v]
		if !ok || !vr.Available {
			continue
		}
		legs = append(legs, leg{venue: v, rate: vr.Rate})
		deviation = math.Max(deviation, math.Abs(vr.Rate))
	}

	none := Strategy{BestStrategy: NoArbitrage, MaxPriceDeviation: deviation * 100}
	if len(legs) < 2 {
		return none
	}

	sort.SliceStable(legs, func(i, j int) bool { return legs[i].rate < legs[j].rate })

	long := legs[0]

	var short *leg
	for i := len(legs) - 1; i >= 0; i-- {
		if legs[i].venue != models.VenueSpot {
			short = &legs[i]
			break
		}
	}
	if short == nil || short.venue == long.venue {
		return none
	}

	spread := short.rate - long.rate
	label := "Long " + string(long.venue) + " / Short " + string(short.venue)
	if long.venue == models.VenueSpot {
		label = "Buy Spot / Short " + string(short.venue)
	}

	return Strategy{
		MaxSpread:         spread,
		CurrentAPR:        AnnualizedPercent(spread),
		BestStrategy:      label,
		BestLong:          long.venue,
		BestShort:         short.venue,
		MaxPriceDeviation: deviation * 100,
	}
}

// AnnualizedPercent treats the spread as earned once per day, whatever the
// venues' funding intervals.
func AnnualizedPercent(spread float64) float64 {
	return spread * 365 * 100
}

func (s Strategy) apply(o *models.Opportunity) {
	o.MaxSpread = s.MaxSpread
	o.CurrentAPR = s.CurrentAPR
	o.BestStrategy = s.BestStrategy
	o.BestLong = s.BestLong
	o.BestShort = s.BestShort
	o.MaxPriceDeviation = s.MaxPriceDeviation
}
