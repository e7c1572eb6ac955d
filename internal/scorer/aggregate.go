package scorer

import (
	"strings"

	"github.com/suwandre/fundingarb/internal/models"
	"github.com/suwandre/fundingarb/internal/rates"
	"github.com/suwandre/fundingarb/internal/symbols"
)

// Aggregate builds one Opportunity per asset in the universe and folds in
// every venue's quotes. Strategy fields are left zero.
func Aggregate(universe symbols.Universe, snap *models.Snapshot) map[string]*models.Opportunity {
	opps := make(map[string]*models.Opportunity, len(universe))
	for asset := range universe {
		opps[asset] = newOpportunity(asset)
	}

	foldDrift(opps, snap.Drift)
	foldHyperliquid(opps, snap.Hyperliquid)
	foldGMX(opps, snap.GMX)
	foldLighter(opps, snap.LighterMarkets, snap.Lighter)
	foldParadex(opps, snap.Paradex)

	for _, o := range opps {
		o.OpenInterest = 0
		for _, vr := range o.PerVenue {
			o.OpenInterest += vr.OpenInterest
		}
	}

	return opps
}

func newOpportunity(asset string) *models.Opportunity {
	perVenue := make(map[models.Venue]models.VenueRate, len(models.AllVenues))
	for _, v := range models.AllVenues {
		perVenue[v] = models.VenueRate{}
	}
	return &models.Opportunity{Asset: asset, PerVenue: perVenue}
}

// set records a venue quote on the asset's row. Assets outside the
// universe are ignored.
func set(opps map[string]*models.Opportunity, q *models.RawVenueQuote, norm rates.NormalizedRate) {
	if !norm.Available {
		return
	}
	o, ok := opps[q.Asset]
	if !ok {
		return
	}
	o.PerVenue[q.Venue] = models.VenueRate{
		Rate:         norm.Rate,
		Available:    true,
		OpenInterest: q.OpenInterest,
		Raw:          q,
	}
}

func foldDrift(opps map[string]*models.Opportunity, contracts []models.DriftContract) {
	for _, c := range contracts {
		if c.ProductType != "" && !strings.EqualFold(c.ProductType, "PERP") {
			continue
		}
		price := rates.ParseFloat(c.LastPrice.Value)
		q := &models.RawVenueQuote{
			Venue:              models.VenueDrift,
			Asset:              symbols.Canonicalize(models.VenueDrift, c.BaseCurrency),
			Symbol:             c.TickerID,
			RawRate:            c.FundingRate.Value,
			FundingPeriodHours: models.VenueDrift.FundingPeriodHours(),
			OpenInterest:       rates.ParseFloat(c.OpenInterest.Value) * price,
			MarkPrice:          price,
			Volume24h:          rates.ParseFloat(c.QuoteVolume.Value),
		}
		set(opps, q, rates.Normalize(models.VenueDrift, rates.RateFields{FundingRate: c.FundingRate}))
	}
}

// Hyperliquid sends assets and their contexts as parallel lists; an asset
// without a context at the same index is skipped.
func foldHyperliquid(opps map[string]*models.Opportunity, meta models.HyperliquidMeta) {
	for i, a := range meta.Universe {
		if i >= len(meta.Contexts) {
			break
		}
		ctx := meta.Contexts[i]
		price := rates.ParseFloat(ctx.MarkPx.Value)
		q := &models.RawVenueQuote{
			Venue:              models.VenueHyperliquid,
			Asset:              symbols.Canonicalize(models.VenueHyperliquid, a.Name),
			Symbol:             a.Name,
			RawRate:            ctx.Funding.Value,
			FundingPeriodHours: models.VenueHyperliquid.FundingPeriodHours(),
			OpenInterest:       rates.ParseFloat(ctx.OpenInterest.Value) * price,
			MarkPrice:          price,
			Volume24h:          rates.ParseFloat(ctx.DayNtlVlm.Value),
		}
		set(opps, q, rates.Normalize(models.VenueHyperliquid, rates.RateFields{FundingRate: ctx.Funding}))
	}
}

// GMX lists one market per collateral pool, so an index token can appear
// several times. The pool with the most open interest represents it.
func foldGMX(opps map[string]*models.Opportunity, markets []models.GMXMarket) {
	for _, m := range markets {
		asset := symbols.Canonicalize(models.VenueGMX, m.Name)
		oi := rates.GMXUSD(m.OpenInterestLong.Value) + rates.GMXUSD(m.OpenInterestShort.Value)

		if o, ok := opps[asset]; ok {
			if cur := o.PerVenue[models.VenueGMX]; cur.Available && cur.OpenInterest >= oi {
				continue
			}
		}

		rawRate := m.FundingRateLong.Value
		if rates.GMXRate8h(rawRate) == 0 {
			rawRate = m.FundingRateShort.Value
		}
		q := &models.RawVenueQuote{
			Venue:              models.VenueGMX,
			Asset:              asset,
			Symbol:             m.Name,
			RawRate:            rawRate,
			FundingPeriodHours: models.VenueGMX.FundingPeriodHours(),
			OpenInterest:       oi,
		}
		set(opps, q, rates.Normalize(models.VenueGMX, rates.RateFields{
			FundingRateLong:  m.FundingRateLong,
			FundingRateShort: m.FundingRateShort,
		}))
	}
}

func foldLighter(opps map[string]*models.Opportunity, markets map[string]int, stats map[int]models.LighterMarketStats) {
	for asset, id := range markets {
		s, ok := stats[id]
		if !ok {
			continue
		}
		rawRate := s.FundingRate.Value
		if s.CurrentFundingRate.Present && s.CurrentFundingRate.Value != "" {
			rawRate = s.CurrentFundingRate.Value
		}
		price := rates.ParseFloat(s.MarkPrice.Value)
		q := &models.RawVenueQuote{
			Venue:              models.VenueLighter,
			Asset:              symbols.Canonicalize(models.VenueLighter, asset),
			Symbol:             asset,
			RawRate:            rawRate,
			FundingPeriodHours: models.VenueLighter.FundingPeriodHours(),
			OpenInterest:       rates.ParseFloat(s.OpenInterest.Value) * price,
			MarkPrice:          price,
			Volume24h:          rates.ParseFloat(s.DailyQuoteTokenVolume.Value),
		}
		set(opps, q, rates.Normalize(models.VenueLighter, rates.RateFields{
			CurrentFundingRate: s.CurrentFundingRate,
			FundingRate:        s.FundingRate,
		}))
	}
}

func foldParadex(opps map[string]*models.Opportunity, markets []models.ParadexMarketSummary) {
	for _, m := range markets {
		if !strings.HasSuffix(strings.ToUpper(m.Symbol), "-PERP") {
			continue
		}
		price := rates.ParseFloat(m.MarkPrice.Value)
		q := &models.RawVenueQuote{
			Venue:              models.VenueParadex,
			Asset:              symbols.Canonicalize(models.VenueParadex, m.Symbol),
			Symbol:             m.Symbol,
			RawRate:            m.FundingRate.Value,
			FundingPeriodHours: models.VenueParadex.FundingPeriodHours(),
			OpenInterest:       rates.ParseFloat(m.OpenInterest.Value) * price,
			MarkPrice:          price,
			Volume24h:          rates.ParseFloat(m.Volume24h.Value),
		}
		set(opps, q, rates.Normalize(models.VenueParadex, rates.RateFields{FundingRate: m.FundingRate}))
	}
}
