package symbols

import (
	"strings"

	"github.com/suwandre/fundingarb/internal/models"
)

// Paradex lists some meme tokens with a "k" (thousand) prefix where the
// other venues use "1000".
var kiloTokens = map[string]bool{
	"BONK":  true,
	"PEPE":  true,
	"FLOKI": true,
	"SHIB":  true,
}

// Canonicalize maps a venue-native symbol onto the shared asset key.
func Canonicalize(venue models.Venue, sym string) string {
	sym = strings.TrimSpace(sym)

	switch venue {
	case models.VenueGMX:
		// "ETH/USD [WETH-USDC]" -> "ETH"
		if i := strings.Index(sym, "/"); i >= 0 {
			sym = sym[:i]
		}
		return strings.ToUpper(strings.TrimSpace(sym))
	case models.VenueParadex:
		// "kBONK-USD-PERP" -> "1000BONK"
		if i := strings.Index(sym, "-"); i >= 0 {
			sym = sym[:i]
		}
		return ParadexAlias(strings.ToUpper(sym))
	case models.VenueLighter:
		// Table keys are already canonical.
		return sym
	default:
		return strings.ToUpper(sym)
	}
}

// ParadexAlias rewrites K-prefixed meme tokens to their 1000x name.
func ParadexAlias(sym string) string {
	if len(sym) > 1 && sym[0] == 'K' && kiloTokens[sym[1:]] {
		return "1000" + sym[1:]
	}
	return sym
}

// Universe is the set of canonical assets across all venues.
type Universe map[string]struct{}

func (u Universe) add(sym string) {
	if sym != "" {
		u[sym] = struct{}{}
	}
}

func (u Universe) Contains(sym string) bool {
	_, ok := u[sym]
	return ok
}

// BuildUniverse unions the asset symbols every venue in the snapshot knows
// about.
func BuildUniverse(snap *models.Snapshot) Universe {
	u := make(Universe)

	for _, c := range snap.Drift {
		u.add(Canonicalize(models.VenueDrift, c.BaseCurrency))
	}
	for _, a := range snap.Hyperliquid.Universe {
		u.add(Canonicalize(models.VenueHyperliquid, a.Name))
	}
	for asset := range snap.LighterMarkets {
		u.add(Canonicalize(models.VenueLighter, asset))
	}
	for _, m := range snap.GMX {
		u.add(Canonicalize(models.VenueGMX, m.Name))
	}
	for _, m := range snap.Paradex {
		u.add(Canonicalize(models.VenueParadex, m.Symbol))
	}

	return u
}
