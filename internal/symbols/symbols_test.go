package symbols

import (
	"testing"

	"github.com/suwandre/fundingarb/internal/models"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		venue models.Venue
		in    string
		want  string
	}{
		{models.VenueDrift, "sol", "SOL"},
		{models.VenueHyperliquid, "kPEPE", "KPEPE"},
		{models.VenueGMX, "eth/USD [WETH-USDC]", "ETH"},
		{models.VenueGMX, "BTC", "BTC"},
		{models.VenueParadex, "BTC-USD-PERP", "BTC"},
		{models.VenueParadex, "kBONK-USD-PERP", "1000BONK"},
		{models.VenueParadex, "KSHIB-USD-PERP", "1000SHIB"},
		{models.VenueParadex, "KAITO-USD-PERP", "KAITO"},
		{models.VenueParadex, "K-USD-PERP", "K"},
		{models.VenueLighter, "1000PEPE", "1000PEPE"},
	}

	for _, tt := range tests {
		if got := Canonicalize(tt.venue, tt.in); got != tt.want {
			t.Errorf("Canonicalize(%s, %q) = %q, want %q", tt.venue, tt.in, got, tt.want)
		}
	}
}

func TestParadexAlias(t *testing.T) {
	if got := ParadexAlias("KBONK"); got != "1000BONK" {
		t.Errorf("ParadexAlias(KBONK) = %q, want 1000BONK", got)
	}
	if got := ParadexAlias("KAITO"); got != "KAITO" {
		t.Errorf("ParadexAlias(KAITO) = %q, want KAITO", got)
	}
	if got := ParadexAlias("1000BONK"); got != "1000BONK" {
		t.Errorf("ParadexAlias(1000BONK) = %q", got)
	}
}

func TestBuildUniverse(t *testing.T) {
	snap := &models.Snapshot{
		Drift: []models.DriftContract{{BaseCurrency: "btc"}, {BaseCurrency: ""}},
		Hyperliquid: models.HyperliquidMeta{
			Universe: []models.HyperliquidAsset{{Name: "BTC"}, {Name: "ETH"}},
		},
		GMX:            []models.GMXMarket{{Name: "ETH/USD [WETH-USDC]"}, {Name: "ETH/USD [WETH-WETH]"}},
		Paradex:        []models.ParadexMarketSummary{{Symbol: "kBONK-USD-PERP"}},
		LighterMarkets: map[string]int{"SOL": 2},
	}

	u := BuildUniverse(snap)
	for _, want := range []string{"BTC", "ETH", "SOL", "1000BONK"} {
		if !u.Contains(want) {
			t.Errorf("universe missing %s: %v", want, u)
		}
	}
	if len(u) != 4 {
		t.Fatalf("expected 4 assets, got %d: %v", len(u), u)
	}
}
