package scorer

import (
	"sort"

	"github.com/suwandre/fundingarb/internal/models"
	"github.com/suwandre/fundingarb/internal/symbols"
)

// ComputeOpportunities runs one full scoring pass over a snapshot and
// returns the assets quoted by at least one derivative venue, ranked.
// It does not modify the snapshot.
func ComputeOpportunities(snap *models.Snapshot) []models.Opportunity {
	universe := symbols.BuildUniverse(snap)
	opps := Aggregate(universe, snap)

	out := make([]models.Opportunity, 0, len(opps))
	for _, o := range opps {
		if !o.HasDerivativeVenue() {
			continue
		}
		SelectStrategy(o).apply(o)
		out = append(out, *o)
	}

	rankOpportunities(out)
	return out
}

// Sorts in-place, highest APR first, then by asset name.
func rankOpportunities(opps []models.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		if opps[i].CurrentAPR != opps[j].CurrentAPR {
			return opps[i].CurrentAPR > opps[j].CurrentAPR
		}
		return opps[i].Asset < opps[j].Asset
	})
}
