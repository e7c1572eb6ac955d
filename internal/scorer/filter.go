package scorer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/suwandre/fundingarb/internal/models"
)

type SortKey string

const (
	SortAsset        SortKey = "asset"
	SortMaxSpread    SortKey = "max_spread"
	SortAPR          SortKey = "apr"
	SortOpenInterest SortKey = "open_interest"
)

// Unavailable venues sort with this rate so they land last when
// descending.
const UnavailableRate = -999.0

// VenueSortKey sorts by one venue's normalized rate.
func VenueSortKey(v models.Venue) SortKey {
	return SortKey(strings.ToLower(string(v)))
}

func (k SortKey) venue() (models.Venue, bool) {
	for _, v := range models.AllVenues {
		if VenueSortKey(v) == k {
			return v, true
		}
	}
	return "", false
}

// ParseSortKey accepts the fixed keys and any venue name, case-insensitive.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case SortAsset, SortMaxSpread, SortAPR, SortOpenInterest:
		return k, nil
	}
	if _, ok := k.venue(); ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

type SortSpec struct {
	Key        SortKey `json:"key"`
	Descending bool    `json:"descending"`
}

var DefaultSort = SortSpec{Key: SortAPR, Descending: true}

// ToggleSort returns the sort order after a click on column: the same column
// flips direction, a new column starts descending.
func ToggleSort(cur SortSpec, column SortKey) SortSpec {
	if cur.Key == column {
		return SortSpec{Key: column, Descending: !cur.Descending}
	}
	return SortSpec{Key: column, Descending: true}
}

// ApplyFilters returns a filtered, sorted copy of opps. The asset query is
// a case-insensitive substring match; venues keep rows whose strategy
// label mentions any of them.
func ApplyFilters(opps []models.Opportunity, query string, venues []string, spec SortSpec) []models.Opportunity {
	query = strings.ToLower(strings.TrimSpace(query))

	needles := make([]string, 0, len(venues))
	for _, v := range venues {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			needles = append(needles, v)
		}
	}

	out := make([]models.Opportunity, 0, len(opps))
	for _, o := range opps {
		if query != "" && !strings.Contains(strings.ToLower(o.Asset), query) {
			continue
		}
		if len(needles) > 0 && !mentionsAny(strings.ToLower(o.BestStrategy), needles) {
			continue
		}
		out = append(out, o)
	}

	if spec.Key != "" {
		sortOpportunities(out, spec)
	}
	return out
}

func mentionsAny(label string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(label, n) {
			return true
		}
	}
	return false
}

func sortOpportunities(opps []models.Opportunity, spec SortSpec) {
	less := func(a, b *models.Opportunity) bool {
		return sortValue(a, spec.Key) < sortValue(b, spec.Key)
	}
	if spec.Key == SortAsset {
		less = func(a, b *models.Opportunity) bool { return a.Asset < b.Asset }
	}

	sort.SliceStable(opps, func(i, j int) bool {
		if spec.Descending {
			return less(&opps[j], &opps[i])
		}
		return less(&opps[i], &opps[j])
	})
}

func sortValue(o *models.Opportunity, key SortKey) float64 {
	switch key {
	case SortMaxSpread:
		return o.MaxSpread
	case SortAPR:
		return o.CurrentAPR
	case SortOpenInterest:
		return o.OpenInterest
	}
	if v, ok := key.venue(); ok {
		if vr := o.PerVenue[v]; vr.Available {
			return vr.Rate
		}
	}
	return UnavailableRate
}
