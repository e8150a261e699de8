package rank

import (
	"sort"

	"storemap/internal/core/domain"
	"storemap/internal/geo"
)

// ByDistance annotates every listing with its haversine distance from the
// origin and returns a new slice sorted nearest-first. Ties keep input order
// (stable sort). Listings without a usable coordinate are ranked as if they
// sat at (0,0); they are never dropped, callers that want them gone filter
// before ranking.
//
// Pure: no I/O, inputs are not mutated, identical inputs produce identical
// output.
func ByDistance(listings []domain.Listing, origin geo.Location) []domain.RankedListing {
	ranked := make([]domain.RankedListing, 0, len(listings))
	for _, l := range listings {
		ranked = append(ranked, domain.RankedListing{
			Listing:    l,
			DistanceKm: geo.Haversine(origin, l.Location()),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	return ranked
}
