package recommend

import (
	"sort"

	"github.com/openlearn/compass/internal/models"
)

// PopularityRank is the fallback ranking: rating descending, then rating
// count descending, scored as rating normalized to [0, 1]. It is used for
// users with no history and whenever hybrid scoring fails.
func PopularityRank(resources []models.Resource, limit int) []models.Recommendation {
	ranked := append([]models.Resource(nil), resources...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Rating != ranked[j].Rating {
			return ranked[i].Rating > ranked[j].Rating
		}
		return ranked[i].RatingCount > ranked[j].RatingCount
	})
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}

	recs := make([]models.Recommendation, 0, len(ranked))
	for _, r := range ranked {
		recs = append(recs, models.Recommendation{
			Resource: r,
			Score:    r.Rating / 5.0,
			Reason:   ReasonPopular,
		})
	}
	return recs
}
