package planner

import (
	"sort"

	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

// DefaultSuggestionCount is the number of spots the auto-select flow picks.
const DefaultSuggestionCount = 8

// TopSpots scores every candidate and returns the k best in rank order,
// or fewer when the pool is smaller. Equal scores order by rating
// descending (absent ratings rank as 0), then by name ascending, so the
// ranking is deterministic whenever the scores are.
func (s *Scorer) TopSpots(spots []types.TouristSpot, prefs *types.TravelPreferences, k int) []types.ScoredSpot {
	scored := make([]types.ScoredSpot, 0, len(spots))
	for _, spot := range spots {
		scored = append(scored, types.ScoredSpot{Spot: spot, Score: s.Score(spot, prefs)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		ri, rj := ratingOrZero(scored[i].Spot), ratingOrZero(scored[j].Spot)
		if ri != rj {
			return ri > rj
		}
		return scored[i].Spot.Name < scored[j].Spot.Name
	})

	if k > len(scored) {
		k = len(scored)
	}
	if k < 0 {
		k = 0
	}
	return scored[:k]
}

func ratingOrZero(spot types.TouristSpot) float64 {
	if spot.Rating == nil {
		return 0
	}
	return *spot.Rating
}
