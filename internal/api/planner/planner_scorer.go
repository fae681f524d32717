package planner

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

// Fixed scoring weights. Not configurable.
const (
	activityHitWeight  = 3.0
	budgetMatchWeight  = 2.0
	sceneryMatchWeight = 2.0
	hiddenGemWeight    = 2.0
)

// Scorer ranks tourist spots against a user's travel preferences. rand
// feeds the no-signal fallback branch; tests inject a deterministic source.
type Scorer struct {
	rand func() float64
}

func NewScorer() *Scorer {
	return &Scorer{rand: rand.Float64}
}

func NewScorerWithRand(r func() float64) *Scorer {
	return &Scorer{rand: r}
}

// Score is additive over independent signals; each signal contributes only
// when both the preference field and the spot field are present. A record
// with no preference signal at all yields a uniform value in [0, 1), so
// ranking degrades to arbitrary order rather than collapsing to rating.
func (s *Scorer) Score(spot types.TouristSpot, prefs *types.TravelPreferences) float64 {
	if !prefs.HasSignal() {
		return s.rand()
	}

	var score float64

	// One hit per (activity, category) pair: an activity matching two
	// category tags counts twice.
	for _, activity := range prefs.PreferredActivities {
		needle := strings.ToLower(activity)
		for _, category := range spot.Categories {
			if strings.Contains(strings.ToLower(category), needle) {
				score += activityHitWeight
			}
		}
	}

	if prefs.BudgetRange != nil && *prefs.BudgetRange != "" &&
		spot.BudgetLevel != nil && strings.EqualFold(*spot.BudgetLevel, *prefs.BudgetRange) {
		score += budgetMatchWeight
	}

	// Scenery membership is exact and case-sensitive.
	for _, tag := range spot.SceneryTypes {
		if slices.Contains(prefs.SceneryTypes, tag) {
			score += sceneryMatchWeight
		}
	}

	if prefs.HiddenGems != nil && *prefs.HiddenGems && spot.IsHiddenGem {
		score += hiddenGemWeight
	}

	if spot.Rating != nil {
		score += *spot.Rating / 2
	}

	return score
}
