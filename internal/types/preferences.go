package types

import (
	"time"

	"github.com/google/uuid"
)

// TravelPreferences is the per-user preference record consumed by the
// preference scorer. Every field is optional: a nil or empty field simply
// skips its scoring contribution, and a user without a stored row has no
// preference signal at all (the scorer falls back to random ranking).
type TravelPreferences struct {
	UserID              uuid.UUID `json:"user_id"`
	PreferredActivities []string  `json:"preferred_activities,omitempty"`
	BudgetRange         *string   `json:"budget_range,omitempty"` // coarse label, e.g. low/medium/high
	SceneryTypes        []string  `json:"scenery_types,omitempty"`
	HiddenGems          *bool     `json:"hidden_gems,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// HasSignal reports whether any recognized preference field is set.
func (p *TravelPreferences) HasSignal() bool {
	if p == nil {
		return false
	}
	return len(p.PreferredActivities) > 0 ||
		(p.BudgetRange != nil && *p.BudgetRange != "") ||
		len(p.SceneryTypes) > 0 ||
		p.HiddenGems != nil
}

type UpsertTravelPreferencesRequest struct {
	PreferredActivities []string `json:"preferred_activities,omitempty" validate:"omitempty,max=25,dive,min=1,max=80"`
	BudgetRange         *string  `json:"budget_range,omitempty" validate:"omitempty,min=1,max=30"`
	SceneryTypes        []string `json:"scenery_types,omitempty" validate:"omitempty,max=25,dive,min=1,max=80"`
	HiddenGems          *bool    `json:"hidden_gems,omitempty"`
}
