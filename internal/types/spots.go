package types

import (
	"time"

	"github.com/google/uuid"
)

// TouristSpot is a catalog entry sourced read-only from the store. The
// application never mutates spots; optional columns surface as pointers.
type TouristSpot struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Location     string    `json:"location"`
	Municipality *string   `json:"municipality,omitempty"`
	Categories   []string  `json:"categories"`
	ImageURL     *string   `json:"image_url,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"` // both-or-neither with Latitude by convention, not enforced
	Rating       *float64  `json:"rating,omitempty"`    // 0-5 scale
	BudgetLevel  *string   `json:"budget_level,omitempty"`
	SceneryTypes []string  `json:"scenery_types,omitempty"`
	SpotTypes    []string  `json:"spot_types,omitempty"`
	IsHiddenGem  bool      `json:"is_hidden_gem"`
	CreatedAt    time.Time `json:"created_at"`
}

// ScoredSpot pairs a catalog spot with the preference score that ranked it.
type ScoredSpot struct {
	Spot  TouristSpot `json:"spot"`
	Score float64     `json:"score"`
}

type SpotsResponse struct {
	Spots []TouristSpot `json:"spots"`
	Total int           `json:"total"`
}
