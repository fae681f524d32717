package types

import "github.com/google/uuid"

// SelectionResponse is the hydrated, display-ordered view of the user's
// working selection.
type SelectionResponse struct {
	Spots []TouristSpot `json:"spots"`
	Total int           `json:"total"`
}

// SelectionToggleResponse reports the membership state after a toggle.
type SelectionToggleResponse struct {
	SpotID   uuid.UUID `json:"spot_id"`
	Selected bool      `json:"selected"`
	Total    int       `json:"total"`
}

type ReplaceSelectionRequest struct {
	SpotIDs []uuid.UUID `json:"spot_ids" validate:"required,max=100"`
}

// SuggestionsResponse carries the auto-select result in rank order.
type SuggestionsResponse struct {
	Suggestions []ScoredSpot `json:"suggestions"`
	Total       int          `json:"total"`
}
