package types

import (
	"time"

	"github.com/google/uuid"
)

// SpotSnapshot is the denormalized copy of a TouristSpot embedded in an
// itinerary at creation time. Snapshots are frozen: later catalog changes
// never reach persisted itineraries.
type SpotSnapshot struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Location     string    `json:"location"`
	Municipality *string   `json:"municipality,omitempty"`
	Categories   []string  `json:"categories"`
	ImageURL     *string   `json:"image_url,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	Rating       *float64  `json:"rating,omitempty"`
	BudgetLevel  *string   `json:"budget_level,omitempty"`
	IsHiddenGem  bool      `json:"is_hidden_gem"`
}

// Snapshot freezes the spot fields an itinerary keeps.
func (s TouristSpot) Snapshot() SpotSnapshot {
	return SpotSnapshot{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Location:     s.Location,
		Municipality: s.Municipality,
		Categories:   s.Categories,
		ImageURL:     s.ImageURL,
		Latitude:     s.Latitude,
		Longitude:    s.Longitude,
		Rating:       s.Rating,
		BudgetLevel:  s.BudgetLevel,
		IsHiddenGem:  s.IsHiddenGem,
	}
}

// Itinerary is a persisted, named selection of spots. Order inside Spots
// carries no meaning; Categories is derived at creation time as the
// duplicate-free union of the snapshots' category tags.
type Itinerary struct {
	ID         uuid.UUID      `json:"id"`
	UserID     uuid.UUID      `json:"user_id"`
	Name       string         `json:"name"`
	Spots      []SpotSnapshot `json:"spots"`
	Categories []string       `json:"categories"`
	CreatedAt  time.Time      `json:"created_at"`
}

// CreateItineraryRequest creates one itinerary from an explicit spot list.
// When SpotIDs is empty the handler falls back to the caller's current
// selection session.
type CreateItineraryRequest struct {
	Name    string      `json:"name" validate:"required,max=120"`
	SpotIDs []uuid.UUID `json:"spot_ids,omitempty" validate:"omitempty,max=100"`
}

type ItinerariesResponse struct {
	Itineraries []Itinerary `json:"itineraries"`
	Page        int         `json:"page"`
	Limit       int         `json:"limit"`
	Total       int         `json:"total"`
}
