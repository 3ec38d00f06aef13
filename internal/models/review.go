package models

import "time"

// Review is a user-authored rating and comment tied to one spot.
// UserID holds the author's opaque identity id; it is set at creation and never patched.
type Review struct {
	ID               int64      `json:"id"`
	SpotID           int64      `json:"spot_id"`
	UserID           string     `json:"user_id"`
	Rating           int        `json:"rating"`
	Comment          string     `json:"comment"`
	WaveHeight       *float64   `json:"wave_height,omitempty"`
	WindCondition    *string    `json:"wind_condition,omitempty"`
	WeatherCondition *string    `json:"weather_condition,omitempty"`
	CrowdLevel       *int       `json:"crowd_level,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// ReviewCreate is the payload for creating a review
type ReviewCreate struct {
	SpotID           int64    `json:"spot_id" validate:"required,gt=0"`
	UserID           string   `json:"user_id" validate:"required"`
	Rating           int      `json:"rating" validate:"required,min=1,max=5"`
	Comment          string   `json:"comment" validate:"required"`
	WaveHeight       *float64 `json:"wave_height,omitempty"`
	WindCondition    *string  `json:"wind_condition,omitempty"`
	WeatherCondition *string  `json:"weather_condition,omitempty"`
	CrowdLevel       *int     `json:"crowd_level,omitempty" validate:"omitempty,min=1,max=5"`
}

// ReviewUpdate is a partial patch. Nil fields are left untouched by the backend.
type ReviewUpdate struct {
	Rating           *int     `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment          *string  `json:"comment,omitempty" validate:"omitempty,min=1"`
	WaveHeight       *float64 `json:"wave_height,omitempty"`
	WindCondition    *string  `json:"wind_condition,omitempty"`
	WeatherCondition *string  `json:"weather_condition,omitempty"`
	CrowdLevel       *int     `json:"crowd_level,omitempty" validate:"omitempty,min=1,max=5"`
}

// Merge overlays the fields returned by the backend onto r.
// Identity, spot and author are kept from r; optional fields the response omits keep their prior value.
func (r Review) Merge(updated Review) Review {
	merged := r
	if updated.Rating != 0 {
		merged.Rating = updated.Rating
	}
	if updated.Comment != "" {
		merged.Comment = updated.Comment
	}
	if updated.WaveHeight != nil {
		merged.WaveHeight = updated.WaveHeight
	}
	if updated.WindCondition != nil {
		merged.WindCondition = updated.WindCondition
	}
	if updated.WeatherCondition != nil {
		merged.WeatherCondition = updated.WeatherCondition
	}
	if updated.CrowdLevel != nil {
		merged.CrowdLevel = updated.CrowdLevel
	}
	if !updated.CreatedAt.IsZero() {
		merged.CreatedAt = updated.CreatedAt
	}
	if updated.UpdatedAt != nil {
		merged.UpdatedAt = updated.UpdatedAt
	}
	return merged
}

// MessageResponse is the confirmation body returned by delete/save/unsave calls
type MessageResponse struct {
	Message string `json:"message"`
}

// SavedSpotRequest is the body of a save-spot call
type SavedSpotRequest struct {
	SpotID int64 `json:"spot_id"`
}
