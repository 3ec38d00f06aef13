package models

import (
	"fmt"
	"time"
)

// SwellComponent represents a single swell train in a forecast
type SwellComponent struct {
	Height    float64 `json:"height"`    // feet
	Period    float64 `json:"period"`    // seconds
	Direction float64 `json:"direction"` // degrees
}

// SwellComponents holds up to three swell trains ordered by energy
type SwellComponents struct {
	Primary   *SwellComponent `json:"primary,omitempty"`
	Secondary *SwellComponent `json:"secondary,omitempty"`
	Tertiary  *SwellComponent `json:"tertiary,omitempty"`
}

// List returns the present components in primary, secondary, tertiary order
func (s SwellComponents) List() []SwellComponent {
	var out []SwellComponent
	for _, c := range []*SwellComponent{s.Primary, s.Secondary, s.Tertiary} {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// Forecast is a point-in-time wave/wind/tide prediction for one spot
type Forecast struct {
	SpotID          int64           `json:"spot_id"`
	Timestamp       time.Time       `json:"timestamp"`
	WaveHeight      *float64        `json:"wave_height"`    // feet, minimum breaking height
	Tide            *float64        `json:"tide"`           // feet
	WindSpeed       *float64        `json:"wind_speed"`     // mph
	WindDirection   *float64        `json:"wind_direction"` // degrees
	SwellComponents SwellComponents `json:"swell_components"`
}

// WaveHeightDisplay formats the wave height for display, or "" if unknown
func (f *Forecast) WaveHeightDisplay() string {
	if f == nil || f.WaveHeight == nil {
		return ""
	}
	return fmt.Sprintf("%.1f ft", *f.WaveHeight)
}

// Spot represents a surf location
type Spot struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"` // region label, e.g. "Santa Barbara, California"
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Difficulty  int       `json:"difficulty"` // 1 (beginner) to 5 (expert)
	Forecast    *Forecast `json:"forecast,omitempty"`
}

// CompassPoint converts a bearing in degrees to a 16-point compass label
func CompassPoint(degrees float64) string {
	points := []string{"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
		"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW"}
	d := int((degrees+11.25)/22.5) % 16
	if d < 0 {
		d += 16
	}
	return points[d]
}
