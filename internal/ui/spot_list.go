package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/ngmaloney/surf-terminal/internal/models"
)

// spotItem wraps a Spot for use in a list
type spotItem struct {
	spot  models.Spot
	saved bool
}

// FilterValue implements list.Item
func (s spotItem) FilterValue() string {
	return s.spot.Name + " " + s.spot.Description
}

// Title implements list.DefaultItem
func (s spotItem) Title() string {
	if s.saved {
		return "★ " + s.spot.Name
	}
	return s.spot.Name
}

// Description implements list.DefaultItem
func (s spotItem) Description() string {
	parts := []string{difficultyLabel(s.spot.Difficulty)}
	if s.spot.Location != "" {
		parts = append(parts, s.spot.Location)
	}
	if wave := s.spot.Forecast.WaveHeightDisplay(); wave != "" {
		parts = append(parts, wave)
	}
	if s.spot.Description != "" {
		parts = append(parts, s.spot.Description)
	}
	return strings.Join(parts, " • ")
}

// reviewItem wraps a Review for use in a list
type reviewItem struct {
	review   models.Review
	spotName string
}

// FilterValue implements list.Item
func (r reviewItem) FilterValue() string {
	return r.review.Comment
}

// Title implements list.DefaultItem
func (r reviewItem) Title() string {
	name := r.spotName
	if name == "" {
		name = fmt.Sprintf("Spot #%d", r.review.SpotID)
	}
	return fmt.Sprintf("%s  %s", name, stars(r.review.Rating))
}

// Description implements list.DefaultItem
func (r reviewItem) Description() string {
	return r.review.Comment
}

// newList creates a list.Model with the app's defaults. Quitting is handled by the model, not the list.
func newList(items []list.Item, title string, width, height int) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return l
}

func spotItems(spots []models.Spot, isSaved func(int64) bool) []list.Item {
	items := make([]list.Item, len(spots))
	for i, sp := range spots {
		items[i] = spotItem{spot: sp, saved: isSaved(sp.ID)}
	}
	return items
}

func difficultyLabel(level int) string {
	switch {
	case level <= 0:
		return "Unrated"
	case level == 1:
		return "Beginner"
	case level == 2:
		return "Easy"
	case level == 3:
		return "Intermediate"
	case level == 4:
		return "Advanced"
	default:
		return "Expert"
	}
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}
