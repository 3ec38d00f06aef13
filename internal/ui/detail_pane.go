package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/surf-terminal/internal/models"
	"github.com/ngmaloney/surf-terminal/internal/store"
)

// renderForecastPane renders the forecast information pane
func renderForecastPane(view *store.SpotView, width int) string {
	var content strings.Builder

	content.WriteString(titleStyle.Render("Forecast"))
	content.WriteString("\n\n")

	if view == nil || view.Forecast == nil {
		content.WriteString(mutedStyle.Render("No forecast available"))
		return paneStyle.Width(width).Render(content.String())
	}
	fc := view.Forecast

	if view.WaveHeightDisplay != "" {
		content.WriteString(labelStyle.Render("Waves: "))
		content.WriteString(valueStyle.Render(view.WaveHeightDisplay))
		content.WriteString("\n")
	}
	if fc.Tide != nil {
		content.WriteString(labelStyle.Render("Tide: "))
		content.WriteString(valueStyle.Render(fmt.Sprintf("%.1f ft", *fc.Tide)))
		content.WriteString("\n")
	}
	if wind := formatWind(fc); wind != "" {
		content.WriteString(labelStyle.Render("Wind: "))
		content.WriteString(valueStyle.Render(wind))
		content.WriteString("\n")
	}

	if swells := fc.SwellComponents.List(); len(swells) > 0 {
		content.WriteString("\n")
		content.WriteString(labelStyle.Render("Swell:"))
		content.WriteString("\n")
		for _, sw := range swells {
			content.WriteString(fmt.Sprintf("  %.1f ft at %.0fs from %s\n",
				sw.Height, sw.Period, models.CompassPoint(sw.Direction)))
		}
	}

	if !fc.Timestamp.IsZero() {
		content.WriteString("\n")
		content.WriteString(mutedStyle.Render("Updated " + fc.Timestamp.Local().Format("Jan 2, 3:04 PM")))
	}

	return paneStyle.Width(width).Render(content.String())
}

// formatWind renders speed and compass direction, or "" if unknown
func formatWind(fc *models.Forecast) string {
	if fc.WindSpeed == nil {
		return ""
	}
	s := fmt.Sprintf("%.0f mph", *fc.WindSpeed)
	if fc.WindDirection != nil {
		s = models.CompassPoint(*fc.WindDirection) + " " + s
	}
	return s
}

// renderSpotHeader renders name, location, difficulty and coordinates
func renderSpotHeader(view *store.SpotView, saved bool) string {
	headerStyle := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Padding(0, 1)

	name := view.Name
	if saved {
		name = "★ " + name
	}

	lines := []string{
		headerStyle.Render("🏄 " + name),
	}
	if view.Location != "" {
		lines = append(lines, valueStyle.Render(view.Location))
	}
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("%s • %.4f, %.4f", difficultyLabel(view.Difficulty), view.Latitude, view.Longitude)))
	if view.Description != "" {
		lines = append(lines, "", view.Description)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderReviews renders the spot's reviews with the cursor on selected
func renderReviews(reviews []models.Review, selected int, names map[string]string, currentUserID string, average float64) string {
	if len(reviews) == 0 {
		return mutedStyle.Render("No reviews yet. Be the first!")
	}

	var lines []string
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("Average %.1f from %d reviews", average, len(reviews))), "")

	for i, r := range reviews {
		author := names[r.UserID]
		if author == "" {
			author = "…"
		}
		if r.UserID == currentUserID && currentUserID != "" {
			author += " (you)"
		}

		cursor := "  "
		head := fmt.Sprintf("%s  %s  %s", starStyle.Render(stars(r.Rating)), author, mutedStyle.Render(r.CreatedAt.Local().Format("Jan 2, 2006")))
		if i == selected {
			cursor = selectedStyle.Render("▸ ")
		}
		lines = append(lines, cursor+head)
		lines = append(lines, "    "+r.Comment)
		if extra := reviewConditions(r); extra != "" {
			lines = append(lines, "    "+mutedStyle.Render(extra))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// reviewConditions summarizes the optional observations on a review
func reviewConditions(r models.Review) string {
	var parts []string
	if r.WaveHeight != nil {
		parts = append(parts, fmt.Sprintf("waves %.1f ft", *r.WaveHeight))
	}
	if r.WindCondition != nil && *r.WindCondition != "" {
		parts = append(parts, "wind "+*r.WindCondition)
	}
	if r.WeatherCondition != nil && *r.WeatherCondition != "" {
		parts = append(parts, *r.WeatherCondition)
	}
	if r.CrowdLevel != nil {
		parts = append(parts, fmt.Sprintf("crowd %d/5", *r.CrowdLevel))
	}
	return strings.Join(parts, " • ")
}
