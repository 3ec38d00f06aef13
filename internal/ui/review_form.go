package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/surf-terminal/internal/models"
)

const (
	fieldRating = iota
	fieldComment
	fieldWaveHeight
	fieldWind
	fieldWeather
	fieldCrowd
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Rating (1-5)",
	"Comment",
	"Wave height (ft)",
	"Wind",
	"Weather",
	"Crowd (1-5)",
}

// reviewForm edits a new or existing review
type reviewForm struct {
	inputs   []textinput.Model
	focus    int
	reviewID int64 // 0 for a new review
	spotID   int64
	spotName string
	err      string
}

func newReviewForm(spotID int64, spotName string) reviewForm {
	f := reviewForm{spotID: spotID, spotName: spotName}
	f.inputs = make([]textinput.Model, fieldCount)
	for i := range f.inputs {
		ti := textinput.New()
		ti.CharLimit = 10
		ti.Width = 40
		f.inputs[i] = ti
	}
	f.inputs[fieldRating].Placeholder = "5"
	f.inputs[fieldComment].Placeholder = "How was it?"
	f.inputs[fieldComment].CharLimit = 500
	f.inputs[fieldWaveHeight].Placeholder = "optional"
	f.inputs[fieldWind].Placeholder = "optional, e.g. offshore"
	f.inputs[fieldWind].CharLimit = 50
	f.inputs[fieldWeather].Placeholder = "optional, e.g. sunny"
	f.inputs[fieldWeather].CharLimit = 50
	f.inputs[fieldCrowd].Placeholder = "optional"
	f.inputs[fieldRating].Focus()
	return f
}

func editReviewForm(r models.Review, spotName string) reviewForm {
	f := newReviewForm(r.SpotID, spotName)
	f.reviewID = r.ID
	f.inputs[fieldRating].SetValue(strconv.Itoa(r.Rating))
	f.inputs[fieldComment].SetValue(r.Comment)
	if r.WaveHeight != nil {
		f.inputs[fieldWaveHeight].SetValue(strconv.FormatFloat(*r.WaveHeight, 'f', -1, 64))
	}
	if r.WindCondition != nil {
		f.inputs[fieldWind].SetValue(*r.WindCondition)
	}
	if r.WeatherCondition != nil {
		f.inputs[fieldWeather].SetValue(*r.WeatherCondition)
	}
	if r.CrowdLevel != nil {
		f.inputs[fieldCrowd].SetValue(strconv.Itoa(*r.CrowdLevel))
	}
	return f
}

func (f reviewForm) editing() bool {
	return f.reviewID != 0
}

// Update moves focus on tab/shift+tab/up/down and forwards everything else to the focused input
func (f reviewForm) Update(msg tea.KeyMsg) (reviewForm, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return f.setFocus((f.focus + 1) % fieldCount), nil
	case "shift+tab", "up":
		return f.setFocus((f.focus + fieldCount - 1) % fieldCount), nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.err = ""
	return f, cmd
}

func (f reviewForm) setFocus(i int) reviewForm {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
	return f
}

func (f reviewForm) value(field int) string {
	return strings.TrimSpace(f.inputs[field].Value())
}

// draft builds a create payload. Range and blank checks are left to the store.
func (f reviewForm) draft(userID string) (models.ReviewCreate, error) {
	rating, err := f.rating()
	if err != nil {
		return models.ReviewCreate{}, err
	}
	opt, err := f.optional()
	if err != nil {
		return models.ReviewCreate{}, err
	}
	return models.ReviewCreate{
		SpotID:           f.spotID,
		UserID:           userID,
		Rating:           rating,
		Comment:          f.value(fieldComment),
		WaveHeight:       opt.WaveHeight,
		WindCondition:    opt.WindCondition,
		WeatherCondition: opt.WeatherCondition,
		CrowdLevel:       opt.CrowdLevel,
	}, nil
}

// patch builds an update payload from every field on the form
func (f reviewForm) patch() (models.ReviewUpdate, error) {
	rating, err := f.rating()
	if err != nil {
		return models.ReviewUpdate{}, err
	}
	opt, err := f.optional()
	if err != nil {
		return models.ReviewUpdate{}, err
	}
	comment := f.value(fieldComment)
	opt.Rating = &rating
	opt.Comment = &comment
	return opt, nil
}

func (f reviewForm) rating() (int, error) {
	raw := f.value(fieldRating)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("rating must be a whole number")
	}
	return n, nil
}

// optional parses the optional observation fields into an update-shaped value
func (f reviewForm) optional() (models.ReviewUpdate, error) {
	var out models.ReviewUpdate

	if raw := f.value(fieldWaveHeight); raw != "" {
		h, err := strconv.ParseFloat(raw, 64)
		if err != nil || h < 0 {
			return out, fmt.Errorf("wave height must be a positive number")
		}
		out.WaveHeight = &h
	}
	if raw := f.value(fieldWind); raw != "" {
		out.WindCondition = &raw
	}
	if raw := f.value(fieldWeather); raw != "" {
		out.WeatherCondition = &raw
	}
	if raw := f.value(fieldCrowd); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return out, fmt.Errorf("crowd level must be a whole number")
		}
		out.CrowdLevel = &n
	}
	return out, nil
}

func (f reviewForm) View(storeErr string) string {
	title := "Write a review"
	if f.editing() {
		title = "Edit review"
	}

	var rows []string
	rows = append(rows, titleStyle.Render(title+" • "+f.spotName), "")
	for i, in := range f.inputs {
		label := labelStyle.Width(18).Render(fieldLabels[i])
		if i == f.focus {
			label = selectedStyle.Width(18).Render(fieldLabels[i])
		}
		rows = append(rows, label+" "+in.View())
	}

	errText := f.err
	if errText == "" {
		errText = storeErr
	}
	if errText != "" {
		rows = append(rows, "", errorStyle.Render("✗ "+errText))
	}

	box := activePaneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	help := helpStyle.Render("Tab/↑/↓: Next field • Enter: Submit • Esc: Cancel")
	return lipgloss.JoinVertical(lipgloss.Left, box, help)
}
