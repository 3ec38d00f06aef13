package store

import (
	"context"
	"log/slog"

	"github.com/ngmaloney/surf-terminal/internal/api"
	"github.com/ngmaloney/surf-terminal/internal/models"
)

const errNoSpotID = "no spot id provided"

// SpotView is a spot merged with its current forecast
type SpotView struct {
	models.Spot
	// Forecast is nil when the forecast call failed
	Forecast *models.Forecast
	// WaveHeightDisplay is e.g. "3.5 ft", or "" without a forecast
	WaveHeightDisplay string
}

// SpotDetailStore loads one spot and its forecast for the detail screen
type SpotDetailStore struct {
	state

	gw     api.SpotReader
	logger *slog.Logger

	generation uint64
	spotID     int64
	view       *SpotView
	warning    string
}

// NewSpotDetailStore creates an empty store over gw
func NewSpotDetailStore(gw api.SpotReader, logger *slog.Logger) *SpotDetailStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SpotDetailStore{
		gw:     gw,
		logger: logger.With("store", "spot_detail"),
	}
}

// Load fetches the spot and its forecast concurrently. A failed spot call is an error;
// a failed forecast only produces a warning and a view without forecast fields.
// If another Load starts before this one settles, this one's result is dropped.
func (s *SpotDetailStore) Load(ctx context.Context, spotID int64) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.spotID = spotID
	if spotID == 0 {
		s.view = nil
		s.warning = ""
		s.loading = false
		s.err = errNoSpotID
		s.mu.Unlock()
		s.notify()
		return
	}
	s.loading = true
	s.err = ""
	s.warning = ""
	s.mu.Unlock()
	s.notify()

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	spotChan := make(chan api.Result[models.Spot], 1)
	forecastChan := make(chan api.Result[models.Forecast], 1)
	go func() { spotChan <- s.gw.GetSpot(ctx, spotID) }()
	go func() { forecastChan <- s.gw.GetForecast(ctx, spotID) }()

	spotRes := <-spotChan
	forecastRes := <-forecastChan

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("discarding stale spot load", "spot_id", spotID)
		return
	}
	s.loading = false
	if !spotRes.OK() {
		s.view = nil
		s.err = spotRes.Error
		s.mu.Unlock()
		s.notify()
		return
	}

	view := &SpotView{Spot: *spotRes.Data}
	if forecastRes.OK() {
		view.Forecast = forecastRes.Data
		view.WaveHeightDisplay = forecastRes.Data.WaveHeightDisplay()
	} else {
		s.warning = "forecast unavailable: " + forecastRes.Error
		s.logger.Warn("forecast failed", "spot_id", spotID, "error", forecastRes.Error)
	}
	s.view = view
	s.mu.Unlock()
	s.notify()
}

// View returns a copy of the loaded spot, or nil
func (s *SpotDetailStore) View() *SpotView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil {
		return nil
	}
	v := *s.view
	return &v
}

// SpotID returns the id of the most recently requested spot
func (s *SpotDetailStore) SpotID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spotID
}

// Warning returns a non-fatal problem from the last load, such as a missing forecast
func (s *SpotDetailStore) Warning() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warning
}
