package store

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/ngmaloney/surf-terminal/internal/api"
	"github.com/ngmaloney/surf-terminal/internal/models"
)

// SpotSearchStore holds the full spot catalogue and filters it locally
type SpotSearchStore struct {
	state

	gw     api.SpotReader
	logger *slog.Logger
	spots  []models.Spot
	loaded bool
}

// NewSpotSearchStore creates an empty store over gw
func NewSpotSearchStore(gw api.SpotReader, logger *slog.Logger) *SpotSearchStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SpotSearchStore{
		gw:     gw,
		logger: logger.With("store", "spot_search"),
		spots:  []models.Spot{},
	}
}

// Load fetches every spot. Once a load has succeeded later calls do nothing.
func (s *SpotSearchStore) Load(ctx context.Context) {
	s.mu.Lock()
	if s.loaded || s.loading {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res := s.gw.ListSpots(ctx)
	if !res.OK() {
		s.fail(res.Error)
		return
	}

	s.mu.Lock()
	s.spots = slices.Clone(*res.Data)
	if s.spots == nil {
		s.spots = []models.Spot{}
	}
	s.loaded = true
	s.loading = false
	s.mu.Unlock()

	s.logger.Debug("spots loaded", "count", len(*res.Data))
	s.notify()
}

// Spots returns the whole catalogue, never nil
func (s *SpotSearchStore) Spots() []models.Spot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.spots)
}

// Search returns spots whose name, location or description contains term, ignoring case.
// A blank term matches nothing.
func (s *SpotSearchStore) Search(term string) []models.Spot {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []models.Spot{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	results := []models.Spot{}
	for _, sp := range s.spots {
		if strings.Contains(strings.ToLower(sp.Name), term) ||
			strings.Contains(strings.ToLower(sp.Location), term) ||
			strings.Contains(strings.ToLower(sp.Description), term) {
			results = append(results, sp)
		}
	}
	return results
}
