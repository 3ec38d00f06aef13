package store

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ngmaloney/surf-terminal/internal/api"
	"github.com/ngmaloney/surf-terminal/internal/models"
)

const errNoUser = "you must be signed in to save spots"

// SavedSpotsStore caches the signed-in user's saved spots
type SavedSpotsStore struct {
	state

	gw     api.SavedSpotGateway
	logger *slog.Logger
	spots  []models.Spot
}

// SavedSpotsOptions configures a SavedSpotsStore
type SavedSpotsOptions struct {
	// UserID is fetched on construction when AutoLoad is set
	UserID   string
	AutoLoad bool
}

// NewSavedSpotsStore creates a store over gw. With AutoLoad and a user id it blocks
// until the first fetch settles; otherwise the store starts empty.
func NewSavedSpotsStore(ctx context.Context, gw api.SavedSpotGateway, opts SavedSpotsOptions, logger *slog.Logger) *SavedSpotsStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &SavedSpotsStore{
		gw:     gw,
		logger: logger.With("store", "saved_spots"),
		spots:  []models.Spot{},
	}
	if opts.AutoLoad {
		s.FetchSavedSpots(ctx, opts.UserID)
	}
	return s
}

// FetchSavedSpots replaces the collection with the user's saved spots.
// It does nothing without a user id.
func (s *SavedSpotsStore) FetchSavedSpots(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	s.begin()

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res := s.gw.ListSavedSpots(ctx, userID)
	if !res.OK() {
		s.fail(res.Error)
		return
	}

	spots := dedupSpots(*res.Data)
	s.mu.Lock()
	s.spots = spots
	s.loading = false
	s.mu.Unlock()

	s.logger.Debug("saved spots fetched", "count", len(spots))
	s.notify()
}

// SaveSpot creates the relation and then re-fetches the full list,
// since the backend resolves saved spots to complete spots with forecasts.
func (s *SavedSpotsStore) SaveSpot(ctx context.Context, userID string, spotID int64) {
	if userID == "" {
		s.fail(errNoUser)
		return
	}
	s.begin()

	callCtx, cancel := withTimeout(ctx)
	res := s.gw.SaveSpot(callCtx, userID, spotID)
	cancel()
	if !res.OK() {
		s.fail(res.Error)
		return
	}

	s.logger.Info("spot saved", "spot_id", spotID)
	s.FetchSavedSpots(ctx, userID)
}

// UnsaveSpot deletes the relation and removes the spot locally
func (s *SavedSpotsStore) UnsaveSpot(ctx context.Context, userID string, spotID int64) {
	if userID == "" {
		s.fail(errNoUser)
		return
	}
	s.begin()

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res := s.gw.UnsaveSpot(ctx, userID, spotID)
	if !res.OK() {
		s.fail(res.Error)
		return
	}

	s.mu.Lock()
	s.spots = slices.DeleteFunc(s.spots, func(sp models.Spot) bool { return sp.ID == spotID })
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("spot unsaved", "spot_id", spotID)
	s.notify()
}

// Toggle saves spotID if absent and unsaves it if present
func (s *SavedSpotsStore) Toggle(ctx context.Context, userID string, spotID int64) {
	if s.IsSaved(spotID) {
		s.UnsaveSpot(ctx, userID, spotID)
		return
	}
	s.SaveSpot(ctx, userID, spotID)
}

// IsSaved reports whether spotID is in the local collection
func (s *SavedSpotsStore) IsSaved(spotID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.ContainsFunc(s.spots, func(sp models.Spot) bool { return sp.ID == spotID })
}

// Spots returns a copy of the saved spots
func (s *SavedSpotsStore) Spots() []models.Spot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.spots)
}

// Reset clears the collection, e.g. after sign-out
func (s *SavedSpotsStore) Reset() {
	s.mu.Lock()
	s.spots = []models.Spot{}
	s.err = ""
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

func dedupSpots(spots []models.Spot) []models.Spot {
	seen := make(map[int64]bool, len(spots))
	out := make([]models.Spot, 0, len(spots))
	for _, sp := range spots {
		if seen[sp.ID] {
			continue
		}
		seen[sp.ID] = true
		out = append(out, sp)
	}
	return out
}
