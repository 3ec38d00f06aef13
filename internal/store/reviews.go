package store

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/ngmaloney/surf-terminal/internal/api"
	"github.com/ngmaloney/surf-terminal/internal/models"
)

// ReviewsOptions scopes a ReviewsStore
type ReviewsOptions struct {
	// SpotID and UserID filter the fetched collection; zero values mean no filter
	SpotID int64
	UserID string
	// Limit keeps at most this many reviews from each fetch (0 = unlimited)
	Limit int
	// AutoLoad fetches once while the store is constructed
	AutoLoad bool
}

// ReviewsStore caches a filtered list of reviews and applies confirmed mutations to it
type ReviewsStore struct {
	state

	gw      api.ReviewGateway
	opts    ReviewsOptions
	logger  *slog.Logger
	reviews []models.Review
}

// NewReviewsStore creates a store over gw. With AutoLoad set it blocks until the first fetch settles.
func NewReviewsStore(ctx context.Context, gw api.ReviewGateway, opts ReviewsOptions, logger *slog.Logger) *ReviewsStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &ReviewsStore{
		gw:      gw,
		opts:    opts,
		logger:  logger.With("store", "reviews"),
		reviews: []models.Review{},
	}
	if opts.AutoLoad {
		s.FetchReviews(ctx)
	}
	return s
}

// Options returns the filter the store was created with
func (s *ReviewsStore) Options() ReviewsOptions {
	return s.opts
}

// FetchReviews replaces the collection with the backend's reviews for the store's filter.
// On failure the previous collection is kept.
func (s *ReviewsStore) FetchReviews(ctx context.Context) {
	s.begin()

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res := s.gw.ListReviews(ctx, api.ReviewFilter{SpotID: s.opts.SpotID, UserID: s.opts.UserID})
	if !res.OK() {
		s.fail(res.Error)
		return
	}

	reviews := *res.Data
	if s.opts.Limit > 0 && len(reviews) > s.opts.Limit {
		reviews = reviews[:s.opts.Limit]
	}

	s.mu.Lock()
	s.reviews = slices.Clone(reviews)
	if s.reviews == nil {
		s.reviews = []models.Review{}
	}
	s.loading = false
	s.mu.Unlock()

	s.logger.Debug("reviews fetched", "count", len(reviews), "spot_id", s.opts.SpotID, "user_id", s.opts.UserID)
	s.notify()
}

// CreateReview validates draft, sends it and appends the stored review.
// It returns nil when validation or the backend call fails; Error() then holds the reason.
func (s *ReviewsStore) CreateReview(ctx context.Context, draft models.ReviewCreate) *models.Review {
	draft.Comment = strings.TrimSpace(draft.Comment)
	if err := validate.Struct(draft); err != nil {
		s.fail(validationMessage(err))
		return nil
	}

	s.begin()

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res := s.gw.CreateReview(ctx, draft)
	if !res.OK() {
		s.fail(res.Error)
		return nil
	}

	created := *res.Data
	s.mu.Lock()
	s.reviews = append(s.reviews, created)
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("review created", "review_id", created.ID, "spot_id", created.SpotID)
	s.notify()
	return &created
}

// UpdateReview sends patch and merges the returned review into the local copy in place.
// It reports whether the update was confirmed.
func (s *ReviewsStore) UpdateReview(ctx context.Context, reviewID int64, patch models.ReviewUpdate) bool {
	if patch.Comment != nil {
		trimmed := strings.TrimSpace(*patch.Comment)
		patch.Comment = &trimmed
	}
	if err := validate.Struct(patch); err != nil {
		s.fail(validationMessage(err))
		return false
	}

	s.begin()

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res := s.gw.UpdateReview(ctx, reviewID, patch)
	if !res.OK() {
		s.fail(res.Error)
		return false
	}

	s.mu.Lock()
	for i := range s.reviews {
		if s.reviews[i].ID == reviewID {
			s.reviews[i] = s.reviews[i].Merge(*res.Data)
			break
		}
	}
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("review updated", "review_id", reviewID)
	s.notify()
	return true
}

// DeleteReview deletes the review and removes it locally. It reports whether the delete was confirmed.
func (s *ReviewsStore) DeleteReview(ctx context.Context, reviewID int64) bool {
	s.begin()

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res := s.gw.DeleteReview(ctx, reviewID)
	if !res.OK() {
		s.fail(res.Error)
		return false
	}

	s.mu.Lock()
	s.reviews = slices.DeleteFunc(s.reviews, func(r models.Review) bool { return r.ID == reviewID })
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("review deleted", "review_id", reviewID)
	s.notify()
	return true
}

// Reviews returns a copy of the collection in backend order
func (s *ReviewsStore) Reviews() []models.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.reviews)
}

// ByAuthor returns the reviews written by userID
func (s *ReviewsStore) ByAuthor(userID string) []models.Review {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Review
	for _, r := range s.reviews {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// AverageRating returns the mean rating, or 0 with no reviews
func (s *ReviewsStore) AverageRating() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range s.reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(s.reviews))
}

// Find returns the review with id, if loaded
func (s *ReviewsStore) Find(reviewID int64) (models.Review, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reviews {
		if r.ID == reviewID {
			return r, true
		}
	}
	return models.Review{}, false
}
