package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngmaloney/surf-terminal/internal/models"
)

func seedReviews(gw *fakeGateway) {
	crowd := 3
	gw.reviews = []models.Review{
		{ID: 1, SpotID: 1, UserID: "alice", Rating: 5, Comment: "Glassy", CrowdLevel: &crowd},
		{ID: 2, SpotID: 1, UserID: "bob", Rating: 3, Comment: "Crowded"},
		{ID: 3, SpotID: 2, UserID: "alice", Rating: 4, Comment: "Fun peaks"},
	}
}

func TestReviewsStore_FetchBySpot(t *testing.T) {
	gw := newFakeGateway()
	seedReviews(gw)
	s := NewReviewsStore(context.Background(), gw, ReviewsOptions{SpotID: 1}, nil)

	s.FetchReviews(context.Background())

	reviews := s.Reviews()
	require.Len(t, reviews, 2)
	for _, r := range reviews {
		assert.Equal(t, int64(1), r.SpotID)
	}
	assert.False(t, s.Loading())
	assert.Empty(t, s.Error())
	assert.InDelta(t, 4.0, s.AverageRating(), 0.001)
}

func TestReviewsStore_AutoLoadAndLimit(t *testing.T) {
	gw := newFakeGateway()
	seedReviews(gw)

	s := NewReviewsStore(context.Background(), gw, ReviewsOptions{Limit: 2, AutoLoad: true}, nil)

	assert.Equal(t, 1, gw.count("list_reviews"))
	assert.Len(t, s.Reviews(), 2)
}

func TestReviewsStore_ByAuthor(t *testing.T) {
	gw := newFakeGateway()
	seedReviews(gw)
	s := NewReviewsStore(context.Background(), gw, ReviewsOptions{AutoLoad: true}, nil)

	mine := s.ByAuthor("alice")
	require.Len(t, mine, 2)
	assert.Equal(t, int64(1), mine[0].ID)
	assert.Equal(t, int64(3), mine[1].ID)
	assert.Empty(t, s.ByAuthor("nobody"))
}

func TestReviewsStore_CreateThenFetchHasNoDuplicate(t *testing.T) {
	gw := newFakeGateway()
	seedReviews(gw)
	ctx := context.Background()
	s := NewReviewsStore(ctx, gw, ReviewsOptions{SpotID: 1, AutoLoad: true}, nil)

	created := s.CreateReview(ctx, models.ReviewCreate{SpotID: 1, UserID: "carol", Rating: 4, Comment: "  Offshore all day  "})
	require.NotNil(t, created)
	assert.Equal(t, "Offshore all day", created.Comment)
	assert.Len(t, s.Reviews(), 3)
	assert.Equal(t, created.ID, s.Reviews()[2].ID, "created review goes to the end")

	s.FetchReviews(ctx)

	count := 0
	for _, r := range s.Reviews() {
		if r.ID == created.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestReviewsStore_CreateValidation(t *testing.T) {
	crowdTooHigh := 9
	tests := []struct {
		name      string
		draft     models.ReviewCreate
		wantError string
	}{
		{"missing spot", models.ReviewCreate{UserID: "u", Rating: 3, Comment: "ok"}, "spot is required"},
		{"missing user", models.ReviewCreate{SpotID: 1, Rating: 3, Comment: "ok"}, "user is required"},
		{"rating too high", models.ReviewCreate{SpotID: 1, UserID: "u", Rating: 6, Comment: "ok"}, "rating must be between 1 and 5"},
		{"rating missing", models.ReviewCreate{SpotID: 1, UserID: "u", Comment: "ok"}, "rating is required"},
		{"blank comment", models.ReviewCreate{SpotID: 1, UserID: "u", Rating: 3, Comment: "   "}, "comment is required"},
		{"crowd out of range", models.ReviewCreate{SpotID: 1, UserID: "u", Rating: 3, Comment: "ok", CrowdLevel: &crowdTooHigh}, "crowd level must be between 1 and 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFakeGateway()
			s := NewReviewsStore(context.Background(), gw, ReviewsOptions{}, nil)

			got := s.CreateReview(context.Background(), tt.draft)

			assert.Nil(t, got)
			assert.Equal(t, tt.wantError, s.Error())
			assert.Zero(t, gw.count("create_review"), "invalid input must not reach the backend")
			assert.Empty(t, s.Reviews())
		})
	}
}

func TestReviewsStore_CreateServerError(t *testing.T) {
	gw := newFakeGateway()
	seedReviews(gw)
	ctx := context.Background()
	s := NewReviewsStore(ctx, gw, ReviewsOptions{SpotID: 1, AutoLoad: true}, nil)
	before := len(s.Reviews())

	gw.failCreate = "server error"
	got := s.CreateReview(ctx, models.ReviewCreate{SpotID: 1, UserID: "u", Rating: 4, Comment: "Good"})

	assert.Nil(t, got)
	assert.Equal(t, "server error", s.Error())
	assert.Len(t, s.Reviews(), before)
	assert.False(t, s.Loading())
}

func TestReviewsStore_UpdateChangesOnlyPatchedField(t *testing.T) {
	gw := newFakeGateway()
	seedReviews(gw)
	ctx := context.Background()
	s := NewReviewsStore(ctx, gw, ReviewsOptions{SpotID: 1, AutoLoad: true}, nil)
	before, ok := s.Find(1)
	require.True(t, ok)

	rating := 3
	require.True(t, s.UpdateReview(ctx, 1, models.ReviewUpdate{Rating: &rating}))

	after, ok := s.Find(1)
	require.True(t, ok)
	assert.Equal(t, 3, after.Rating)
	after.Rating = before.Rating
	assert.Equal(t, before, after)

	other, _ := s.Find(2)
	assert.Equal(t, 3, other.Rating)
	assert.Equal(t, "Crowded", other.Comment)
}

func TestReviewsStore_UpdateFailureLeavesCollection(t *testing.T) {
	gw := newFakeGateway()
	seedReviews(gw)
	ctx := context.Background()
	s := NewReviewsStore(ctx, gw, ReviewsOptions{AutoLoad: true}, nil)
	before := s.Reviews()

	gw.failUpdate = "Review not found"
	rating := 1
	assert.False(t, s.UpdateReview(ctx, 1, models.ReviewUpdate{Rating: &rating}))
	assert.Equal(t, "Review not found", s.Error())
	assert.Equal(t, before, s.Reviews())

	blank := "  "
	assert.False(t, s.UpdateReview(ctx, 1, models.ReviewUpdate{Comment: &blank}))
	assert.Equal(t, "comment cannot be empty", s.Error())
	assert.Equal(t, 1, gw.count("update_review"))
}

func TestReviewsStore_DeleteThenFetch(t *testing.T) {
	gw := newFakeGateway()
	seedReviews(gw)
	ctx := context.Background()
	s := NewReviewsStore(ctx, gw, ReviewsOptions{AutoLoad: true}, nil)

	require.True(t, s.DeleteReview(ctx, 2))
	_, found := s.Find(2)
	assert.False(t, found)

	s.FetchReviews(ctx)
	_, found = s.Find(2)
	assert.False(t, found)
	assert.Len(t, s.Reviews(), 2)
}

func TestReviewsStore_DeleteFailure(t *testing.T) {
	gw := newFakeGateway()
	seedReviews(gw)
	ctx := context.Background()
	s := NewReviewsStore(ctx, gw, ReviewsOptions{AutoLoad: true}, nil)

	gw.failDelete = "Error: 500 Internal Server Error"
	assert.False(t, s.DeleteReview(ctx, 2))
	assert.Len(t, s.Reviews(), 3)
	assert.Equal(t, "Error: 500 Internal Server Error", s.Error())
}

func TestReviewsStore_EmptyAverage(t *testing.T) {
	s := NewReviewsStore(context.Background(), newFakeGateway(), ReviewsOptions{}, nil)
	assert.Zero(t, s.AverageRating())
	assert.NotNil(t, s.Reviews())
}
