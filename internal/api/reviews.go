package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ngmaloney/surf-terminal/internal/models"
)

// ListReviews retrieves reviews matching filter
func (c *Client) ListReviews(ctx context.Context, filter ReviewFilter) Result[[]models.Review] {
	params := url.Values{}
	if filter.SpotID != 0 {
		params.Add("spot_id", strconv.FormatInt(filter.SpotID, 10))
	}
	if filter.UserID != "" {
		params.Add("user_id", filter.UserID)
	}

	return Do[[]models.Review](ctx, c, "/reviews", RequestOptions{
		Operation: "list_reviews",
		Query:     params,
	})
}

// GetReview retrieves one review
func (c *Client) GetReview(ctx context.Context, reviewID int64) Result[models.Review] {
	return Do[models.Review](ctx, c, fmt.Sprintf("/reviews/%d", reviewID), RequestOptions{Operation: "get_review"})
}

// CreateReview posts a new review
func (c *Client) CreateReview(ctx context.Context, review models.ReviewCreate) Result[models.Review] {
	return Do[models.Review](ctx, c, "/reviews", RequestOptions{
		Operation: "create_review",
		Method:    http.MethodPost,
		Body:      review,
	})
}

// UpdateReview patches an existing review
func (c *Client) UpdateReview(ctx context.Context, reviewID int64, update models.ReviewUpdate) Result[models.Review] {
	return Do[models.Review](ctx, c, fmt.Sprintf("/reviews/%d", reviewID), RequestOptions{
		Operation: "update_review",
		Method:    http.MethodPatch,
		Body:      update,
	})
}

// DeleteReview removes a review
func (c *Client) DeleteReview(ctx context.Context, reviewID int64) Result[models.MessageResponse] {
	return Do[models.MessageResponse](ctx, c, fmt.Sprintf("/reviews/%d", reviewID), RequestOptions{
		Operation: "delete_review",
		Method:    http.MethodDelete,
	})
}

var _ Gateway = (*Client)(nil)
