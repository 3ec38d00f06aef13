package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ngmaloney/surf-terminal/internal/models"
)

// ListSpots retrieves every spot
func (c *Client) ListSpots(ctx context.Context) Result[[]models.Spot] {
	return Do[[]models.Spot](ctx, c, "/spots", RequestOptions{Operation: "list_spots"})
}

// GetSpot retrieves one spot
func (c *Client) GetSpot(ctx context.Context, spotID int64) Result[models.Spot] {
	return Do[models.Spot](ctx, c, fmt.Sprintf("/spots/%d", spotID), RequestOptions{Operation: "get_spot"})
}

// GetForecast retrieves the current forecast for a spot
func (c *Client) GetForecast(ctx context.Context, spotID int64) Result[models.Forecast] {
	return Do[models.Forecast](ctx, c, fmt.Sprintf("/spots/%d/forecast", spotID), RequestOptions{Operation: "get_forecast"})
}

// ListSavedSpots retrieves the spots a user has saved. The backend resolves each
// relation to a full spot including its current forecast.
func (c *Client) ListSavedSpots(ctx context.Context, userID string) Result[[]models.Spot] {
	return Do[[]models.Spot](ctx, c, savedSpotsPath(userID), RequestOptions{Operation: "list_saved_spots"})
}

// SaveSpot creates the user-to-spot relation
func (c *Client) SaveSpot(ctx context.Context, userID string, spotID int64) Result[models.MessageResponse] {
	return Do[models.MessageResponse](ctx, c, savedSpotsPath(userID), RequestOptions{
		Operation: "save_spot",
		Method:    http.MethodPost,
		Body:      models.SavedSpotRequest{SpotID: spotID},
	})
}

// UnsaveSpot deletes the user-to-spot relation
func (c *Client) UnsaveSpot(ctx context.Context, userID string, spotID int64) Result[models.MessageResponse] {
	return Do[models.MessageResponse](ctx, c, fmt.Sprintf("%s/%d", savedSpotsPath(userID), spotID), RequestOptions{
		Operation: "unsave_spot",
		Method:    http.MethodDelete,
	})
}

func savedSpotsPath(userID string) string {
	return fmt.Sprintf("/users/%s/saved-spots", url.PathEscape(userID))
}
