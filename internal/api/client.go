// Package api is the remote gateway to the surf backend. Every call returns a Result;
// transport and HTTP failures are folded into Result.Error and never returned as Go errors.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ngmaloney/surf-terminal/internal/metrics"
	"github.com/ngmaloney/surf-terminal/internal/models"
)

// SpotReader fetches spot and forecast data
type SpotReader interface {
	// ListSpots retrieves every spot
	ListSpots(ctx context.Context) Result[[]models.Spot]

	// GetSpot retrieves one spot by id
	GetSpot(ctx context.Context, spotID int64) Result[models.Spot]

	// GetForecast retrieves the current forecast for a spot
	GetForecast(ctx context.Context, spotID int64) Result[models.Forecast]
}

// ReviewGateway reads and mutates reviews
type ReviewGateway interface {
	// ListReviews retrieves reviews, optionally filtered by spot and/or author
	ListReviews(ctx context.Context, filter ReviewFilter) Result[[]models.Review]

	GetReview(ctx context.Context, reviewID int64) Result[models.Review]
	CreateReview(ctx context.Context, review models.ReviewCreate) Result[models.Review]
	UpdateReview(ctx context.Context, reviewID int64, update models.ReviewUpdate) Result[models.Review]
	DeleteReview(ctx context.Context, reviewID int64) Result[models.MessageResponse]
}

// SavedSpotGateway manages the user-to-spot bookmark relation
type SavedSpotGateway interface {
	// ListSavedSpots retrieves the user's saved spots, resolved to full spots with forecasts
	ListSavedSpots(ctx context.Context, userID string) Result[[]models.Spot]

	SaveSpot(ctx context.Context, userID string, spotID int64) Result[models.MessageResponse]
	UnsaveSpot(ctx context.Context, userID string, spotID int64) Result[models.MessageResponse]
}

// Gateway is the full backend surface
type Gateway interface {
	SpotReader
	ReviewGateway
	SavedSpotGateway
}

// TokenSource supplies the bearer token for authenticated calls.
// An empty token means the request goes out anonymously.
type TokenSource interface {
	AccessToken() string
}

// ReviewFilter narrows ListReviews. Zero values mean "no filter";
// with neither set the backend returns every review.
type ReviewFilter struct {
	SpotID int64
	UserID string
}

// Client implements Gateway over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	tokens     TokenSource
	metrics    *metrics.GatewayMetrics
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource attaches bearer tokens to every request
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithMetrics records request counts and latency
func WithMetrics(m *metrics.GatewayMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger used for failed requests
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a gateway for the backend at baseURL (already including any /api prefix)
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "SurfTerminal/1.0 (github.com/ngmaloney/surf-terminal)",
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend base
func (c *Client) BaseURL() string {
	return c.baseURL
}
