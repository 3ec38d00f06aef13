package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngmaloney/surf-terminal/internal/metrics"
	"github.com/ngmaloney/surf-terminal/internal/models"
)

const mockBase = "http://surf.test/api"

// setupHTTPMock swaps the default transport for a mock one for the duration of the test
func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func TestDo_ErrorShapes(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		wantError string
	}{
		{
			name:      "string detail",
			responder: httpmock.NewStringResponder(http.StatusInternalServerError, `{"detail":"server error"}`),
			wantError: "server error",
		},
		{
			name:      "not found detail",
			responder: httpmock.NewStringResponder(http.StatusNotFound, `{"detail":"Spot not found"}`),
			wantError: "Spot not found",
		},
		{
			name: "validation list",
			responder: httpmock.NewStringResponder(http.StatusUnprocessableEntity,
				`{"detail":[{"loc":["body","rating"],"msg":"rating must be between 1 and 5"},{"loc":["body","comment"],"msg":"field required"}]}`),
			wantError: "rating must be between 1 and 5; field required",
		},
		{
			name:      "non-JSON body",
			responder: httpmock.NewStringResponder(http.StatusBadGateway, "<html>bad gateway</html>"),
			wantError: "Error: 502 Bad Gateway",
		},
		{
			name:      "empty detail",
			responder: httpmock.NewStringResponder(http.StatusInternalServerError, `{"detail":""}`),
			wantError: "Error: 500 Internal Server Error",
		},
		{
			name:      "transport failure",
			responder: httpmock.NewErrorResponder(errors.New("connection refused")),
			wantError: "connection refused",
		},
		{
			name:      "malformed success body",
			responder: httpmock.NewStringResponder(http.StatusOK, `{"id": "not-a-number"`),
			wantError: "failed to decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupHTTPMock(t)
			httpmock.RegisterResponder(http.MethodGet, mockBase+"/spots/1", tt.responder)

			res := NewClient(mockBase).GetSpot(context.Background(), 1)

			assert.False(t, res.OK())
			assert.Nil(t, res.Data)
			assert.Contains(t, res.Error, tt.wantError)
			assert.Error(t, res.Err())
		})
	}
}

func TestDo_SuccessHasNoError(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodDelete, mockBase+"/reviews/7",
		httpmock.NewStringResponder(http.StatusOK, `{"message":"Review deleted successfully"}`))

	res := NewClient(mockBase).DeleteReview(context.Background(), 7)

	require.True(t, res.OK())
	require.NotNil(t, res.Data)
	assert.Equal(t, "Review deleted successfully", res.Data.Message)
	assert.Empty(t, res.Error)
	assert.NoError(t, res.Err())
	assert.Equal(t, 1, httpmock.GetCallCountInfo()["DELETE "+mockBase+"/reviews/7"])
}

func TestDo_UpdateReviewSendsPatch(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodPatch, mockBase+"/reviews/3",
		func(req *http.Request) (*http.Response, error) {
			var body map[string]any
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return httpmock.NewStringResponse(http.StatusBadRequest, ""), nil
			}
			if len(body) != 1 || body["rating"] != float64(2) {
				return httpmock.NewStringResponse(http.StatusBadRequest, `{"detail":"unexpected body"}`), nil
			}
			return httpmock.NewJsonResponse(http.StatusOK, models.Review{ID: 3, SpotID: 1, UserID: "u-1", Rating: 2, Comment: "meh"})
		})

	rating := 2
	res := NewClient(mockBase).UpdateReview(context.Background(), 3, models.ReviewUpdate{Rating: &rating})

	require.True(t, res.OK(), res.Error)
	assert.Equal(t, 2, res.Data.Rating)
}

func TestDo_RecordsMetrics(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, mockBase+"/spots",
		httpmock.NewStringResponder(http.StatusOK, `[]`))
	httpmock.RegisterResponder(http.MethodGet, mockBase+"/spots/9",
		httpmock.NewStringResponder(http.StatusNotFound, `{"detail":"Spot not found"}`))

	reg := prometheus.NewRegistry()
	m, err := metrics.NewGatewayMetrics(reg)
	require.NoError(t, err)

	client := NewClient(mockBase, WithMetrics(m))
	client.ListSpots(context.Background())
	client.ListSpots(context.Background())
	client.GetSpot(context.Background(), 9)

	assert.Equal(t, 2, testutil.CollectAndCount(reg, "surf_gateway_requests_total"))
	assert.Equal(t, 2, testutil.CollectAndCount(reg, "surf_gateway_request_duration_seconds"))
}

func TestFailure_NeverEmpty(t *testing.T) {
	res := Failure[models.Spot]("")
	assert.False(t, res.OK())
	assert.Equal(t, "Unknown error occurred", res.Error)
}
