package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthClient_SignInWithPassword(t *testing.T) {
	setupHTTPMock(t)
	token := testToken(t, "user-1", "kai@example.com", "kai", time.Now().Add(time.Hour))
	httpmock.RegisterResponder(http.MethodPost, authBase+"/auth/v1/token?grant_type=password",
		func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("apikey") != "anon-key" {
				return httpmock.NewStringResponse(http.StatusUnauthorized, `{"message":"No API key found in request"}`), nil
			}
			var body map[string]string
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body["email"] != "kai@example.com" {
				return httpmock.NewStringResponse(http.StatusBadRequest, `{"msg":"bad body"}`), nil
			}
			return tokenResponder(t, token)(req)
		})

	s, err := NewAuthClient(authBase+"/", "anon-key").SignInWithPassword(context.Background(), "kai@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, "kai", s.Username)
	assert.Equal(t, "refresh-1", s.RefreshToken)
}

func TestAuthClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		want string
	}{
		{"oauth error", `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, 400, "Invalid login credentials"},
		{"msg", `{"code":422,"msg":"Password should be at least 6 characters"}`, 422, "Password should be at least 6 characters"},
		{"message", `{"message":"Invalid API key"}`, 401, "Invalid API key"},
		{"unparseable", `oops`, 503, "Error: 503 Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupHTTPMock(t)
			httpmock.RegisterResponder(http.MethodPost, authBase+"/auth/v1/token?grant_type=password",
				httpmock.NewStringResponder(tt.code, tt.body))

			_, err := NewAuthClient(authBase, "k").SignInWithPassword(context.Background(), "a@b.c", "pw")
			require.Error(t, err)

			var authErr *AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.code, authErr.Status)
			assert.Equal(t, tt.want, authErr.Message)
		})
	}
}

func TestAuthClient_SignUpNeedsConfirmation(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodPost, authBase+"/auth/v1/signup",
		httpmock.NewStringResponder(http.StatusOK, `{"id":"user-2","email":"new@example.com","confirmation_sent_at":"2025-03-01T00:00:00Z"}`))

	s, err := NewAuthClient(authBase, "k").SignUp(context.Background(), "new@example.com", "secret", "newbie")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestAuthClient_FetchUsername(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterRegexpResponder(http.MethodGet, regexp.MustCompile(`^http://auth\.test/rest/v1/profiles`),
		func(req *http.Request) (*http.Response, error) {
			if req.URL.Query().Get("id") != "eq.user-3" {
				return httpmock.NewStringResponse(http.StatusOK, `[]`), nil
			}
			if req.Header.Get("Authorization") != "Bearer user-token" {
				return httpmock.NewStringResponse(http.StatusUnauthorized, `{"message":"JWT expired"}`), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, `[{"username":"shaka"}]`), nil
		})

	client := NewAuthClient(authBase, "k")
	name, err := client.FetchUsername(context.Background(), "user-token", "user-3")
	require.NoError(t, err)
	assert.Equal(t, "shaka", name)

	name, err = client.FetchUsername(context.Background(), "user-token", "missing")
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestAuthClient_UpdateUsername(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodPut, authBase+"/auth/v1/user",
		httpmock.NewStringResponder(http.StatusOK, `{"id":"user-1"}`))
	httpmock.RegisterRegexpResponder(http.MethodPatch, regexp.MustCompile(`^http://auth\.test/rest/v1/profiles`),
		httpmock.NewStringResponder(http.StatusNoContent, ""))

	err := NewAuthClient(authBase, "k").UpdateUsername(context.Background(), "tok", "user-1", "barrel")
	require.NoError(t, err)

	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 1, info["PUT "+authBase+"/auth/v1/user"])
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}
