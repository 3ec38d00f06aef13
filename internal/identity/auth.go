package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ngmaloney/surf-terminal/internal/models"
)

// AuthClient talks to a GoTrue-style auth service and its profiles table
type AuthClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewAuthClient creates a client for the auth service at baseURL, authenticating with apiKey
func NewAuthClient(baseURL, apiKey string) *AuthClient {
	return &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type userResponse struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata userMetadata `json:"user_metadata"`
}

// SignInWithPassword exchanges credentials for a session
func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var tok tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body, &tok); err != nil {
		return nil, fmt.Errorf("signing in: %w", err)
	}
	return c.sessionFromResponse(tok)
}

// SignUp registers a user with username stored in the account metadata.
// It returns a nil session when the service requires email confirmation first.
func (c *AuthClient) SignUp(ctx context.Context, email, password, username string) (*Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"username": username},
	}
	var tok tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", body, &tok); err != nil {
		return nil, fmt.Errorf("signing up: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, nil
	}
	return c.sessionFromResponse(tok)
}

// Refresh trades a refresh token for a new session
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var tok tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "", body, &tok); err != nil {
		return nil, fmt.Errorf("refreshing session: %w", err)
	}
	return c.sessionFromResponse(tok)
}

// SignOut revokes the session behind accessToken
func (c *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	if err := c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil); err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	return nil
}

// GetUser fetches the account behind accessToken
func (c *AuthClient) GetUser(ctx context.Context, accessToken string) (*models.UserProfile, error) {
	var u userResponse
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &u); err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return &models.UserProfile{ID: u.ID, Email: u.Email, Username: u.UserMetadata.Username}, nil
}

// FetchUsername looks the user up in the profiles table. It returns "" if no profile exists.
func (c *AuthClient) FetchUsername(ctx context.Context, accessToken, userID string) (string, error) {
	q := url.Values{}
	q.Set("id", "eq."+userID)
	q.Set("select", "username")

	var rows []struct {
		Username string `json:"username"`
	}
	if err := c.do(ctx, http.MethodGet, "/rest/v1/profiles?"+q.Encode(), accessToken, nil, &rows); err != nil {
		return "", fmt.Errorf("fetching profile: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Username, nil
}

// UpdateUsername writes username to both the account metadata and the profiles table
func (c *AuthClient) UpdateUsername(ctx context.Context, accessToken, userID, username string) error {
	meta := map[string]any{"data": map[string]string{"username": username}}
	if err := c.do(ctx, http.MethodPut, "/auth/v1/user", accessToken, meta, nil); err != nil {
		return fmt.Errorf("updating account metadata: %w", err)
	}

	q := url.Values{}
	q.Set("id", "eq."+userID)
	row := map[string]string{"username": username}
	if err := c.do(ctx, http.MethodPatch, "/rest/v1/profiles?"+q.Encode(), accessToken, row, nil); err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}

func (c *AuthClient) sessionFromResponse(tok tokenResponse) (*Session, error) {
	s, err := sessionFromToken(tok.AccessToken, tok.RefreshToken)
	if err != nil {
		return nil, err
	}
	if s.ExpiresAt.IsZero() && tok.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return s, nil
}

func (c *AuthClient) do(ctx context.Context, method, path, accessToken string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	bearer := c.apiKey
	if accessToken != "" {
		bearer = accessToken
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &AuthError{Status: resp.StatusCode, Message: authErrorMessage(resp.StatusCode, raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// AuthError is a non-2xx response from the auth service
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// authErrorMessage picks the first readable message out of the service's error shapes
func authErrorMessage(status int, raw []byte) string {
	var body struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, m := range []string{body.ErrorDescription, body.Msg, body.Message, body.Error} {
			if m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("Error: %d %s", status, http.StatusText(status))
}
