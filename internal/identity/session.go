package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Session is an authenticated user's tokens and identity
type Session struct {
	UserID       string
	Email        string
	Username     string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the access token has passed its expiry.
// A zero ExpiresAt never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// userMetadata is the free-form profile data the auth service embeds in tokens
type userMetadata struct {
	Username string `json:"username"`
}

// accessClaims is the subset of the auth service's JWT we read
type accessClaims struct {
	Email        string       `json:"email"`
	UserMetadata userMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

// sessionFromToken reads identity fields out of an access token without verifying it.
// The backend verifies tokens; the client only needs to know who it is.
func sessionFromToken(accessToken, refreshToken string) (*Session, error) {
	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return nil, errors.Wrap(err, "parsing access token")
	}
	if claims.Subject == "" {
		return nil, errors.New("access token has no subject")
	}

	s := &Session{
		UserID:       claims.Subject,
		Email:        claims.Email,
		Username:     claims.UserMetadata.Username,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
