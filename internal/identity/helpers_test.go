package identity

import (
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/ngmaloney/surf-terminal/internal/database"
)

const authBase = "http://auth.test"

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

// testToken signs a token the way the auth service shapes them; the key is irrelevant to the client
func testToken(t *testing.T, sub, email, username string, exp time.Time) string {
	t.Helper()
	claims := accessClaims{
		Email:        email,
		UserMetadata: userMetadata{Username: username},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func tokenResponder(t *testing.T, access string) httpmock.Responder {
	return httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
		"access_token":  access,
		"refresh_token": "refresh-1",
		"expires_in":    3600,
		"token_type":    "bearer",
	})
}

func newTestRepository(t *testing.T) *SessionRepository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "surf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSessionRepository(db)
}
