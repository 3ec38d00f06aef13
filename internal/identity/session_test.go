package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionFromToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := testToken(t, "user-1", "kai@example.com", "kai", exp)

	s, err := sessionFromToken(token, "refresh")
	require.NoError(t, err)

	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, "kai@example.com", s.Email)
	assert.Equal(t, "kai", s.Username)
	assert.Equal(t, "refresh", s.RefreshToken)
	assert.True(t, exp.Equal(s.ExpiresAt))
	assert.False(t, s.Expired(time.Now()))
	assert.True(t, s.Expired(exp.Add(time.Second)))
}

func TestSessionFromToken_Invalid(t *testing.T) {
	_, err := sessionFromToken("not-a-jwt", "")
	assert.Error(t, err)

	noSubject := testToken(t, "", "a@b.c", "", time.Now().Add(time.Hour))
	_, err = sessionFromToken(noSubject, "")
	assert.EqualError(t, err, "access token has no subject")
}

func TestSession_ZeroExpiryNeverExpires(t *testing.T) {
	s := &Session{UserID: "u"}
	assert.False(t, s.Expired(time.Now().Add(100*365*24*time.Hour)))
}
