package identity

import "errors"

var (
	// ErrSignedOut is returned by operations that need a signed-in user
	ErrSignedOut = errors.New("not signed in")
	// ErrEmptyUsername rejects blank usernames
	ErrEmptyUsername = errors.New("username cannot be empty")
)
