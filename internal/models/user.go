package models

// UserProfile is the signed-in identity.
// ID is the stable author key; Username is only a display projection.
type UserProfile struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username"`
}
