package identity

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionRepository persists the signed-in session so it survives restarts
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a repository over an opened database (see database.Open)
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save stores s as the current session, replacing any previous one
func (r *SessionRepository) Save(s *Session) error {
	query := `
		INSERT INTO sessions (id, user_id, email, username, access_token, refresh_token, expires_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			email = excluded.email,
			username = excluded.username,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`

	var expires sql.NullTime
	if !s.ExpiresAt.IsZero() {
		expires = sql.NullTime{Time: s.ExpiresAt, Valid: true}
	}

	_, err := r.db.Exec(query,
		s.UserID,
		s.Email,
		s.Username,
		s.AccessToken,
		s.RefreshToken,
		expires,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load returns the stored session, or nil if there is none
func (r *SessionRepository) Load() (*Session, error) {
	row := r.db.QueryRow(`SELECT user_id, email, username, access_token, refresh_token, expires_at FROM sessions WHERE id = 1`)

	var s Session
	var email, username, refresh sql.NullString // Handle potential nulls
	var expires sql.NullTime
	if err := row.Scan(&s.UserID, &email, &username, &s.AccessToken, &refresh, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	s.Email = email.String
	s.Username = username.String
	s.RefreshToken = refresh.String
	if expires.Valid {
		s.ExpiresAt = expires.Time
	}
	return &s, nil
}

// Clear removes the stored session
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
