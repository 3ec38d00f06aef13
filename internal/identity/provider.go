// Package identity tracks who is signed in. It wraps the auth service, persists the
// session locally and resolves user ids to display names.
package identity

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ngmaloney/surf-terminal/internal/models"
	"github.com/ngmaloney/surf-terminal/internal/observer"
)

// SessionStore persists the current session between runs
type SessionStore interface {
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

// refreshTimeout bounds an on-demand token refresh
const refreshTimeout = 15 * time.Second

// Provider is the single source of the signed-in user
type Provider struct {
	auth   *AuthClient
	store  SessionStore
	logger *slog.Logger
	names  *cache.Cache

	mu      sync.RWMutex
	session *Session

	// refreshMu serialises token refreshes so concurrent callers trigger one request
	refreshMu sync.Mutex
	now       func() time.Time

	observers observer.Registry
}

// NewProvider creates a signed-out provider. store may be nil to keep sessions in memory only.
func NewProvider(auth *AuthClient, store SessionStore, profileTTL time.Duration, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if profileTTL <= 0 {
		profileTTL = 10 * time.Minute
	}
	return &Provider{
		auth:   auth,
		store:  store,
		logger: logger.With("component", "identity"),
		names:  cache.New(profileTTL, 2*profileTTL),
		now:    time.Now,
	}
}

// Restore loads the persisted session, refreshing it if the access token has expired.
// A session that cannot be refreshed is discarded.
func (p *Provider) Restore(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	s, err := p.store.Load()
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}

	if s.Expired(p.now()) {
		if s.RefreshToken == "" {
			p.logger.Info("stored session expired")
			return p.store.Clear()
		}
		refreshed, err := p.auth.Refresh(ctx, s.RefreshToken)
		if err != nil {
			p.logger.Warn("session refresh failed", "error", err)
			return p.store.Clear()
		}
		if refreshed.Username == "" {
			refreshed.Username = s.Username
		}
		s = refreshed
	}

	p.setSession(s)
	return nil
}

// CurrentUser returns the signed-in user's profile
func (p *Provider) CurrentUser() (*models.UserProfile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.session == nil {
		return nil, false
	}
	return &models.UserProfile{
		ID:       p.session.UserID,
		Email:    p.session.Email,
		Username: p.session.Username,
	}, true
}

// CurrentUsername returns the signed-in user's display name
func (p *Provider) CurrentUsername() (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.session == nil || p.session.Username == "" {
		return "", false
	}
	return p.session.Username, true
}

// UserID returns the signed-in user's id, or "" when signed out
func (p *Provider) UserID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.session == nil {
		return ""
	}
	return p.session.UserID
}

// AccessToken returns the bearer token for backend calls, or "" when signed out.
// An expired token is refreshed first.
func (p *Provider) AccessToken() string {
	s := p.validSession(context.Background())
	if s == nil {
		return ""
	}
	return s.AccessToken
}

// SignIn authenticates with email and password
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	s, err := p.auth.SignInWithPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return err
	}
	p.resolveUsername(ctx, s)
	p.setSession(s)
	p.logger.Info("signed in", "user_id", s.UserID)
	return nil
}

// SignUp registers a new account. When the service requires email confirmation
// no session is returned and the user stays signed out; confirmed reports which happened.
func (p *Provider) SignUp(ctx context.Context, email, password, username string) (confirmed bool, err error) {
	s, err := p.auth.SignUp(ctx, strings.TrimSpace(email), password, strings.TrimSpace(username))
	if err != nil {
		return false, err
	}
	if s == nil {
		return false, nil
	}
	if s.Username == "" {
		s.Username = strings.TrimSpace(username)
	}
	p.setSession(s)
	p.logger.Info("signed up", "user_id", s.UserID)
	return true, nil
}

// SignOut revokes the session remotely and forgets it locally.
// The local session is dropped even if the remote call fails.
func (p *Provider) SignOut(ctx context.Context) error {
	s := p.validSession(ctx)
	if s == nil {
		return nil
	}

	remoteErr := p.auth.SignOut(ctx, s.AccessToken)
	if remoteErr != nil {
		p.logger.Warn("remote sign out failed", "error", remoteErr)
	}

	p.mu.Lock()
	p.session = nil
	p.mu.Unlock()
	p.names.Flush()

	if p.store != nil {
		if err := p.store.Clear(); err != nil {
			return err
		}
	}
	p.notify()
	return remoteErr
}

// UpdateProfile changes the signed-in user's username
func (p *Provider) UpdateProfile(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}

	s := p.validSession(ctx)
	if s == nil {
		return ErrSignedOut
	}

	if err := p.auth.UpdateUsername(ctx, s.AccessToken, s.UserID, username); err != nil {
		return err
	}

	updated := *s
	updated.Username = username
	p.setSession(&updated)
	p.logger.Info("username updated", "user_id", s.UserID)
	return nil
}

// DisplayName resolves a review author's id to a name for display.
// Lookups are cached; unknown users fall back to a shortened id.
func (p *Provider) DisplayName(ctx context.Context, userID string) string {
	if userID == "" {
		return "anonymous"
	}

	s := p.validSession(ctx)
	if s != nil && s.UserID == userID && s.Username != "" {
		return s.Username
	}

	if name, ok := p.names.Get(userID); ok {
		return name.(string)
	}

	token := ""
	if s != nil {
		token = s.AccessToken
	}
	name, err := p.auth.FetchUsername(ctx, token, userID)
	if err != nil {
		p.logger.Debug("profile lookup failed", "user_id", userID, "error", err)
		return shortID(userID)
	}
	if name == "" {
		name = shortID(userID)
	}
	p.names.SetDefault(userID, name)
	return name
}

// Subscribe registers fn to be called whenever the signed-in user changes
func (p *Provider) Subscribe(fn func()) (unsubscribe func()) {
	return p.observers.Subscribe(fn)
}

// Close drops every subscriber
func (p *Provider) Close() {
	p.observers.Close()
}

// validSession returns the current session, refreshing it when the access token
// has expired. If the refresh fails the stale session is returned and the backend
// will reject it; the user stays signed in so a later call can retry.
func (p *Provider) validSession(ctx context.Context) *Session {
	p.mu.RLock()
	s := p.session
	p.mu.RUnlock()
	if s == nil || s.RefreshToken == "" || !s.Expired(p.now()) {
		return s
	}

	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	// another caller may have refreshed or signed out while we waited
	p.mu.RLock()
	current := p.session
	p.mu.RUnlock()
	if current != s {
		return current
	}

	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()
	refreshed, err := p.auth.Refresh(ctx, s.RefreshToken)
	if err != nil {
		p.logger.Warn("session refresh failed", "user_id", s.UserID, "error", err)
		return s
	}
	if refreshed.Username == "" {
		refreshed.Username = s.Username
	}

	p.mu.Lock()
	if p.session != s {
		// signed out or replaced during the refresh
		current = p.session
		p.mu.Unlock()
		return current
	}
	p.session = refreshed
	p.mu.Unlock()

	p.persist(refreshed)
	p.notify()
	p.logger.Debug("session refreshed", "user_id", refreshed.UserID)
	return refreshed
}

// resolveUsername fills in the username from the profiles table when the token lacks one
func (p *Provider) resolveUsername(ctx context.Context, s *Session) {
	if s.Username != "" {
		return
	}
	name, err := p.auth.FetchUsername(ctx, s.AccessToken, s.UserID)
	if err != nil {
		p.logger.Warn("username lookup failed", "user_id", s.UserID, "error", err)
		return
	}
	s.Username = name
}

func (p *Provider) setSession(s *Session) {
	p.mu.Lock()
	p.session = s
	p.mu.Unlock()

	p.persist(s)
	p.notify()
}

func (p *Provider) persist(s *Session) {
	if p.store == nil {
		return
	}
	if err := p.store.Save(s); err != nil {
		p.logger.Error("failed to persist session", "error", err)
	}
}

func (p *Provider) notify() {
	p.observers.Notify()
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
