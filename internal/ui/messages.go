package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/surf-terminal/internal/models"
	"github.com/ngmaloney/surf-terminal/internal/store"
)

// Message types for async operations

// storeChangedMsg is sent by Bind whenever a store or the identity changes
type storeChangedMsg struct{}

// spotsLoadedMsg is sent when the spot catalogue load settles
type spotsLoadedMsg struct{}

// detailLoadedMsg is sent when a spot detail load settles
type detailLoadedMsg struct {
	spotID int64
}

// reviewsFetchedMsg is sent when a reviews store finishes fetching
type reviewsFetchedMsg struct {
	reviews *store.ReviewsStore
}

// savedChangedMsg is sent after a saved-spots fetch, save or unsave
type savedChangedMsg struct{}

// reviewSubmittedMsg is sent when a create or update settles
type reviewSubmittedMsg struct {
	ok bool
}

// reviewDeletedMsg is sent when a delete settles
type reviewDeletedMsg struct {
	ok bool
}

// displayNamesMsg carries resolved author names
type displayNamesMsg struct {
	names map[string]string
}

// authDoneMsg is sent when sign in, sign up or sign out completes
type authDoneMsg struct {
	// pendingConfirmation is set when sign up succeeded but needs email confirmation
	pendingConfirmation bool
	err                 error
}

// profileUpdatedMsg is sent when a username change completes
type profileUpdatedMsg struct {
	err error
}

// errMsg is a message type for errors
type errMsg struct {
	err error
}

// authTimeout bounds calls to the auth service
const authTimeout = 15 * time.Second

func loadSpots(s *store.SpotSearchStore) tea.Cmd {
	return func() tea.Msg {
		s.Load(context.Background())
		return spotsLoadedMsg{}
	}
}

func loadSpotDetail(s *store.SpotDetailStore, spotID int64) tea.Cmd {
	return func() tea.Msg {
		s.Load(context.Background(), spotID)
		return detailLoadedMsg{spotID: spotID}
	}
}

func fetchReviews(s *store.ReviewsStore) tea.Cmd {
	return func() tea.Msg {
		s.FetchReviews(context.Background())
		return reviewsFetchedMsg{reviews: s}
	}
}

func fetchSavedSpots(s *store.SavedSpotsStore, userID string) tea.Cmd {
	return func() tea.Msg {
		s.FetchSavedSpots(context.Background(), userID)
		return savedChangedMsg{}
	}
}

func toggleSaved(s *store.SavedSpotsStore, userID string, spotID int64) tea.Cmd {
	return func() tea.Msg {
		s.Toggle(context.Background(), userID, spotID)
		return savedChangedMsg{}
	}
}

func unsaveSpot(s *store.SavedSpotsStore, userID string, spotID int64) tea.Cmd {
	return func() tea.Msg {
		s.UnsaveSpot(context.Background(), userID, spotID)
		return savedChangedMsg{}
	}
}

func createReview(s *store.ReviewsStore, draft models.ReviewCreate) tea.Cmd {
	return func() tea.Msg {
		created := s.CreateReview(context.Background(), draft)
		return reviewSubmittedMsg{ok: created != nil}
	}
}

func updateReview(s *store.ReviewsStore, reviewID int64, patch models.ReviewUpdate) tea.Cmd {
	return func() tea.Msg {
		return reviewSubmittedMsg{ok: s.UpdateReview(context.Background(), reviewID, patch)}
	}
}

func deleteReview(s *store.ReviewsStore, reviewID int64) tea.Cmd {
	return func() tea.Msg {
		return reviewDeletedMsg{ok: s.DeleteReview(context.Background(), reviewID)}
	}
}

// resolveDisplayNames looks up a name for every author not already known
func resolveDisplayNames(id Identity, reviews []models.Review, known map[string]string) tea.Cmd {
	var missing []string
	seen := map[string]bool{}
	for _, r := range reviews {
		if _, ok := known[r.UserID]; ok || seen[r.UserID] {
			continue
		}
		seen[r.UserID] = true
		missing = append(missing, r.UserID)
	}
	if len(missing) == 0 {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		names := make(map[string]string, len(missing))
		for _, userID := range missing {
			names[userID] = id.DisplayName(ctx, userID)
		}
		return displayNamesMsg{names: names}
	}
}

func signIn(id Identity, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()
		return authDoneMsg{err: id.SignIn(ctx, email, password)}
	}
}

func signUp(id Identity, email, password, username string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()
		confirmed, err := id.SignUp(ctx, email, password, username)
		return authDoneMsg{pendingConfirmation: err == nil && !confirmed, err: err}
	}
}

func signOut(id Identity) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()
		return authDoneMsg{err: id.SignOut(ctx)}
	}
}

func updateProfile(id Identity, username string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()
		return profileUpdatedMsg{err: id.UpdateProfile(ctx, username)}
	}
}
