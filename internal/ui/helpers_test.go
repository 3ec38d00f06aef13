package ui

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/surf-terminal/internal/api"
	"github.com/ngmaloney/surf-terminal/internal/models"
)

// Mock collaborators for testing

type mockGateway struct {
	mu        sync.Mutex
	spots     []models.Spot
	forecasts map[int64]models.Forecast
	reviews   []models.Review
	saved     map[string][]int64
	nextID    int64
	listErr   string
}

func newMockGateway() *mockGateway {
	wave := 3.5
	crowd := 2
	return &mockGateway{
		spots: []models.Spot{
			{ID: 1, Name: "Malibu Beach", Description: "Long right-hand point break", Difficulty: 2},
			{ID: 2, Name: "Pismo Beach", Description: "Pier-protected beach break", Difficulty: 1},
		},
		forecasts: map[int64]models.Forecast{
			1: {SpotID: 1, WaveHeight: &wave},
		},
		reviews: []models.Review{
			{ID: 10, SpotID: 1, UserID: "user-other", Rating: 4, Comment: "Peeling rights", CrowdLevel: &crowd},
			{ID: 11, SpotID: 1, UserID: "user-me", Rating: 2, Comment: "Blown out"},
		},
		saved:  map[string][]int64{},
		nextID: 100,
	}
}

func (g *mockGateway) ListSpots(ctx context.Context) api.Result[[]models.Spot] {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listErr != "" {
		return api.Failure[[]models.Spot](g.listErr)
	}
	return api.Success(slices.Clone(g.spots))
}

func (g *mockGateway) GetSpot(ctx context.Context, spotID int64) api.Result[models.Spot] {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, sp := range g.spots {
		if sp.ID == spotID {
			return api.Success(sp)
		}
	}
	return api.Failure[models.Spot]("Spot not found")
}

func (g *mockGateway) GetForecast(ctx context.Context, spotID int64) api.Result[models.Forecast] {
	g.mu.Lock()
	defer g.mu.Unlock()
	if fc, ok := g.forecasts[spotID]; ok {
		return api.Success(fc)
	}
	return api.Failure[models.Forecast]("Forecast not found")
}

func (g *mockGateway) ListReviews(ctx context.Context, filter api.ReviewFilter) api.Result[[]models.Review] {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []models.Review{}
	for _, r := range g.reviews {
		if (filter.SpotID == 0 || r.SpotID == filter.SpotID) && (filter.UserID == "" || r.UserID == filter.UserID) {
			out = append(out, r)
		}
	}
	return api.Success(out)
}

func (g *mockGateway) GetReview(ctx context.Context, reviewID int64) api.Result[models.Review] {
	return api.Failure[models.Review]("not implemented")
}

func (g *mockGateway) CreateReview(ctx context.Context, in models.ReviewCreate) api.Result[models.Review] {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	r := models.Review{ID: g.nextID, SpotID: in.SpotID, UserID: in.UserID, Rating: in.Rating, Comment: in.Comment}
	g.reviews = append(g.reviews, r)
	return api.Success(r)
}

func (g *mockGateway) UpdateReview(ctx context.Context, reviewID int64, patch models.ReviewUpdate) api.Result[models.Review] {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, r := range g.reviews {
		if r.ID == reviewID {
			if patch.Rating != nil {
				r.Rating = *patch.Rating
			}
			if patch.Comment != nil {
				r.Comment = *patch.Comment
			}
			g.reviews[i] = r
			return api.Success(r)
		}
	}
	return api.Failure[models.Review]("Review not found")
}

func (g *mockGateway) DeleteReview(ctx context.Context, reviewID int64) api.Result[models.MessageResponse] {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reviews = slices.DeleteFunc(g.reviews, func(r models.Review) bool { return r.ID == reviewID })
	return api.Success(models.MessageResponse{Message: "Review deleted successfully"})
}

func (g *mockGateway) ListSavedSpots(ctx context.Context, userID string) api.Result[[]models.Spot] {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []models.Spot{}
	for _, id := range g.saved[userID] {
		for _, sp := range g.spots {
			if sp.ID == id {
				out = append(out, sp)
			}
		}
	}
	return api.Success(out)
}

func (g *mockGateway) SaveSpot(ctx context.Context, userID string, spotID int64) api.Result[models.MessageResponse] {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saved[userID] = append(g.saved[userID], spotID)
	return api.Success(models.MessageResponse{Message: "Spot saved successfully"})
}

func (g *mockGateway) UnsaveSpot(ctx context.Context, userID string, spotID int64) api.Result[models.MessageResponse] {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saved[userID] = slices.DeleteFunc(g.saved[userID], func(id int64) bool { return id == spotID })
	return api.Success(models.MessageResponse{Message: "Spot removed from saved spots"})
}

type mockIdentity struct {
	mu        sync.Mutex
	user      *models.UserProfile
	password  string
	names     map[string]string
	signedOut bool
}

func (i *mockIdentity) CurrentUser() (*models.UserProfile, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.user == nil || i.signedOut {
		return nil, false
	}
	u := *i.user
	return &u, true
}

func (i *mockIdentity) SignIn(ctx context.Context, email, password string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if password != i.password {
		return errors.New("invalid login credentials")
	}
	i.user = &models.UserProfile{ID: "user-me", Email: email, Username: "me"}
	i.signedOut = false
	return nil
}

func (i *mockIdentity) SignUp(ctx context.Context, email, password, username string) (bool, error) {
	return false, nil
}

func (i *mockIdentity) SignOut(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.signedOut = true
	return nil
}

func (i *mockIdentity) UpdateProfile(ctx context.Context, username string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if username == "" {
		return errors.New("username cannot be empty")
	}
	i.user.Username = username
	return nil
}

func (i *mockIdentity) DisplayName(ctx context.Context, userID string) string {
	if name, ok := i.names[userID]; ok {
		return name
	}
	return userID
}

func (i *mockIdentity) Subscribe(fn func()) func() { return func() {} }

func signedInIdentity() *mockIdentity {
	return &mockIdentity{
		user:  &models.UserProfile{ID: "user-me", Email: "me@example.com", Username: "me"},
		names: map[string]string{"user-other": "dana", "user-me": "me"},
	}
}

func newTestModel(gw *mockGateway, id *mockIdentity) Model {
	m := NewModel(Deps{Gateway: gw, Identity: id, ReviewLimit: 10})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

// drain runs cmd the way the runtime would, feeding app messages back into the model.
// Timer-driven messages (spinner ticks, cursor blinks) are delivered once and not re-armed.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(t, m, c)
		}
		return m
	}
	if _, ok := msg.(spinner.TickMsg); ok {
		return m
	}

	updated, next := m.Update(msg)
	m = updated.(Model)
	switch msg.(type) {
	case storeChangedMsg, spotsLoadedMsg, detailLoadedMsg, reviewsFetchedMsg, displayNamesMsg,
		savedChangedMsg, reviewSubmittedMsg, reviewDeletedMsg, authDoneMsg, profileUpdatedMsg:
		return drain(t, m, next)
	}
	return m
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func press(m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(key)
	return updated.(Model), cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}
