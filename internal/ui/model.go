package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/surf-terminal/internal/api"
	"github.com/ngmaloney/surf-terminal/internal/models"
	"github.com/ngmaloney/surf-terminal/internal/store"
)

// AppState represents the current state of the application
type AppState int

const (
	StateSearch     AppState = iota // Search the spot catalogue
	StateSpotDetail                 // One spot with forecast and reviews
	StateSaved                      // The user's saved spots
	StateMyReviews                  // Reviews written by the user
	StateReviewForm                 // Create or edit a review
	StateAuth                       // Sign in / sign up
	StateProfile                    // Show and change username
	StateError                      // Error state
)

// Identity is the signed-in user as the views need it
type Identity interface {
	CurrentUser() (*models.UserProfile, bool)
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, username string) (confirmed bool, err error)
	SignOut(ctx context.Context) error
	UpdateProfile(ctx context.Context, username string) error
	DisplayName(ctx context.Context, userID string) string
	Subscribe(fn func()) (unsubscribe func())
}

// Deps are the collaborators a Model is built from
type Deps struct {
	Gateway  api.Gateway
	Identity Identity
	Logger   *slog.Logger
	// ReviewLimit caps the reviews shown on a spot page (0 = all)
	ReviewLimit int
}

// notifier forwards store changes to the running program once Bind has been called
type notifier struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (n *notifier) notify() {
	n.mu.Lock()
	send := n.send
	n.mu.Unlock()
	if send != nil {
		send(storeChangedMsg{})
	}
}

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	gw          api.Gateway
	identity    Identity
	logger      *slog.Logger
	reviewLimit int
	notifier    *notifier

	// Stores
	search      *store.SpotSearchStore
	saved       *store.SavedSpotsStore
	detail      *store.SpotDetailStore
	spotReviews *store.ReviewsStore
	myReviews   *store.ReviewsStore

	// Search
	searchInput textinput.Model
	results     list.Model

	// Spot detail
	detailReturn   AppState
	selectedReview int
	notice         string
	names          map[string]string

	savedList     list.Model
	myReviewsList list.Model

	// Review form
	form       reviewForm
	formStore  *store.ReviewsStore
	formReturn AppState

	// Auth and profile
	auth          authForm
	authReturn    AppState
	profileInput  textinput.Model
	profileNotice string
	profileErr    string

	spinner spinner.Model
}

// NewModel creates a new application model
func NewModel(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.Placeholder = "Search spots by name or description (e.g. Malibu)..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 60

	profile := textinput.New()
	profile.Placeholder = "new username"
	profile.CharLimit = 30
	profile.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		state:         StateSearch,
		gw:            deps.Gateway,
		identity:      deps.Identity,
		logger:        logger,
		reviewLimit:   deps.ReviewLimit,
		notifier:      &notifier{},
		search:        store.NewSpotSearchStore(deps.Gateway, logger),
		saved:         store.NewSavedSpotsStore(context.Background(), deps.Gateway, store.SavedSpotsOptions{}, logger),
		detail:        store.NewSpotDetailStore(deps.Gateway, logger),
		searchInput:   ti,
		results:       newList(nil, "Spots", 60, 14),
		savedList:     newList(nil, "Saved Spots", 60, 14),
		myReviewsList: newList(nil, "My Reviews", 60, 14),
		names:         map[string]string{},
		auth:          newAuthForm(),
		profileInput:  profile,
		spinner:       s,
	}
}

// Bind subscribes send to every store and the identity so background changes re-render.
// Call it with the running program's Send.
func (m Model) Bind(send func(tea.Msg)) (unbind func()) {
	m.notifier.mu.Lock()
	m.notifier.send = send
	m.notifier.mu.Unlock()

	unsubs := []func(){
		m.search.Subscribe(m.notifier.notify),
		m.saved.Subscribe(m.notifier.notify),
		m.detail.Subscribe(m.notifier.notify),
		m.identity.Subscribe(m.notifier.notify),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
		m.notifier.mu.Lock()
		m.notifier.send = nil
		m.notifier.mu.Unlock()
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, loadSpots(m.search)}
	if uid := m.userID(); uid != "" {
		cmds = append(cmds, fetchSavedSpots(m.saved, uid))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Handle window size
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(msg.Width-4, msg.Height-12)
		m.savedList.SetSize(msg.Width-4, msg.Height-8)
		m.myReviewsList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	// Handle custom messages
	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		m.state = StateError
		return m, nil

	case storeChangedMsg, spotsLoadedMsg, detailLoadedMsg:
		m.refreshResults()
		return m, nil

	case savedChangedMsg:
		m.refreshResults()
		m.refreshSaved()
		return m, nil

	case reviewsFetchedMsg:
		if msg.reviews == m.myReviews {
			m.refreshMyReviews()
		}
		if msg.reviews == m.spotReviews {
			m.clampSelection()
		}
		return m, resolveDisplayNames(m.identity, msg.reviews.Reviews(), m.names)

	case displayNamesMsg:
		for id, name := range msg.names {
			m.names[id] = name
		}
		return m, nil

	case reviewSubmittedMsg:
		if m.state != StateReviewForm || !msg.ok {
			// Store error is rendered by the form
			return m, nil
		}
		editing := m.form.editing()
		m.state = m.formReturn
		m.refreshMyReviews()
		m.clampSelection()
		if editing {
			m.notice = "Review updated"
		} else {
			m.notice = "Review posted"
		}
		if m.formStore != nil {
			return m, resolveDisplayNames(m.identity, m.formStore.Reviews(), m.names)
		}
		return m, nil

	case reviewDeletedMsg:
		m.refreshMyReviews()
		m.clampSelection()
		if msg.ok {
			m.notice = "Review deleted"
		} else {
			m.notice = ""
		}
		return m, nil

	case authDoneMsg:
		return m.handleAuthDone(msg)

	case profileUpdatedMsg:
		if msg.err != nil {
			m.profileErr = msg.err.Error()
			m.profileNotice = ""
			return m, nil
		}
		m.profileErr = ""
		m.profileNotice = "Username updated"
		m.profileInput.SetValue("")
		if uid := m.userID(); uid != "" {
			delete(m.names, uid)
		}
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Handle keyboard input
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// Global keys
		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// State-specific handling
		switch m.state {
		case StateSearch:
			return m.handleSearchInput(keyMsg)
		case StateSpotDetail:
			return m.handleSpotDetail(keyMsg)
		case StateSaved:
			return m.handleSaved(keyMsg)
		case StateMyReviews:
			return m.handleMyReviews(keyMsg)
		case StateReviewForm:
			return m.handleReviewForm(keyMsg)
		case StateAuth:
			return m.handleAuth(keyMsg)
		case StateProfile:
			return m.handleProfile(keyMsg)
		case StateError:
			// Any key returns to search (except quit keys)
			m.state = StateSearch
			m.err = nil
			m.searchInput.Focus()
			return m, textinput.Blink
		}
	}

	// Forward remaining messages (cursor blink) to the focused input
	switch m.state {
	case StateSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case StateProfile:
		m.profileInput, cmd = m.profileInput.Update(msg)
	}

	return m, cmd
}

// handleSearchInput handles keyboard input in search state
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "up", "down", "pgup", "pgdown":
		m.results, cmd = m.results.Update(msg)
		return m, cmd

	case "enter":
		if item, ok := m.results.SelectedItem().(spotItem); ok {
			return m.openSpot(item.spot.ID, StateSearch)
		}
		return m, nil

	case "esc":
		m.searchInput.SetValue("")
		m.refreshResults()
		return m, nil

	case "ctrl+s":
		if !m.signedIn() {
			return m.openAuth(StateSaved)
		}
		m.state = StateSaved
		m.refreshSaved()
		return m, fetchSavedSpots(m.saved, m.userID())

	case "ctrl+r":
		if !m.signedIn() {
			return m.openAuth(StateMyReviews)
		}
		return m.openMyReviews()

	case "ctrl+p":
		if !m.signedIn() {
			return m.openAuth(StateProfile)
		}
		return m.openProfile()
	}

	// Update text input and re-run the search
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.refreshResults()
	return m, cmd
}

// handleSpotDetail handles keyboard input on the spot page
func (m Model) handleSpotDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc", "b":
		return m.leaveSpot()

	case "up", "k":
		if m.selectedReview > 0 {
			m.selectedReview--
		}
		return m, nil

	case "down", "j":
		m.selectedReview++
		m.clampSelection()
		return m, nil

	case "f":
		m.notice = ""
		return m, tea.Batch(loadSpotDetail(m.detail, m.detail.SpotID()), fetchReviews(m.spotReviews))

	case "s":
		if !m.signedIn() {
			m.notice = "Sign in to save spots (Ctrl+P from search)"
			return m, nil
		}
		m.notice = ""
		return m, toggleSaved(m.saved, m.userID(), m.detail.SpotID())

	case "r":
		if !m.signedIn() {
			m.notice = "Sign in to write a review"
			return m, nil
		}
		view := m.detail.View()
		if view == nil {
			return m, nil
		}
		m.form = newReviewForm(view.ID, view.Name)
		m.formStore = m.spotReviews
		m.formReturn = StateSpotDetail
		m.state = StateReviewForm
		return m, textinput.Blink

	case "e", "d":
		r, ok := m.selectedSpotReview()
		if !ok {
			return m, nil
		}
		if r.UserID != m.userID() {
			m.notice = "You can only change your own reviews"
			return m, nil
		}
		if msg.String() == "d" {
			return m, deleteReview(m.spotReviews, r.ID)
		}
		return m.editReview(r, m.spotReviews, StateSpotDetail)
	}

	return m, nil
}

// handleSaved handles keyboard input on the saved spots list
func (m Model) handleSaved(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		return m.backToSearch()
	case "enter":
		if item, ok := m.savedList.SelectedItem().(spotItem); ok {
			return m.openSpot(item.spot.ID, StateSaved)
		}
		return m, nil
	case "x":
		if item, ok := m.savedList.SelectedItem().(spotItem); ok {
			return m, unsaveSpot(m.saved, m.userID(), item.spot.ID)
		}
		return m, nil
	}

	m.savedList, cmd = m.savedList.Update(msg)
	return m, cmd
}

// handleMyReviews handles keyboard input on the user's review list
func (m Model) handleMyReviews(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		return m.backToSearch()
	case "enter":
		if item, ok := m.myReviewsList.SelectedItem().(reviewItem); ok {
			return m.openSpot(item.review.SpotID, StateMyReviews)
		}
		return m, nil
	case "e":
		if item, ok := m.myReviewsList.SelectedItem().(reviewItem); ok {
			return m.editReview(item.review, m.myReviews, StateMyReviews)
		}
		return m, nil
	case "d":
		if item, ok := m.myReviewsList.SelectedItem().(reviewItem); ok {
			return m, deleteReview(m.myReviews, item.review.ID)
		}
		return m, nil
	}

	m.myReviewsList, cmd = m.myReviewsList.Update(msg)
	return m, cmd
}

// handleReviewForm handles keyboard input in the review form
func (m Model) handleReviewForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		m.state = m.formReturn
		return m, nil

	case "enter":
		if m.form.editing() {
			patch, err := m.form.patch()
			if err != nil {
				m.form.err = err.Error()
				return m, nil
			}
			return m, updateReview(m.formStore, m.form.reviewID, patch)
		}
		draft, err := m.form.draft(m.userID())
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		return m, createReview(m.formStore, draft)
	}

	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// handleAuth handles keyboard input in the sign in form
func (m Model) handleAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		return m.backToSearch()

	case "enter":
		if m.auth.pending {
			return m, nil
		}
		if missing := m.auth.missing(); missing != "" {
			m.auth.err = missing
			return m, nil
		}
		m.auth.err = ""
		m.auth.notice = ""
		m.auth.pending = true
		if m.auth.signUp {
			return m, signUp(m.identity, m.auth.email(), m.auth.password(), m.auth.username())
		}
		return m, signIn(m.identity, m.auth.email(), m.auth.password())
	}

	m.auth, cmd = m.auth.Update(msg)
	return m, cmd
}

// handleProfile handles keyboard input on the profile screen
func (m Model) handleProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		return m.backToSearch()

	case "enter":
		m.profileNotice = ""
		m.profileErr = ""
		return m, updateProfile(m.identity, m.profileInput.Value())

	case "ctrl+o":
		m.auth.pending = true
		return m, signOut(m.identity)
	}

	m.profileInput, cmd = m.profileInput.Update(msg)
	m.profileErr = ""
	return m, cmd
}

func (m Model) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	m.auth.pending = false

	if m.state == StateProfile {
		// Sign out from the profile screen; the session is gone locally even on error
		m.saved.Reset()
		m.closeMyReviews()
		m.names = map[string]string{}
		var cmd tea.Cmd
		m, cmd = m.backToSearch()
		if msg.err != nil {
			m.notice = "Signed out (remote sign out failed: " + msg.err.Error() + ")"
		}
		return m, cmd
	}

	if msg.err != nil {
		m.auth.err = msg.err.Error()
		return m, nil
	}
	if msg.pendingConfirmation {
		m.auth.signUp = false
		m.auth.notice = "Check your email to confirm your account, then sign in."
		return m, nil
	}

	m.auth = newAuthForm()
	cmds := []tea.Cmd{fetchSavedSpots(m.saved, m.userID())}
	switch m.authReturn {
	case StateSaved:
		m.state = StateSaved
	case StateMyReviews:
		var cmd tea.Cmd
		m, cmd = m.openMyReviewsModel()
		cmds = append(cmds, cmd)
	case StateProfile:
		m.state = StateProfile
		m.profileInput.Focus()
	default:
		m.state = StateSearch
		m.searchInput.Focus()
	}
	return m, tea.Batch(cmds...)
}

// openSpot switches to the detail page and loads the spot and its reviews
func (m Model) openSpot(spotID int64, from AppState) (tea.Model, tea.Cmd) {
	if m.spotReviews != nil {
		m.spotReviews.Close()
	}
	m.spotReviews = store.NewReviewsStore(context.Background(), m.gw,
		store.ReviewsOptions{SpotID: spotID, Limit: m.reviewLimit}, m.logger)
	m.spotReviews.Subscribe(m.notifier.notify)

	m.detailReturn = from
	m.state = StateSpotDetail
	m.selectedReview = 0
	m.notice = ""
	m.searchInput.Blur()

	return m, tea.Batch(loadSpotDetail(m.detail, spotID), fetchReviews(m.spotReviews))
}

func (m Model) leaveSpot() (tea.Model, tea.Cmd) {
	if m.spotReviews != nil {
		m.spotReviews.Close()
	}
	m.notice = ""
	switch m.detailReturn {
	case StateSaved:
		m.state = StateSaved
		m.refreshSaved()
		return m, nil
	case StateMyReviews:
		m.state = StateMyReviews
		m.refreshMyReviews()
		return m, nil
	}
	return m.backToSearch()
}

func (m Model) backToSearch() (Model, tea.Cmd) {
	m.state = StateSearch
	m.searchInput.Focus()
	m.profileInput.Blur()
	m.refreshResults()
	return m, textinput.Blink
}

func (m Model) openAuth(returnTo AppState) (tea.Model, tea.Cmd) {
	m.auth = newAuthForm()
	m.authReturn = returnTo
	m.state = StateAuth
	m.searchInput.Blur()
	return m, textinput.Blink
}

func (m Model) openProfile() (tea.Model, tea.Cmd) {
	m.state = StateProfile
	m.profileNotice = ""
	m.profileErr = ""
	m.searchInput.Blur()
	m.profileInput.Focus()
	return m, textinput.Blink
}

func (m Model) openMyReviews() (tea.Model, tea.Cmd) {
	return m.openMyReviewsModel()
}

func (m Model) openMyReviewsModel() (Model, tea.Cmd) {
	m.closeMyReviews()
	m.myReviews = store.NewReviewsStore(context.Background(), m.gw,
		store.ReviewsOptions{UserID: m.userID()}, m.logger)
	m.myReviews.Subscribe(m.notifier.notify)
	m.state = StateMyReviews
	m.searchInput.Blur()
	m.refreshMyReviews()
	return m, fetchReviews(m.myReviews)
}

func (m *Model) closeMyReviews() {
	if m.myReviews != nil {
		m.myReviews.Close()
		m.myReviews = nil
	}
}

func (m Model) editReview(r models.Review, s *store.ReviewsStore, returnTo AppState) (tea.Model, tea.Cmd) {
	m.form = editReviewForm(r, m.spotName(r.SpotID))
	m.formStore = s
	m.formReturn = returnTo
	m.state = StateReviewForm
	return m, textinput.Blink
}

// refreshResults re-runs the search for the current input
func (m *Model) refreshResults() {
	items := spotItems(m.search.Search(m.searchInput.Value()), m.saved.IsSaved)
	m.results.SetItems(items)
}

func (m *Model) refreshSaved() {
	m.savedList.SetItems(spotItems(m.saved.Spots(), func(int64) bool { return true }))
}

func (m *Model) refreshMyReviews() {
	if m.myReviews == nil {
		m.myReviewsList.SetItems(nil)
		return
	}
	reviews := m.myReviews.Reviews()
	items := make([]list.Item, len(reviews))
	for i, r := range reviews {
		items[i] = reviewItem{review: r, spotName: m.spotName(r.SpotID)}
	}
	m.myReviewsList.SetItems(items)
}

func (m *Model) clampSelection() {
	n := 0
	if m.spotReviews != nil {
		n = len(m.spotReviews.Reviews())
	}
	if m.selectedReview >= n {
		m.selectedReview = n - 1
	}
	if m.selectedReview < 0 {
		m.selectedReview = 0
	}
}

func (m Model) selectedSpotReview() (models.Review, bool) {
	if m.spotReviews == nil {
		return models.Review{}, false
	}
	reviews := m.spotReviews.Reviews()
	if m.selectedReview < 0 || m.selectedReview >= len(reviews) {
		return models.Review{}, false
	}
	return reviews[m.selectedReview], true
}

func (m Model) spotName(spotID int64) string {
	for _, sp := range m.search.Spots() {
		if sp.ID == spotID {
			return sp.Name
		}
	}
	if view := m.detail.View(); view != nil && view.ID == spotID {
		return view.Name
	}
	return ""
}

func (m Model) signedIn() bool {
	_, ok := m.identity.CurrentUser()
	return ok
}

func (m Model) userID() string {
	if u, ok := m.identity.CurrentUser(); ok {
		return u.ID
	}
	return ""
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var body string
	switch m.state {
	case StateSearch:
		body = m.viewSearch()
	case StateSpotDetail:
		body = m.viewSpotDetail()
	case StateSaved:
		body = m.viewSaved()
	case StateMyReviews:
		body = m.viewMyReviews()
	case StateReviewForm:
		storeErr := ""
		if m.formStore != nil {
			storeErr = m.formStore.Error()
		}
		body = m.form.View(storeErr)
	case StateAuth:
		body = m.auth.View()
	case StateProfile:
		body = m.viewProfile()
	case StateError:
		body = m.viewError()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.viewStatusBar(), body)
}

// viewStatusBar shows who is signed in
func (m Model) viewStatusBar() string {
	if u, ok := m.identity.CurrentUser(); ok {
		name := u.Username
		if name == "" {
			name = u.Email
		}
		return mutedStyle.Render("Signed in as ") + valueStyle.Render(name)
	}
	return mutedStyle.Render("Not signed in")
}

// viewError renders the error view
func (m Model) viewError() string {
	title := errorStyle.Render("✗ Error")

	var errorMsg string
	if m.err != nil {
		errorMsg = m.err.Error()
	} else {
		errorMsg = "An unknown error occurred"
	}

	help := helpStyle.Render("Press any key to return to search • Ctrl+C: Quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, "", errorMsg, "", help)
}

// viewSearch renders the search view
func (m Model) viewSearch() string {
	title := titleStyle.Render("🏄 Surf Terminal")
	subtitle := mutedStyle.Render("Spots, forecasts & reviews")

	searchBox := searchBoxStyle.Render(m.searchInput.View())

	var sections []string
	sections = append(sections, title, subtitle, "", searchBox)

	switch {
	case m.search.Loading():
		sections = append(sections, "", m.spinner.View()+" Loading spots...")
	case m.search.Error() != "":
		sections = append(sections, "", errorStyle.Render("✗ "+m.search.Error()))
	case m.searchInput.Value() == "":
		sections = append(sections, "", mutedStyle.Render(fmt.Sprintf("Start typing to search %d spots", len(m.search.Spots()))))
	case len(m.results.Items()) == 0:
		sections = append(sections, "", mutedStyle.Render("No spots match your search"))
	default:
		sections = append(sections, "", m.results.View())
	}

	if m.notice != "" {
		sections = append(sections, "", warningStyle.Render(m.notice))
	}

	help := helpStyle.Render("↑/↓: Navigate • Enter: Open • Esc: Clear • Ctrl+S: Saved • Ctrl+R: My reviews • Ctrl+P: Profile • Ctrl+C: Quit")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewSpotDetail renders the spot page: header, forecast and reviews
func (m Model) viewSpotDetail() string {
	if m.detail.Loading() {
		return m.spinner.View() + " Loading spot..."
	}
	if errText := m.detail.Error(); errText != "" {
		return lipgloss.JoinVertical(lipgloss.Left,
			errorStyle.Render("✗ "+errText),
			helpStyle.Render("Esc: Back • F: Retry • Q: Quit"))
	}
	view := m.detail.View()
	if view == nil {
		return "No spot selected"
	}

	var sections []string
	sections = append(sections, renderSpotHeader(view, m.saved.IsSaved(view.ID)))

	if w := m.detail.Warning(); w != "" {
		sections = append(sections, warningStyle.Render("⚠ "+w))
	}

	paneWidth := m.width - 4
	if paneWidth > 60 {
		paneWidth = 60
	}
	sections = append(sections, renderForecastPane(view, paneWidth))

	sections = append(sections, sectionHeaderStyle.Render("REVIEWS"))
	switch {
	case m.spotReviews == nil:
	case m.spotReviews.Loading():
		sections = append(sections, m.spinner.View()+" Loading reviews...")
	case m.spotReviews.Error() != "":
		sections = append(sections, errorStyle.Render("✗ "+m.spotReviews.Error()))
		fallthrough
	default:
		sections = append(sections, renderReviews(
			m.spotReviews.Reviews(), m.selectedReview, m.names, m.userID(), m.spotReviews.AverageRating()))
	}

	if m.saved.Error() != "" {
		sections = append(sections, errorStyle.Render("✗ "+m.saved.Error()))
	}
	if m.notice != "" {
		sections = append(sections, successStyle.Render(m.notice))
	}

	saveLabel := "S: Save spot"
	if m.saved.IsSaved(view.ID) {
		saveLabel = "S: Unsave spot"
	}
	help := helpStyle.Render(saveLabel + " • R: Write review • E/D: Edit/Delete yours • ↑/↓: Select • F: Refresh • Esc: Back • Q: Quit")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewSaved renders the saved spots list
func (m Model) viewSaved() string {
	var sections []string
	sections = append(sections, titleStyle.Render("★ Saved Spots"))

	switch {
	case m.saved.Loading():
		sections = append(sections, m.spinner.View()+" Loading saved spots...")
	case m.saved.Error() != "":
		sections = append(sections, errorStyle.Render("✗ "+m.saved.Error()))
	case len(m.savedList.Items()) == 0:
		sections = append(sections, mutedStyle.Render("No saved spots yet. Press S on a spot page to save it."))
	default:
		sections = append(sections, m.savedList.View())
	}

	help := helpStyle.Render("↑/↓: Navigate • Enter: Open • X: Unsave • Esc: Back • Q: Quit")
	sections = append(sections, help)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewMyReviews renders the user's reviews
func (m Model) viewMyReviews() string {
	var sections []string
	sections = append(sections, titleStyle.Render("✎ My Reviews"))

	switch {
	case m.myReviews == nil:
	case m.myReviews.Loading():
		sections = append(sections, m.spinner.View()+" Loading reviews...")
	case m.myReviews.Error() != "":
		sections = append(sections, errorStyle.Render("✗ "+m.myReviews.Error()))
	case len(m.myReviewsList.Items()) == 0:
		sections = append(sections, mutedStyle.Render("You haven't reviewed any spots yet."))
	default:
		sections = append(sections, m.myReviewsList.View())
	}

	if m.notice != "" {
		sections = append(sections, successStyle.Render(m.notice))
	}

	help := helpStyle.Render("↑/↓: Navigate • Enter: Open spot • E: Edit • D: Delete • Esc: Back • Q: Quit")
	sections = append(sections, help)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewProfile renders the profile screen
func (m Model) viewProfile() string {
	u, ok := m.identity.CurrentUser()
	if !ok {
		return mutedStyle.Render("Not signed in")
	}

	username := u.Username
	if username == "" {
		username = mutedStyle.Render("(none)")
	}

	rows := []string{
		titleStyle.Render("Profile"),
		"",
		labelStyle.Width(10).Render("Email") + " " + valueStyle.Render(u.Email),
		labelStyle.Width(10).Render("Username") + " " + username,
		"",
		labelStyle.Render("Change username"),
		m.profileInput.View(),
	}
	if m.auth.pending {
		rows = append(rows, "", mutedStyle.Render("Signing out..."))
	}
	if m.profileErr != "" {
		rows = append(rows, "", errorStyle.Render("✗ "+m.profileErr))
	}
	if m.profileNotice != "" {
		rows = append(rows, "", successStyle.Render("✓ "+m.profileNotice))
	}

	box := paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	help := helpStyle.Render("Enter: Save username • Ctrl+O: Sign out • Esc: Back")
	return lipgloss.JoinVertical(lipgloss.Left, box, help)
}
