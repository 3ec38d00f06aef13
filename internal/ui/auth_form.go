package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	authEmail = iota
	authPassword
	authUsername
)

// authForm signs in or signs up
type authForm struct {
	inputs  []textinput.Model
	focus   int
	signUp  bool
	err     string
	notice  string
	pending bool
}

func newAuthForm() authForm {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 100
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 72
	password.Width = 40

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 30
	username.Width = 40

	return authForm{inputs: []textinput.Model{email, password, username}}
}

// fieldCount is 3 when signing up (username shown), otherwise 2
func (f authForm) fieldCount() int {
	if f.signUp {
		return 3
	}
	return 2
}

func (f authForm) Update(msg tea.KeyMsg) (authForm, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return f.setFocus((f.focus + 1) % f.fieldCount()), nil
	case "shift+tab", "up":
		return f.setFocus((f.focus + f.fieldCount() - 1) % f.fieldCount()), nil
	case "ctrl+t":
		f.signUp = !f.signUp
		f.err = ""
		f.notice = ""
		if f.focus >= f.fieldCount() {
			f = f.setFocus(0)
		}
		return f, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.err = ""
	return f, cmd
}

func (f authForm) setFocus(i int) authForm {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
	return f
}

func (f authForm) email() string    { return strings.TrimSpace(f.inputs[authEmail].Value()) }
func (f authForm) password() string { return f.inputs[authPassword].Value() }
func (f authForm) username() string { return strings.TrimSpace(f.inputs[authUsername].Value()) }

// missing returns a message naming the first empty required field, or ""
func (f authForm) missing() string {
	switch {
	case f.email() == "":
		return "email is required"
	case f.password() == "":
		return "password is required"
	case f.signUp && f.username() == "":
		return "username is required"
	}
	return ""
}

func (f authForm) View() string {
	title := "Sign in"
	toggle := "Ctrl+T: Create an account instead"
	if f.signUp {
		title = "Create account"
		toggle = "Ctrl+T: Sign in instead"
	}

	labels := []string{"Email", "Password", "Username"}
	var rows []string
	rows = append(rows, titleStyle.Render(title), "")
	for i := 0; i < f.fieldCount(); i++ {
		label := labelStyle.Width(10).Render(labels[i])
		if i == f.focus {
			label = selectedStyle.Width(10).Render(labels[i])
		}
		rows = append(rows, label+" "+f.inputs[i].View())
	}

	if f.pending {
		rows = append(rows, "", mutedStyle.Render("Contacting auth service..."))
	}
	if f.err != "" {
		rows = append(rows, "", errorStyle.Render("✗ "+f.err))
	}
	if f.notice != "" {
		rows = append(rows, "", successStyle.Render(f.notice))
	}

	box := activePaneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	help := helpStyle.Render("Tab: Next field • Enter: Submit • " + toggle + " • Esc: Back")
	return lipgloss.JoinVertical(lipgloss.Left, box, help)
}
