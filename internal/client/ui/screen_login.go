package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const loginFailedText = "Login failed. Check your details and try again."

// loginForm holds the login screen inputs
type loginForm struct {
	username textinput.Model
	email    textinput.Model
	focus    int // 0 username, 1 email
	busy     bool
	failed   bool
}

func newLoginForm() loginForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 32
	username.Width = 30
	username.Prompt = ""
	username.Focus()

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 128
	email.Width = 30
	email.Prompt = ""

	return loginForm{username: username, email: email}
}

func (f loginForm) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (f *loginForm) toggleFocus() {
	f.focus = (f.focus + 1) % 2
	if f.focus == 0 {
		f.email.Blur()
		f.username.Focus()
	} else {
		f.username.Blur()
		f.email.Focus()
	}
}

// updateLogin handles the login screen
func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "shift+tab", "up", "down":
		m.login.toggleFocus()
		return m, nil

	case "enter":
		if m.login.busy {
			return m, nil
		}
		if m.login.focus == 0 {
			m.login.toggleFocus()
			return m, nil
		}

		username := strings.TrimSpace(m.login.username.Value())
		if username == "" {
			m.login.failed = true
			return m, nil
		}
		m.login.busy = true
		m.login.failed = false
		email := strings.TrimSpace(m.login.email.Value())
		return m, loginCmd(m.deps.Auth, m.deps.Store, username, email)
	}

	var cmd tea.Cmd
	if m.login.focus == 0 {
		m.login.username, cmd = m.login.username.Update(msg)
	} else {
		m.login.email, cmd = m.login.email.Update(msg)
	}
	return m, cmd
}

// handleLoginResult navigates Home on success and shows the banner otherwise
func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.login.busy = false
	if msg.err != nil {
		m.deps.Log.Warn().Err(msg.err).Msg("[ui] login failed")
		m.login.failed = true
		return m, nil
	}

	m.sess = msg.sess
	return m.navigate(RouteHome)
}

// viewLogin renders the login screen
func (m Model) viewLogin() string {
	title := titleStyle.Render("DOCCHAT")
	subtitle := subtitleStyle.Render("Chat and write together")

	usernameBox := inputBoxStyle
	emailBox := inputBoxStyle
	if m.login.focus == 0 {
		usernameBox = focusedInputBoxStyle
	} else {
		emailBox = focusedInputBoxStyle
	}

	parts := []string{
		title,
		subtitle,
		"\n",
		labelStyle.Render("Username"),
		usernameBox.Render(m.login.username.View()),
		labelStyle.Render("Email"),
		emailBox.Render(m.login.email.View()),
	}

	if m.login.busy {
		parts = append(parts, "\n"+mutedStyle.Render("Signing in..."))
	}
	if m.login.failed {
		parts = append(parts, "\n"+bannerStyle.Render(loginFailedText))
	}

	mainContent := lipgloss.JoinVertical(lipgloss.Center, parts...)

	instructions := instructionStyle.Render(
		"Press " + highlightStyle.Render("ENTER") + " to continue  •  " +
			mutedStyle.Render("TAB to switch  •  ESC to quit"))

	centeredMain := lipgloss.Place(m.width, m.height-5, lipgloss.Center, lipgloss.Center, mainContent)
	bottomInstructions := lipgloss.Place(m.width, 3, lipgloss.Center, lipgloss.Bottom, instructions)

	return centeredMain + "\n" + bottomInstructions
}
