package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/yourusername/docchat/internal/client"
	"github.com/yourusername/docchat/internal/session"
)

// Routes
const (
	RouteLogin = "/"
	RouteHome  = "/Home"
)

// ViewState represents the current view in the TUI
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewHome
	ViewNotFound
)

func (v ViewState) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewHome:
		return "home"
	default:
		return "not_found"
	}
}

// ResolveRoute maps a path to a view. Home needs a logged-in session and
// falls back to the login screen otherwise.
func ResolveRoute(path string, sess session.Session) ViewState {
	switch path {
	case RouteLogin, "":
		return ViewLogin
	case RouteHome:
		if !sess.LoggedIn {
			return ViewLogin
		}
		return ViewHome
	default:
		return ViewNotFound
	}
}

// Deps are the collaborators the screens need
type Deps struct {
	Store *session.Store
	Auth  session.Authenticator
	// NewClient builds a fresh controller each time Home is entered
	NewClient func() *client.Client
	Log       zerolog.Logger
}

// Model is the main Bubble Tea model
type Model struct {
	viewState ViewState
	deps      Deps
	sess      session.Session
	inbox     chan tea.Msg // Controller updates, drained by listenCmd

	width  int
	height int

	login loginForm
	home  homeScreen
}

// NewModel creates the root model starting at path
func NewModel(deps Deps, sess session.Session, path string) Model {
	m := Model{
		deps:   deps,
		sess:   sess,
		inbox:  make(chan tea.Msg, 64),
		width:  80,
		height: 24,
		login:  newLoginForm(),
	}
	m.viewState = ResolveRoute(path, sess)
	if m.viewState == ViewHome {
		m.home = m.newHome()
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{listenCmd(m.inbox)}
	switch m.viewState {
	case ViewLogin:
		cmds = append(cmds, m.login.focusCmd())
	case ViewHome:
		cmds = append(cmds, mountCmd(m.home.client, m.sess), tickCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.viewState == ViewHome {
			m.home.resize(m.width, m.height)
		}
		return m, nil

	case tea.KeyMsg:
		// Route to appropriate screen update handler
		switch m.viewState {
		case ViewLogin:
			return m.updateLogin(msg)
		case ViewHome:
			return m.updateHome(msg)
		case ViewNotFound:
			return m.updateNotFound(msg)
		}

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case mountedMsg:
		return m.handleMounted(msg)

	case clientUpdateMsg:
		if m.viewState == ViewHome && msg.from == m.home.client {
			m.home.apply(msg.update)
		}
		return m, listenCmd(m.inbox)

	case exportDoneMsg:
		if m.viewState == ViewHome {
			m.home.exported(msg)
		}
		return m, nil

	case tickMsg:
		if m.viewState == ViewHome && m.home.loading {
			m.home.loadingDots = (m.home.loadingDots + 1) % 4
			return m, tickCmd()
		}
		return m, nil
	}

	return m, nil
}

// View renders the current view
func (m Model) View() string {
	switch m.viewState {
	case ViewLogin:
		return m.viewLogin()
	case ViewHome:
		if m.home.loading {
			return m.viewLoading()
		}
		return m.viewHome()
	case ViewNotFound:
		return m.viewNotFound()
	}
	return ""
}

// ViewState returns the active view
func (m Model) ViewState() ViewState {
	return m.viewState
}

// Session returns the current session
func (m Model) Session() session.Session {
	return m.sess
}

// Shutdown unmounts Home if it is active
func (m *Model) Shutdown() {
	if m.home.client != nil {
		m.home.client.Unmount()
	}
}

// navigate switches routes, mounting or unmounting Home as needed
func (m Model) navigate(path string) (Model, tea.Cmd) {
	next := ResolveRoute(path, m.sess)
	m.deps.Log.Debug().Str("path", path).Stringer("view", next).Msg("[ui] navigate")

	if m.viewState == ViewHome && next != ViewHome {
		m.Shutdown()
		m.home = homeScreen{}
	}

	m.viewState = next
	switch next {
	case ViewHome:
		m.home = m.newHome()
		return m, tea.Batch(mountCmd(m.home.client, m.sess), tickCmd())
	case ViewLogin:
		m.login = newLoginForm()
		return m, m.login.focusCmd()
	}
	return m, nil
}

// newHome builds the Home screen and hooks its controller to the inbox
func (m Model) newHome() homeScreen {
	c := m.deps.NewClient()
	inbox := m.inbox
	c.OnUpdate(func(u client.Update) {
		select {
		case inbox <- clientUpdateMsg{from: c, update: u}:
		default:
			// dropped; the next frame update or editor key re-reads the workspace
		}
	})

	h := newHomeScreen(c, m.sess)
	h.resize(m.width, m.height)
	return h
}
