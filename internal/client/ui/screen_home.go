package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yourusername/docchat/internal/client"
	"github.com/yourusername/docchat/internal/session"
)

// Export kinds
const (
	exportChat      = "chat"
	exportDocument  = "document"
	exportSnapshots = "history"
)

type homeFocus int

const (
	focusChat homeFocus = iota
	focusEditor
)

// homeScreen is the chat panel plus the shared document editor
type homeScreen struct {
	client *client.Client
	self   string

	chatView  viewport.Model
	chatInput textinput.Model
	editor    textarea.Model
	focus     homeFocus

	loading     bool
	loadingDots int
	connected   bool
	snapshots   int
	status      string
}

func newHomeScreen(c *client.Client, sess session.Session) homeScreen {
	chatInput := textinput.New()
	chatInput.Placeholder = "Type a message..."
	chatInput.CharLimit = 500
	chatInput.Prompt = "> "
	chatInput.PromptStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	chatInput.Focus()

	editor := textarea.New()
	editor.Placeholder = "Start writing..."
	editor.ShowLineNumbers = false
	editor.CharLimit = 0

	return homeScreen{
		client:    c,
		self:      sess.DisplayName(),
		chatView:  viewport.New(40, 10),
		chatInput: chatInput,
		editor:    editor,
		focus:     focusChat,
		loading:   true,
	}
}

// layout returns the outer widths of the chat and editor panels and the
// height they share
func layout(width, height int) (chatW, editorW, bodyH int) {
	bodyH = height - 3 // status bar
	if bodyH < 8 {
		bodyH = 8
	}
	chatW = width * 2 / 5
	if chatW < 24 {
		chatW = 24
	}
	editorW = width - chatW
	if editorW < 24 {
		editorW = 24
	}
	return chatW, editorW, bodyH
}

func (h *homeScreen) resize(width, height int) {
	if h.client == nil {
		return
	}
	chatW, editorW, bodyH := layout(width, height)

	// borders, title and the input box
	h.chatView.Width = chatW - 2
	h.chatView.Height = bodyH - 2 - 1 - 3
	if h.chatView.Height < 1 {
		h.chatView.Height = 1
	}
	h.chatInput.Width = chatW - 8

	h.editor.SetWidth(editorW - 2)
	h.editor.SetHeight(bodyH - 2 - 1)

	h.refreshChat()
}

// refreshChat re-renders the chat list and scrolls to the newest message
func (h *homeScreen) refreshChat() {
	msgs := h.client.Workspace().Chat()
	h.chatView.SetContent(renderChat(msgs, h.self, h.chatView.Width))
	h.chatView.GotoBottom()
}

// refreshDocument pulls the shared buffer into the editor
func (h *homeScreen) refreshDocument() {
	doc := h.client.Workspace().Document()
	if h.editor.Value() != doc {
		h.editor.SetValue(doc)
	}
}

func (h *homeScreen) setFocus(f homeFocus) tea.Cmd {
	h.focus = f
	if f == focusChat {
		h.editor.Blur()
		return h.chatInput.Focus()
	}
	h.chatInput.Blur()
	return h.editor.Focus()
}

// apply reacts to a controller update
func (h *homeScreen) apply(u client.Update) {
	switch u := u.(type) {
	case client.ConnectionUpdate:
		h.connected = u.Connected

	case client.FrameUpdate:
		// updates can be dropped under load, so always pull both
		h.refreshChat()
		h.refreshDocument()
		h.snapshots = len(h.client.Workspace().Snapshots())

	case client.SnapshotUpdate:
		h.snapshots = len(h.client.Workspace().Snapshots())
	}
}

func (h *homeScreen) exported(msg exportDoneMsg) {
	if msg.err != nil {
		h.status = "export failed: " + msg.what
		return
	}
	h.status = fmt.Sprintf("saved %s to %s", msg.what, msg.path)
}

// handleMounted finishes entering Home
func (m Model) handleMounted(msg mountedMsg) (tea.Model, tea.Cmd) {
	if m.viewState != ViewHome {
		return m, nil
	}
	if msg.err != nil {
		m.deps.Log.Warn().Err(msg.err).Msg("[ui] cannot enter home")
		m.sess = session.Session{}
		return m.navigate(RouteLogin)
	}

	m.home.loading = false
	m.home.connected = m.home.client.Connected()
	m.home.refreshChat()
	m.home.refreshDocument()
	return m, m.home.setFocus(focusChat)
}

// updateHome handles the Home screen
func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Shutdown()
		return m, tea.Quit
	}
	if m.home.loading {
		return m, nil
	}

	c := m.home.client
	switch msg.String() {
	case "tab":
		if m.home.focus == focusChat {
			return m, m.home.setFocus(focusEditor)
		}
		return m, m.home.setFocus(focusChat)

	case "ctrl+e":
		return m, exportCmd(c, exportChat)
	case "ctrl+d":
		return m, exportCmd(c, exportDocument)
	case "ctrl+t":
		return m, exportCmd(c, exportSnapshots)

	case "ctrl+l":
		return m.logout()

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.home.chatView, cmd = m.home.chatView.Update(msg)
		return m, cmd
	}

	if m.home.focus == focusChat {
		if msg.String() == "enter" {
			text := m.home.chatInput.Value()
			m.home.chatInput.Reset()
			// a closed socket is logged by the connection
			_ = c.SendChat(text)
			return m, nil
		}
		var cmd tea.Cmd
		m.home.chatInput, cmd = m.home.chatInput.Update(msg)
		return m, cmd
	}

	// never build a local edit on top of a stale remote buffer
	m.home.refreshDocument()
	before := m.home.editor.Value()
	var cmd tea.Cmd
	m.home.editor, cmd = m.home.editor.Update(msg)
	if after := m.home.editor.Value(); after != before {
		c.EditDocument(after)
	}
	return m, cmd
}

// logout unmounts Home, forgets the persisted login and goes back to "/"
func (m Model) logout() (tea.Model, tea.Cmd) {
	if m.deps.Store != nil {
		if err := session.Clear(m.deps.Store); err != nil {
			m.deps.Log.Error().Err(err).Msg("[ui] clear session")
		}
	}
	m.sess = session.Session{}
	return m.navigate(RouteLogin)
}

// viewHome renders the chat panel, the editor and the status bar
func (m Model) viewHome() string {
	chatW, editorW, bodyH := layout(m.width, m.height)

	chatStyle, editorStyle := focusedPanelStyle, panelStyle
	if m.home.focus == focusEditor {
		chatStyle, editorStyle = panelStyle, focusedPanelStyle
	}

	chatPanel := chatStyle.
		Width(chatW - 2).
		Height(bodyH - 2).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			panelTitleStyle.Width(chatW-2).Render("CHAT"),
			m.home.chatView.View(),
			m.renderChatInputBox(chatW-4),
		))

	editorPanel := editorStyle.
		Width(editorW - 2).
		Height(bodyH - 2).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			panelTitleStyle.Width(editorW-2).Render("DOCUMENT"),
			m.home.editor.View(),
		))

	body := lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, editorPanel)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}

// renderChatInputBox renders the chat input box (adapts to width)
func (m Model) renderChatInputBox(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(1). // Fixed height to prevent shifting
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mutedColor).
		Render(m.home.chatInput.View())
}

// renderStatusBar renders the bottom status bar
func (m Model) renderStatusBar() string {
	conn := offlineStyle.Render("○ offline")
	if m.home.connected {
		conn = onlineStyle.Render("● online")
	}

	user := lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true).
		Render("User: " + m.home.self)

	history := mutedStyle.Render(fmt.Sprintf("%d snapshots", m.home.snapshots))

	controls := mutedStyle.Render("TAB: Focus  •  ^E chat  ^D doc  ^T history  •  ^L Logout  •  ^C Quit")

	line := conn + "  " + user + "  " + history + "  •  " + controls
	if m.home.status != "" {
		line += "\n" + highlightStyle.Render(m.home.status)
	}

	return lipgloss.NewStyle().
		Foreground(fgColor).
		Width(m.width).
		Align(lipgloss.Center).
		Render(line)
}
