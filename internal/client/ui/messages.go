package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yourusername/docchat/internal/client"
	"github.com/yourusername/docchat/internal/session"
)

// loginResultMsg is sent when the login request finishes
type loginResultMsg struct {
	sess session.Session
	err  error
}

// mountedMsg is sent once the Home controller has loaded and connected
type mountedMsg struct {
	err error
}

// clientUpdateMsg wraps updates pushed by the controller
type clientUpdateMsg struct {
	from   *client.Client
	update client.Update
}

// exportDoneMsg reports where an export was written
type exportDoneMsg struct {
	what string
	path string
	err  error
}

// tickMsg is sent periodically for animations
type tickMsg time.Time

// requestTimeout bounds login, mount and export calls
const requestTimeout = 15 * time.Second

// loginCmd performs the login request and persists the session
func loginCmd(auth session.Authenticator, store *session.Store, username, email string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sess, err := session.Login(ctx, auth, store, username, email)
		return loginResultMsg{sess: sess, err: err}
	}
}

// mountCmd loads the Home state and opens the connection
func mountCmd(c *client.Client, sess session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return mountedMsg{err: c.Mount(ctx, sess)}
	}
}

// listenCmd waits for the next controller update
func listenCmd(inbox <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-inbox
	}
}

// exportCmd runs one of the controller's exports
func exportCmd(c *client.Client, what string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var (
			path string
			err  error
		)
		switch what {
		case exportChat:
			path, err = c.ExportChat(ctx)
		case exportDocument:
			path, err = c.ExportDocument(ctx)
		default:
			path, err = c.ExportSnapshots()
		}
		return exportDoneMsg{what: what, path: path, err: err}
	}
}

// tickCmd returns a command that sends tick messages for animations
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
