// Package client ties the pieces of the Home screen together: initial HTTP
// load, the WebSocket connection, frame dispatch, document sync and exports.
package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/docchat/internal/api"
	"github.com/yourusername/docchat/internal/client/connection"
	"github.com/yourusername/docchat/internal/dispatch"
	"github.com/yourusername/docchat/internal/docsync"
	"github.com/yourusername/docchat/internal/export"
	"github.com/yourusername/docchat/internal/protocol"
	"github.com/yourusername/docchat/internal/session"
	"github.com/yourusername/docchat/internal/workspace"
)

// Options configure a Client
type Options struct {
	ServerURL string
	APIURL    string
	Debounce  time.Duration
	Policy    docsync.Policy
	ExportDir string
	Log       zerolog.Logger
	Now       func() time.Time
}

// Client is the Home screen's controller
type Client struct {
	opts Options
	log  zerolog.Logger

	api  *api.Client
	conn *connection.Manager
	ws   *workspace.Workspace
	disp *dispatch.Dispatcher

	mu       sync.RWMutex
	syncer   *docsync.Syncer
	sess     session.Session
	mounted  bool
	listener func(Update)
}

// New creates an unmounted client
func New(opts Options) *Client {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ws := workspace.New()
	c := &Client{
		opts: opts,
		log:  opts.Log,
		api:  api.NewClient(opts.APIURL, opts.Log),
		conn: connection.NewManager(opts.ServerURL, opts.Log),
		ws:   ws,
		disp: dispatch.New(ws, opts.Log),
	}
	c.conn.OnEvent(c.handleConnectionEvent)
	return c
}

// OnUpdate registers the view callback. It is called from background
// goroutines and must not block.
func (c *Client) OnUpdate(fn func(Update)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = fn
}

// Mount loads the initial state over HTTP, then opens the WebSocket. A
// failed load or dial is logged and the client keeps running offline.
func (c *Client) Mount(ctx context.Context, sess session.Session) error {
	author, err := sess.Author()
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return nil
	}
	c.mounted = true
	c.sess = sess
	c.mu.Unlock()

	if chat, err := c.api.FetchChat(ctx); err != nil {
		c.log.Warn().Err(err).Msg("[client] initial chat load failed")
	} else {
		c.ws.ReplaceChat(chat)
	}
	if doc, err := c.api.FetchDocument(ctx); err != nil {
		c.log.Warn().Err(err).Msg("[client] initial document load failed")
	} else {
		c.ws.SetDocument(doc)
	}

	syncer := docsync.NewSyncer(c.ws, c.conn, docsync.Options{
		Author: author,
		Delay:  c.opts.Debounce,
		Policy: c.opts.Policy,
		Now:    c.opts.Now,
		Log:    c.log,
		OnCommit: func(snap workspace.Snapshot) {
			c.emit(SnapshotUpdate{Snapshot: snap})
		},
	})
	c.mu.Lock()
	if !c.mounted {
		// unmounted while loading
		c.mu.Unlock()
		syncer.Close()
		return nil
	}
	c.syncer = syncer
	c.mu.Unlock()

	if err := c.conn.Connect(ctx); err != nil {
		c.log.Warn().Err(err).Msg("[client] working offline")
		return nil
	}
	if !c.Mounted() {
		c.conn.Disconnect()
		return nil
	}

	now := c.opts.Now()
	_ = c.conn.Send(protocol.LoginFrame{Username: author, Email: sess.Email})
	_ = c.conn.Send(protocol.NewSystemNotification(author, author+" joined the chat", now))
	return nil
}

// Unmount cancels the pending document commit and closes the socket. No
// debounced commit fires after Unmount returns.
func (c *Client) Unmount() {
	c.mu.Lock()
	syncer := c.syncer
	c.syncer = nil
	c.mounted = false
	c.mu.Unlock()

	if syncer != nil {
		syncer.Close()
	}
	c.conn.Disconnect()
}

// Mounted reports whether the client is between Mount and Unmount
func (c *Client) Mounted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mounted
}

//// USER ACTIONS ////

// SendChat sends a chat line. The line shows up once the backend broadcasts
// it back.
func (c *Client) SendChat(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	author, err := c.Session().Author()
	if err != nil {
		return err
	}
	return c.conn.Send(protocol.NewChatMessage(author, text, c.opts.Now()))
}

// EditDocument applies a local edit
func (c *Client) EditDocument(content string) {
	c.mu.RLock()
	syncer := c.syncer
	c.mu.RUnlock()

	if syncer == nil {
		c.ws.SetDocument(content)
		return
	}
	syncer.LocalEdit(content)
}

//// EXPORTS ////

// ExportChat fetches the chat history and writes it out
func (c *Client) ExportChat(ctx context.Context) (string, error) {
	chat, err := c.api.FetchChat(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("[client] chat export aborted")
		return "", fmt.Errorf("export chat: %w", err)
	}
	return c.write(export.ChatFileName, export.FormatChat(chat))
}

// ExportDocument fetches the document and writes it out
func (c *Client) ExportDocument(ctx context.Context) (string, error) {
	doc, err := c.api.FetchDocument(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("[client] document export aborted")
		return "", fmt.Errorf("export document: %w", err)
	}
	return c.write(export.DocumentFileName, export.FormatDocument(doc))
}

// ExportSnapshots writes the in-memory snapshot history
func (c *Client) ExportSnapshots() (string, error) {
	return c.write(export.SnapshotsFileName, export.FormatSnapshots(c.ws.Snapshots()))
}

func (c *Client) write(name, content string) (string, error) {
	path, err := export.WriteFile(c.opts.ExportDir, name, content)
	if err != nil {
		c.log.Error().Err(err).Str("file", name).Msg("[client] export failed")
		return "", err
	}
	c.log.Info().Str("path", path).Msg("[client] exported")
	return path, nil
}

//// ACCESSORS ////

// Workspace exposes the chat, document and snapshot state
func (c *Client) Workspace() *workspace.Workspace {
	return c.ws
}

// Connected reports the socket state
func (c *Client) Connected() bool {
	return c.conn.IsConnected()
}

// Session returns the mounted session
func (c *Client) Session() session.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sess
}

// ServerURL returns the WebSocket endpoint
func (c *Client) ServerURL() string {
	return c.conn.ServerURL()
}

// API exposes the HTTP client (used by login)
func (c *Client) API() *api.Client {
	return c.api
}

//// EVENTS ////

func (c *Client) handleConnectionEvent(event connection.Event) {
	switch e := event.(type) {
	case connection.ConnectedEvent:
		c.emit(ConnectionUpdate{Connected: true})

	case connection.DisconnectedEvent:
		c.emit(ConnectionUpdate{Connected: false, Err: e.Error})

	case connection.FrameEvent:
		out := c.disp.Dispatch(e.Frame)
		switch f := e.Frame.(type) {
		case protocol.DocumentFrame:
			c.observeRemote(f.Content)
		case protocol.EditFrame:
			c.observeRemote(f.Content)
		}
		c.emit(FrameUpdate{Type: e.Frame.FrameType(), Outcome: out})
	}
}

// observeRemote tells the syncer a peer's content is now the baseline
func (c *Client) observeRemote(content string) {
	c.mu.RLock()
	syncer := c.syncer
	c.mu.RUnlock()

	if syncer != nil {
		syncer.ObserveRemote(content)
	}
}

func (c *Client) emit(u Update) {
	c.mu.RLock()
	fn := c.listener
	c.mu.RUnlock()

	if fn != nil {
		fn(u)
	}
}
