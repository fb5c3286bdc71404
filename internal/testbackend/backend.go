// Package testbackend runs an in-process stand-in for the collaboration
// backend: the HTTP endpoints and a broadcasting WebSocket hub. It exists for
// tests; the real backend is external.
package testbackend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/yourusername/docchat/internal/protocol"
)

const (
	writeWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client is one connected WebSocket peer
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// LoginRequest is the body accepted by POST /login
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Backend is the fake server
type Backend struct {
	srv *httptest.Server

	mu          sync.RWMutex
	clients     map[string]*client
	chat        []protocol.ChatEntry
	document    string
	received    []protocol.Frame
	logins      []LoginRequest
	loginStatus int
	chatStatus  int
}

// New starts a backend on a loopback port
func New() *Backend {
	b := &Backend{
		clients:     make(map[string]*client),
		loginStatus: http.StatusOK,
		chatStatus:  http.StatusOK,
	}

	r := chi.NewRouter()
	r.Get("/ws", b.handleWebSocket)
	r.Post("/login", b.handleLogin)
	r.Get("/api/chat", b.handleChat)
	r.Get("/api/document", b.handleDocument)

	b.srv = httptest.NewServer(r)
	return b
}

// URL is the HTTP base URL
func (b *Backend) URL() string {
	return b.srv.URL
}

// WSURL is the WebSocket endpoint
func (b *Backend) WSURL() string {
	return "ws" + strings.TrimPrefix(b.srv.URL, "http") + "/ws"
}

// Close drops every client and stops the server
func (b *Backend) Close() {
	b.DropClients()
	b.srv.Close()
}

//// FIXTURES ////

// AddChat appends a line to the history served by /api/chat
func (b *Backend) AddChat(author, text, timestamp string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chat = append(b.chat, protocol.ChatEntry{Author: author, Text: text, Timestamp: timestamp})
}

// SetDocument sets the body served by /api/document
func (b *Backend) SetDocument(content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.document = content
}

// Document returns the last document content the backend holds
func (b *Backend) Document() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.document
}

// SetLoginStatus makes POST /login answer with code
func (b *Backend) SetLoginStatus(code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loginStatus = code
}

// SetChatStatus makes GET /api/chat answer with code
func (b *Backend) SetChatStatus(code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chatStatus = code
}

// Logins returns every login request received over HTTP
func (b *Backend) Logins() []LoginRequest {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]LoginRequest(nil), b.logins...)
}

// Received returns every frame clients have sent, in arrival order
func (b *Backend) Received() []protocol.Frame {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]protocol.Frame(nil), b.received...)
}

// ReceivedOfType filters Received by type
func (b *Backend) ReceivedOfType(t protocol.MessageType) []protocol.Frame {
	var out []protocol.Frame
	for _, f := range b.Received() {
		if f.FrameType() == t {
			out = append(out, f)
		}
	}
	return out
}

// ClientCount returns the number of connected peers
func (b *Backend) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Broadcast pushes a frame to every client
func (b *Backend) Broadcast(f protocol.Frame) error {
	data, err := protocol.Encode(f)
	if err != nil {
		return err
	}
	b.BroadcastRaw(data)
	return nil
}

// BroadcastRaw pushes raw bytes as a text frame to every client
func (b *Backend) BroadcastRaw(data []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, c := range b.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// DropClients closes every client connection from the server side
func (b *Backend) DropClients() {
	b.mu.Lock()
	clients := b.clients
	b.clients = make(map[string]*client)
	b.mu.Unlock()

	for _, c := range clients {
		close(c.send)
	}
}

//// HTTP ////

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	b.logins = append(b.logins, req)
	status := b.loginStatus
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status >= 200 && status < 300 {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "username": req.Username})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": false})
}

func (b *Backend) handleChat(w http.ResponseWriter, r *http.Request) {
	b.mu.RLock()
	status := b.chatStatus
	lines := make([]string, len(b.chat))
	for i, m := range b.chat {
		lines[i] = fmt.Sprintf("[%s] %s: %s", m.Timestamp, m.Author, m.Text)
	}
	b.mu.RUnlock()

	if status != http.StatusOK {
		http.Error(w, "unavailable", status)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, strings.Join(lines, "\n"))
}

func (b *Backend) handleDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, b.Document())
}

//// WEBSOCKET ////

func (b *Backend) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, 256),
	}

	b.mu.Lock()
	b.clients[c.id] = c
	b.mu.Unlock()

	go c.writePump()
	go b.readPump(c)
}

func (b *Backend) unregister(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[c.id]; ok {
		delete(b.clients, c.id)
		close(c.send)
	}
}

// readPump records each frame and relays it the way the real backend does:
// chat lines come back to everyone as broadcasts, document and edit frames go
// to the other peers.
func (b *Backend) readPump(c *client) {
	defer func() {
		b.unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		frame, err := protocol.Decode(message)
		if err != nil {
			continue
		}

		b.mu.Lock()
		b.received = append(b.received, frame)
		b.mu.Unlock()

		switch f := frame.(type) {
		case protocol.ChatFrame:
			b.mu.Lock()
			b.chat = append(b.chat, protocol.ChatEntry{Author: f.Author, Text: f.Text, Timestamp: f.Timestamp})
			b.mu.Unlock()
			f.Kind = protocol.MsgBroadcast
			_ = b.Broadcast(f)

		case protocol.DocumentFrame:
			b.SetDocument(f.Content)
			b.relay(c, message)

		case protocol.EditFrame:
			b.SetDocument(f.Content)
			b.relay(c, message)
		}
	}
}

func (b *Backend) relay(from *client, data []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, c := range b.clients {
		if id == from.id {
			continue
		}
		select {
		case c.send <- data:
		default:
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"))
}
