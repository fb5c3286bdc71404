package connection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/yourusername/docchat/internal/protocol"
)

const (
	handshakeTimeout = 10 * time.Second
	writeWait        = 10 * time.Second
)

// ErrNotConnected is returned by Send when the socket is not open
var ErrNotConnected = errors.New("websocket is not connected")

// Manager owns the single WebSocket connection to the backend
type Manager struct {
	serverURL     string
	conn          *websocket.Conn
	connID        string
	eventCallback func(Event)
	connected     bool
	log           zerolog.Logger
	mu            sync.RWMutex
	writeMu       sync.Mutex // gorilla allows one concurrent writer
	done          chan struct{}
}

// NewManager creates a new connection manager
func NewManager(serverURL string, log zerolog.Logger) *Manager {
	return &Manager{
		serverURL: serverURL,
		connected: false,
		log:       log,
		done:      make(chan struct{}),
	}
}

// OnEvent sets the callback for events
func (m *Manager) OnEvent(callback func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventCallback = callback
}

// ServerURL returns the endpoint this manager dials
func (m *Manager) ServerURL() string {
	return m.serverURL
}

// Connect dials the server once. There is no retry: on failure the error is
// logged, a DisconnectedEvent is emitted and the error is returned.
func (m *Manager) Connect(ctx context.Context) error {
	if m.IsConnected() {
		return nil
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, m.serverURL, nil)
	if err != nil {
		m.log.Error().Err(err).Str("url", m.serverURL).Msg("[conn] dial failed")
		m.sendEvent(DisconnectedEvent{Error: err})
		return fmt.Errorf("dial %s: %w", m.serverURL, err)
	}

	m.mu.Lock()
	m.conn = conn
	m.connID = uuid.New().String()
	m.connected = true
	// Fresh done channel per connection
	m.done = make(chan struct{})
	done := m.done
	connID := m.connID
	m.mu.Unlock()

	m.log.Info().Str("url", m.serverURL).Str("conn_id", connID).Msg("[conn] connected")

	go m.readPump(conn, done, connID)

	m.sendEvent(ConnectedEvent{})
	return nil
}

// Disconnect closes the WebSocket connection. Safe to call more than once.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return
	}

	m.connected = false
	conn := m.conn

	// Close done channel to tell readPump the close is intentional
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	m.mu.Unlock()

	if conn != nil {
		m.writeMu.Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		m.writeMu.Unlock()
		_ = conn.Close()
	}
}

// IsConnected returns whether the manager is connected
func (m *Manager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Send writes one frame. When the socket is not open the frame is dropped
// with a warning and ErrNotConnected is returned.
func (m *Manager) Send(frame protocol.Frame) error {
	m.mu.RLock()
	conn, connected := m.conn, m.connected
	m.mu.RUnlock()

	if !connected || conn == nil {
		m.log.Warn().Str("type", frameType(frame)).Msg("[conn] websocket not connected, frame dropped")
		return ErrNotConnected
	}

	data, err := protocol.Encode(frame)
	if err != nil {
		return err
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		m.log.Error().Err(err).Str("type", frameType(frame)).Msg("[conn] write failed")
		return fmt.Errorf("write %s frame: %w", frameType(frame), err)
	}
	return nil
}

// readPump reads messages from the WebSocket connection
func (m *Manager) readPump(conn *websocket.Conn, done chan struct{}, connID string) {
	var readErr error

	defer func() {
		m.mu.Lock()
		if m.conn == conn {
			m.connected = false
		}
		m.mu.Unlock()
		_ = conn.Close()

		select {
		case <-done:
			// local Disconnect
			readErr = nil
		default:
		}
		m.log.Info().Str("conn_id", connID).Msg("[conn] disconnected")
		m.sendEvent(DisconnectedEvent{Error: readErr})
	}()

	for {
		msgType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.log.Error().Err(err).Str("conn_id", connID).Msg("[conn] websocket error")
			}
			readErr = err
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		m.handleMessage(message)
	}
}

// handleMessage decodes one frame and forwards it; bad frames are dropped
func (m *Manager) handleMessage(data []byte) {
	frame, err := protocol.Decode(data)
	if err != nil {
		m.log.Warn().Err(err).Msg("[conn] discarding frame")
		return
	}

	m.sendEvent(FrameEvent{Frame: frame})
}

// sendEvent sends an event to the callback if set
func (m *Manager) sendEvent(event Event) {
	m.mu.RLock()
	callback := m.eventCallback
	m.mu.RUnlock()

	if callback != nil {
		callback(event)
	}
}

func frameType(f protocol.Frame) string {
	if f == nil {
		return ""
	}
	return string(f.FrameType())
}
