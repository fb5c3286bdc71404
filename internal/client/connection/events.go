package connection

import "github.com/yourusername/docchat/internal/protocol"

// Event represents events from the connection manager
type Event interface {
	isEvent()
}

// ConnectedEvent is sent when connection is established
type ConnectedEvent struct{}

func (ConnectedEvent) isEvent() {}

// DisconnectedEvent is sent when the connection is lost or closed. Error is
// nil for a local Disconnect.
type DisconnectedEvent struct {
	Error error
}

func (DisconnectedEvent) isEvent() {}

// FrameEvent carries one successfully decoded inbound frame
type FrameEvent struct {
	Frame protocol.Frame
}

func (FrameEvent) isEvent() {}
