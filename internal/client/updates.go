package client

import (
	"github.com/yourusername/docchat/internal/dispatch"
	"github.com/yourusername/docchat/internal/protocol"
	"github.com/yourusername/docchat/internal/workspace"
)

// Update tells the view something changed
type Update interface {
	isUpdate()
}

// ConnectionUpdate reports the socket opening or closing
type ConnectionUpdate struct {
	Connected bool
	Err       error
}

func (ConnectionUpdate) isUpdate() {}

// FrameUpdate reports one applied inbound frame
type FrameUpdate struct {
	Type    protocol.MessageType
	Outcome dispatch.Outcome
}

func (FrameUpdate) isUpdate() {}

// SnapshotUpdate reports a debounced local commit
type SnapshotUpdate struct {
	Snapshot workspace.Snapshot
}

func (SnapshotUpdate) isUpdate() {}
