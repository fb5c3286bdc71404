// Package workspace holds the client-side view of the shared session: the
// chat list, the document buffer and the snapshot history.
package workspace

import (
	"sync"

	"github.com/google/uuid"
)

// ChatMessage represents a single chat line
type ChatMessage struct {
	Author    string
	Text      string
	Timestamp string
}

// Snapshot is a recorded copy of the document with attribution
type Snapshot struct {
	ID        string
	Timestamp string
	Author    string
	Content   string
}

// Workspace manages the chat list, the document buffer and snapshot history
type Workspace struct {
	chat      []ChatMessage
	document  string
	snapshots []Snapshot
	mu        sync.RWMutex
}

// New creates an empty workspace
func New() *Workspace {
	return &Workspace{
		chat:      []ChatMessage{},
		snapshots: []Snapshot{},
	}
}

//// CHAT ////

// AppendChat adds a message at the end of the chat list
func (w *Workspace) AppendChat(msg ChatMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chat = append(w.chat, msg)
}

// ReplaceChat swaps the whole chat list
func (w *Workspace) ReplaceChat(msgs []ChatMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chat = append(make([]ChatMessage, 0, len(msgs)), msgs...)
}

// Chat returns a copy of the chat list
func (w *Workspace) Chat() []ChatMessage {
	w.mu.RLock()
	defer w.mu.RUnlock()

	result := make([]ChatMessage, len(w.chat))
	copy(result, w.chat)
	return result
}

// ChatLen returns the number of chat messages
func (w *Workspace) ChatLen() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chat)
}

//// DOCUMENT ////

// SetDocument replaces the document buffer
func (w *Workspace) SetDocument(content string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.document = content
}

// Document returns the current document buffer
func (w *Workspace) Document() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.document
}

//// SNAPSHOTS ////

// RecordSnapshot appends a snapshot and returns it with its generated ID
func (w *Workspace) RecordSnapshot(timestamp, author, content string) Snapshot {
	snap := Snapshot{
		ID:        uuid.New().String(),
		Timestamp: timestamp,
		Author:    author,
		Content:   content,
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.snapshots = append(w.snapshots, snap)
	return snap
}

// ApplyRemoteEdit replaces the document and records the matching snapshot
// in one step, so readers never see one without the other.
func (w *Workspace) ApplyRemoteEdit(timestamp, author, content string) Snapshot {
	snap := Snapshot{
		ID:        uuid.New().String(),
		Timestamp: timestamp,
		Author:    author,
		Content:   content,
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.document = content
	w.snapshots = append(w.snapshots, snap)
	return snap
}

// Snapshots returns a copy of the snapshot history
func (w *Workspace) Snapshots() []Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	result := make([]Snapshot, len(w.snapshots))
	copy(result, w.snapshots)
	return result
}
