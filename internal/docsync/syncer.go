// Package docsync propagates local document edits: immediate local echo, a
// raw document frame per keystroke and a debounced, attributed edit frame
// with a local snapshot once typing pauses.
package docsync

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/docchat/internal/protocol"
	"github.com/yourusername/docchat/internal/workspace"
)

// DefaultDelay is the quiet period before a debounced commit
const DefaultDelay = 500 * time.Millisecond

// Sender delivers frames to the backend
type Sender interface {
	Send(frame protocol.Frame) error
}

// Options configure a Syncer
type Options struct {
	Author string
	Delay  time.Duration
	Policy Policy
	// OnCommit is called after each debounced commit, outside any lock
	OnCommit func(workspace.Snapshot)
	Now      func() time.Time
	Log      zerolog.Logger
}

// Syncer turns local edits into outbound frames
type Syncer struct {
	ws     *workspace.Workspace
	sender Sender
	author string
	policy Policy
	now    func() time.Time
	log    zerolog.Logger

	onCommit  func(workspace.Snapshot)
	debouncer *Debouncer

	mu            sync.Mutex
	lastCommitted string
}

// NewSyncer creates a syncer bound to ws. The debounce timer is owned by the
// syncer and released by Close.
func NewSyncer(ws *workspace.Workspace, sender Sender, opts Options) *Syncer {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Policy == "" {
		opts.Policy = PolicyDual
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Syncer{
		ws:            ws,
		sender:        sender,
		author:        opts.Author,
		policy:        opts.Policy,
		now:           opts.Now,
		log:           opts.Log,
		onCommit:      opts.OnCommit,
		lastCommitted: ws.Document(),
	}
	s.debouncer = NewDebouncer(opts.Delay, s.commit)
	return s
}

// LocalEdit applies a keystroke's worth of change
func (s *Syncer) LocalEdit(content string) {
	s.ws.SetDocument(content)

	if s.policy.sendsDocument() {
		// dropped sends are already logged by the sender
		_ = s.sender.Send(protocol.DocumentFrame{Content: content})
	}

	s.debouncer.Trigger()
}

// commit runs when typing pauses
func (s *Syncer) commit() {
	content := s.ws.Document()

	s.mu.Lock()
	if content == s.lastCommitted {
		s.mu.Unlock()
		return
	}
	s.lastCommitted = content
	s.mu.Unlock()

	edit := protocol.NewEdit(s.author, content, s.now())
	if s.policy.sendsEdit() {
		_ = s.sender.Send(edit)
	}

	snap := s.ws.RecordSnapshot(edit.Timestamp, edit.Author, edit.Content)
	s.log.Debug().Str("snapshot", snap.ID).Int("bytes", len(content)).Msg("[docsync] committed edit")

	if s.onCommit != nil {
		s.onCommit(snap)
	}
}

// ObserveRemote records content applied from a peer as the last committed
// value, so a later local edit back to an older commit is still sent.
func (s *Syncer) ObserveRemote(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCommitted = content
}

// Pending reports whether a debounced commit is scheduled
func (s *Syncer) Pending() bool {
	return s.debouncer.Pending()
}

// Policy returns the active sync policy
func (s *Syncer) Policy() Policy {
	return s.policy
}

// Close cancels the pending commit. No commit runs after Close returns.
func (s *Syncer) Close() {
	s.debouncer.Close()
}
