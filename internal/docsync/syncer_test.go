package docsync

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/docchat/internal/protocol"
	"github.com/yourusername/docchat/internal/workspace"
)

const testDelay = 40 * time.Millisecond

// recordingSender keeps every frame it is asked to send
type recordingSender struct {
	mu     sync.Mutex
	frames []protocol.Frame
}

func (r *recordingSender) Send(f protocol.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
	return nil
}

func (r *recordingSender) ofType(t protocol.MessageType) []protocol.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []protocol.Frame
	for _, f := range r.frames {
		if f.FrameType() == t {
			out = append(out, f)
		}
	}
	return out
}

func newTestSyncer(t *testing.T, policy Policy) (*Syncer, *workspace.Workspace, *recordingSender) {
	t.Helper()
	ws := workspace.New()
	sender := &recordingSender{}
	s := NewSyncer(ws, sender, Options{
		Author: "ana",
		Delay:  testDelay,
		Policy: policy,
		Log:    zerolog.Nop(),
	})
	t.Cleanup(s.Close)
	return s, ws, sender
}

func typeText(s *Syncer, text string) {
	for i := 1; i <= len(text); i++ {
		s.LocalEdit(text[:i])
	}
}

func TestLocalEchoAndDocumentFramePerKeystroke(t *testing.T) {
	s, ws, sender := newTestSyncer(t, PolicyDual)

	typeText(s, "abc")

	require.Equal(t, "abc", ws.Document())
	docs := sender.ofType(protocol.MsgDocument)
	require.Len(t, docs, 3)
	require.Equal(t, protocol.DocumentFrame{Content: "a"}, docs[0])
	require.Equal(t, protocol.DocumentFrame{Content: "abc"}, docs[2])
}

func TestContinuousTypingProducesNoEditUntilPause(t *testing.T) {
	s, ws, sender := newTestSyncer(t, PolicyDual)

	deadline := time.Now().Add(3 * testDelay)
	text := ""
	for time.Now().Before(deadline) {
		text += "x"
		s.LocalEdit(text)
		require.Empty(t, sender.ofType(protocol.MsgEdit))
		time.Sleep(testDelay / 8)
	}

	require.Eventually(t, func() bool { return len(sender.ofType(protocol.MsgEdit)) == 1 }, time.Second, 5*time.Millisecond)

	edit := sender.ofType(protocol.MsgEdit)[0].(protocol.EditFrame)
	require.Equal(t, "ana", edit.Author)
	require.Equal(t, text, edit.Content)
	_, err := time.Parse(protocol.TimeLayout, edit.Timestamp)
	require.NoError(t, err)

	snaps := ws.Snapshots()
	require.Len(t, snaps, 1)
	require.Equal(t, text, snaps[0].Content)
	require.Equal(t, edit.Timestamp, snaps[0].Timestamp)
}

func TestOneEditPerPause(t *testing.T) {
	s, ws, sender := newTestSyncer(t, PolicyDual)

	typeText(s, "hello")
	require.Eventually(t, func() bool { return len(sender.ofType(protocol.MsgEdit)) == 1 }, time.Second, 5*time.Millisecond)

	typeText(s, "hello world")
	require.Eventually(t, func() bool { return len(sender.ofType(protocol.MsgEdit)) == 2 }, time.Second, 5*time.Millisecond)

	require.Never(t, func() bool { return len(sender.ofType(protocol.MsgEdit)) > 2 }, 3*testDelay, 10*time.Millisecond)
	require.Len(t, ws.Snapshots(), 2)
}

func TestUnchangedContentIsNotCommittedTwice(t *testing.T) {
	s, ws, sender := newTestSyncer(t, PolicyDual)

	s.LocalEdit("same")
	require.Eventually(t, func() bool { return len(ws.Snapshots()) == 1 }, time.Second, 5*time.Millisecond)

	// typing and deleting back to the committed value
	s.LocalEdit("samex")
	s.LocalEdit("same")
	require.Never(t, func() bool { return len(ws.Snapshots()) > 1 }, 3*testDelay, 10*time.Millisecond)
	require.Len(t, sender.ofType(protocol.MsgEdit), 1)
}

func TestPolicies(t *testing.T) {
	t.Run("document only", func(t *testing.T) {
		s, ws, sender := newTestSyncer(t, PolicyDocument)
		typeText(s, "ab")
		require.Eventually(t, func() bool { return len(ws.Snapshots()) == 1 }, time.Second, 5*time.Millisecond)
		require.Len(t, sender.ofType(protocol.MsgDocument), 2)
		require.Empty(t, sender.ofType(protocol.MsgEdit))
	})

	t.Run("edit only", func(t *testing.T) {
		s, _, sender := newTestSyncer(t, PolicyEdit)
		typeText(s, "ab")
		require.Eventually(t, func() bool { return len(sender.ofType(protocol.MsgEdit)) == 1 }, time.Second, 5*time.Millisecond)
		require.Empty(t, sender.ofType(protocol.MsgDocument))
	})
}

func TestCloseCancelsPendingCommit(t *testing.T) {
	ws := workspace.New()
	sender := &recordingSender{}
	var commits atomic.Int32
	s := NewSyncer(ws, sender, Options{
		Author:   "ana",
		Delay:    testDelay,
		OnCommit: func(workspace.Snapshot) { commits.Add(1) },
		Log:      zerolog.Nop(),
	})

	s.LocalEdit("draft")
	require.True(t, s.Pending())
	s.Close()
	require.False(t, s.Pending())

	// edits after teardown are echoed but never committed
	s.LocalEdit("after close")

	time.Sleep(3 * testDelay)
	require.Zero(t, commits.Load())
	require.Empty(t, sender.ofType(protocol.MsgEdit))
	require.Empty(t, ws.Snapshots())
}

func TestOnCommitReceivesSnapshot(t *testing.T) {
	ws := workspace.New()
	got := make(chan workspace.Snapshot, 1)
	s := NewSyncer(ws, &recordingSender{}, Options{
		Author:   "bo",
		Delay:    testDelay,
		OnCommit: func(snap workspace.Snapshot) { got <- snap },
		Now:      func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) },
		Log:      zerolog.Nop(),
	})
	defer s.Close()

	s.LocalEdit("text")

	select {
	case snap := <-got:
		require.Equal(t, "bo", snap.Author)
		require.Equal(t, "2024-05-01T08:00:00.000Z", snap.Timestamp)
		require.Equal(t, "text", snap.Content)
	case <-time.After(time.Second):
		t.Fatal("commit callback not called")
	}
}

func TestRevertAfterRemoteEditIsCommitted(t *testing.T) {
	for _, policy := range []Policy{PolicyDual, PolicyEdit} {
		t.Run(string(policy), func(t *testing.T) {
			s, ws, sender := newTestSyncer(t, policy)

			s.LocalEdit("abc")
			require.Eventually(t, func() bool {
				return len(sender.ofType(protocol.MsgEdit)) == 1
			}, time.Second, 5*time.Millisecond)

			// a peer's edit lands through the dispatcher
			ws.ApplyRemoteEdit("2024-01-01T00:00:00.000Z", "bo", "xyz")
			s.ObserveRemote("xyz")

			s.LocalEdit("abc")
			require.Eventually(t, func() bool {
				return len(sender.ofType(protocol.MsgEdit)) == 2
			}, time.Second, 5*time.Millisecond)

			edits := sender.ofType(protocol.MsgEdit)
			require.Equal(t, "abc", edits[1].(protocol.EditFrame).Content)
			require.Len(t, ws.Snapshots(), 3)
		})
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	require.Equal(t, PolicyDual, p)

	p, err = ParsePolicy("edit")
	require.NoError(t, err)
	require.Equal(t, PolicyEdit, p)

	_, err = ParsePolicy("crdt")
	require.Error(t, err)
}
