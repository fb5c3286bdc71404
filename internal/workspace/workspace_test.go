package workspace

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChatIsInsertionOrdered(t *testing.T) {
	ws := New()
	ws.AppendChat(ChatMessage{Author: "a", Text: "1"})
	ws.AppendChat(ChatMessage{Author: "b", Text: "2"})

	chat := ws.Chat()
	require.Len(t, chat, 2)
	require.Equal(t, "1", chat[0].Text)
	require.Equal(t, "2", chat[1].Text)

	// callers get a copy
	chat[0].Text = "changed"
	require.Equal(t, "1", ws.Chat()[0].Text)
}

func TestReplaceChat(t *testing.T) {
	ws := New()
	ws.AppendChat(ChatMessage{Author: "a", Text: "old"})

	history := []ChatMessage{{Author: "x", Text: "h1"}, {Author: "y", Text: "h2"}}
	ws.ReplaceChat(history)
	history[0].Text = "mutated"

	chat := ws.Chat()
	require.Len(t, chat, 2)
	require.Equal(t, "h1", chat[0].Text)

	ws.ReplaceChat(nil)
	require.Equal(t, 0, ws.ChatLen())
}

func TestApplyRemoteEdit(t *testing.T) {
	ws := New()
	ws.SetDocument("local")

	snap := ws.ApplyRemoteEdit("T", "bo", "remote")
	require.NotEmpty(t, snap.ID)
	require.Equal(t, "remote", ws.Document())

	snaps := ws.Snapshots()
	require.Len(t, snaps, 1)
	require.Equal(t, Snapshot{ID: snap.ID, Timestamp: "T", Author: "bo", Content: "remote"}, snaps[0])
}

func TestConcurrentAccess(t *testing.T) {
	ws := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ws.AppendChat(ChatMessage{Author: "a", Text: "x"})
			ws.RecordSnapshot("T", "a", "doc")
		}()
		go func() {
			defer wg.Done()
			_ = ws.Chat()
			_ = ws.Document()
			_ = ws.Snapshots()
		}()
	}

	wg.Wait()
	require.Equal(t, 50, ws.ChatLen())
	require.Len(t, ws.Snapshots(), 50)
}
