package dispatch

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/docchat/internal/protocol"
	"github.com/yourusername/docchat/internal/workspace"
)

func newTestDispatcher() (*Dispatcher, *workspace.Workspace) {
	ws := workspace.New()
	return New(ws, zerolog.Nop()), ws
}

func decode(t *testing.T, raw string) protocol.Frame {
	t.Helper()
	f, err := protocol.Decode([]byte(raw))
	require.NoError(t, err)
	return f
}

func TestBroadcastAppendsExactlyOne(t *testing.T) {
	d, ws := newTestDispatcher()
	ws.AppendChat(workspace.ChatMessage{Author: "first", Text: "x", Timestamp: "t0"})

	out := d.Dispatch(decode(t, `{"type":"broadcast","author":"ana","text":"hola","timestamp":"t1"}`))
	require.Equal(t, OutcomeChatAppended, out)

	chat := ws.Chat()
	require.Len(t, chat, 2)
	require.Equal(t, workspace.ChatMessage{Author: "ana", Text: "hola", Timestamp: "t1"}, chat[1])
}

func TestMessageTypeAlsoAppends(t *testing.T) {
	d, ws := newTestDispatcher()
	d.Dispatch(decode(t, `{"type":"message","author":"bo","text":"hey","timestamp":"t"}`))
	require.Equal(t, 1, ws.ChatLen())
}

func TestDocumentReplacesBuffer(t *testing.T) {
	d, ws := newTestDispatcher()
	ws.SetDocument("typed locally")

	out := d.Dispatch(decode(t, `{"type":"document","content":"from server"}`))
	require.Equal(t, OutcomeDocumentReplaced, out)
	require.Equal(t, "from server", ws.Document())
	require.Empty(t, ws.Snapshots())

	d.Dispatch(decode(t, `{"type":"document","content":""}`))
	require.Equal(t, "", ws.Document())
}

func TestEditReplacesAndSnapshots(t *testing.T) {
	d, ws := newTestDispatcher()
	ws.RecordSnapshot("t0", "me", "older")

	out := d.Dispatch(decode(t, `{"type":"edit","author":"bo","timestamp":"2024-01-01T00:00:00.000Z","content":"C"}`))
	require.Equal(t, OutcomeEditApplied, out)
	require.True(t, out.ChangesDocument())
	require.Equal(t, "C", ws.Document())

	snaps := ws.Snapshots()
	require.Len(t, snaps, 2)
	last := snaps[1]
	require.Equal(t, "2024-01-01T00:00:00.000Z", last.Timestamp)
	require.Equal(t, "bo", last.Author)
	require.Equal(t, "C", last.Content)
}

func TestChatHistoryReplacesWholesale(t *testing.T) {
	d, ws := newTestDispatcher()
	ws.AppendChat(workspace.ChatMessage{Author: "old", Text: "gone"})

	out := d.Dispatch(decode(t, `{"type":"chatHistory","messages":[{"author":"a","text":"1","timestamp":"t1"},{"author":"b","text":"2","timestamp":"t2"}]}`))
	require.Equal(t, OutcomeChatReplaced, out)

	chat := ws.Chat()
	require.Len(t, chat, 2)
	require.Equal(t, "a", chat[0].Author)
	require.Equal(t, "b", chat[1].Author)
}

func TestInformationalFramesLeaveStateUntouched(t *testing.T) {
	for _, raw := range []string{
		`{"type":"system","text":"maintenance"}`,
		`{"type":"error","message":"bad frame"}`,
		`{"type":"systemNotification","author":"ana","text":"ana joined the chat"}`,
		`{"type":"login","username":"ana","email":"a@b.c"}`,
	} {
		d, ws := newTestDispatcher()
		ws.SetDocument("doc")
		ws.AppendChat(workspace.ChatMessage{Author: "a", Text: "b"})

		out := d.Dispatch(decode(t, raw))
		require.Equal(t, OutcomeLogged, out, raw)
		require.Equal(t, "doc", ws.Document())
		require.Equal(t, 1, ws.ChatLen())
		require.Empty(t, ws.Snapshots())
	}
}

func TestUnknownTypeLeavesStateUntouched(t *testing.T) {
	d, ws := newTestDispatcher()
	ws.SetDocument("doc")
	ws.AppendChat(workspace.ChatMessage{Author: "a", Text: "b"})
	ws.RecordSnapshot("t", "a", "doc")

	out := d.Dispatch(decode(t, `{"type":"cursorMoved","content":"evil","author":"x","text":"y"}`))
	require.Equal(t, OutcomeIgnored, out)
	require.False(t, out.ChangesChat())
	require.False(t, out.ChangesDocument())

	require.Equal(t, "doc", ws.Document())
	require.Equal(t, 1, ws.ChatLen())
	require.Len(t, ws.Snapshots(), 1)
}

func TestNilFrameIgnored(t *testing.T) {
	d, _ := newTestDispatcher()
	require.Equal(t, OutcomeIgnored, d.Dispatch(nil))
}
