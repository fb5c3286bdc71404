package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/docchat/internal/testbackend"
	"github.com/yourusername/docchat/internal/workspace"
)

func TestParseChat(t *testing.T) {
	raw := "[10:00] ana: hola\n" +
		"garbage line\n" +
		"[10:01] bo: time is 10:02: late\r\n" +
		"\n" +
		"[] system: ana joined"

	got := ParseChat(raw)
	require.Equal(t, []workspace.ChatMessage{
		{Timestamp: "10:00", Author: "ana", Text: "hola"},
		{Timestamp: "10:01", Author: "bo", Text: "time is 10:02: late"},
		{Timestamp: "", Author: "system", Text: "ana joined"},
	}, got)
}

func TestParseChatEmpty(t *testing.T) {
	require.Empty(t, ParseChat(""))
}

func TestFetchChatAndDocument(t *testing.T) {
	backend := testbackend.New()
	defer backend.Close()
	backend.AddChat("ana", "hola", "10:00")
	backend.AddChat("bo", "que tal", "10:01")
	backend.SetDocument("line one\nline two")

	c := NewClient(backend.URL()+"/", zerolog.Nop())

	chat, err := c.FetchChat(context.Background())
	require.NoError(t, err)
	require.Len(t, chat, 2)
	require.Equal(t, "bo", chat[1].Author)

	doc, err := c.FetchDocument(context.Background())
	require.NoError(t, err)
	require.Equal(t, "line one\nline two", doc)
}

func TestFetchChatServerError(t *testing.T) {
	backend := testbackend.New()
	defer backend.Close()
	backend.SetChatStatus(http.StatusServiceUnavailable)

	c := NewClient(backend.URL(), zerolog.Nop())
	_, err := c.FetchChat(context.Background())
	require.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestLogin(t *testing.T) {
	backend := testbackend.New()
	defer backend.Close()

	c := NewClient(backend.URL(), zerolog.Nop())
	resp, err := c.Login(context.Background(), LoginRequest{Username: "ana", Email: "ana@example.com"})
	require.NoError(t, err)
	require.Equal(t, true, resp["ok"])

	logins := backend.Logins()
	require.Len(t, logins, 1)
	require.Equal(t, "ana@example.com", logins[0].Email)
}

func TestLoginRejected(t *testing.T) {
	backend := testbackend.New()
	defer backend.Close()
	backend.SetLoginStatus(http.StatusUnauthorized)

	c := NewClient(backend.URL(), zerolog.Nop())
	_, err := c.Login(context.Background(), LoginRequest{Username: "ana"})
	require.ErrorIs(t, err, ErrUnexpectedStatus)
}
