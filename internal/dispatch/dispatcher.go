// Package dispatch applies decoded frames to the workspace.
package dispatch

import (
	"github.com/rs/zerolog"

	"github.com/yourusername/docchat/internal/protocol"
	"github.com/yourusername/docchat/internal/workspace"
)

// Outcome reports what a frame did to the workspace
type Outcome int

const (
	OutcomeIgnored Outcome = iota // unknown type, state untouched
	OutcomeLogged                 // informational frame, state untouched
	OutcomeChatAppended
	OutcomeChatReplaced
	OutcomeDocumentReplaced
	OutcomeEditApplied // document replaced and snapshot recorded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLogged:
		return "logged"
	case OutcomeChatAppended:
		return "chat_appended"
	case OutcomeChatReplaced:
		return "chat_replaced"
	case OutcomeDocumentReplaced:
		return "document_replaced"
	case OutcomeEditApplied:
		return "edit_applied"
	default:
		return "ignored"
	}
}

// ChangesChat reports whether the chat list was modified
func (o Outcome) ChangesChat() bool {
	return o == OutcomeChatAppended || o == OutcomeChatReplaced
}

// ChangesDocument reports whether the document buffer was modified
func (o Outcome) ChangesDocument() bool {
	return o == OutcomeDocumentReplaced || o == OutcomeEditApplied
}

// Dispatcher routes frames to the workspace
type Dispatcher struct {
	ws  *workspace.Workspace
	log zerolog.Logger
}

// New creates a dispatcher writing into ws
func New(ws *workspace.Workspace, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{ws: ws, log: log}
}

// Dispatch applies one frame. Last write wins: document and edit frames
// overwrite whatever the buffer held, local or remote.
func (d *Dispatcher) Dispatch(frame protocol.Frame) Outcome {
	switch f := frame.(type) {
	case protocol.ChatFrame:
		d.ws.AppendChat(workspace.ChatMessage{
			Author:    f.Author,
			Text:      f.Text,
			Timestamp: f.Timestamp,
		})
		return OutcomeChatAppended

	case protocol.DocumentFrame:
		d.ws.SetDocument(f.Content)
		return OutcomeDocumentReplaced

	case protocol.EditFrame:
		d.ws.ApplyRemoteEdit(f.Timestamp, f.Author, f.Content)
		return OutcomeEditApplied

	case protocol.ChatHistoryFrame:
		messages := make([]workspace.ChatMessage, len(f.Messages))
		for i, msg := range f.Messages {
			messages[i] = workspace.ChatMessage{
				Author:    msg.Author,
				Text:      msg.Text,
				Timestamp: msg.Timestamp,
			}
		}
		d.ws.ReplaceChat(messages)
		return OutcomeChatReplaced

	case protocol.NoticeFrame:
		ev := d.log.Info()
		if f.Kind == protocol.MsgError {
			ev = d.log.Warn()
		}
		ev.Str("type", string(f.Kind)).Str("author", f.Author).Msg("[dispatch] " + f.Body())
		return OutcomeLogged

	case protocol.LoginFrame:
		d.log.Info().Str("username", f.Username).Msg("[dispatch] login announced")
		return OutcomeLogged

	case protocol.UnknownFrame:
		d.log.Warn().Str("type", string(f.Type)).Msg("[dispatch] unknown type")
		return OutcomeIgnored

	default:
		d.log.Warn().Str("frame", frameName(frame)).Msg("[dispatch] unhandled frame")
		return OutcomeIgnored
	}
}

func frameName(f protocol.Frame) string {
	if f == nil {
		return "<nil>"
	}
	return string(f.FrameType())
}
