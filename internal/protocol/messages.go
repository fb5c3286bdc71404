package protocol //frames exchanged with the collaboration backend
// WebSocket frame types and payloads
import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MessageType is the `type` discriminator carried by every frame
type MessageType string

const (
	// Server -> Client
	MsgBroadcast   MessageType = "broadcast"
	MsgChatHistory MessageType = "chatHistory"
	MsgSystem      MessageType = "system"
	MsgError       MessageType = "error"

	// Both directions
	MsgMessage            MessageType = "message"
	MsgDocument           MessageType = "document"
	MsgEdit               MessageType = "edit"
	MsgSystemNotification MessageType = "systemNotification"

	// Client -> Server
	MsgLogin MessageType = "login"
)

// TimeLayout is the ISO-8601 layout used for outbound timestamps (UTC, millisecond precision)
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	ErrMissingType  = errors.New("frame has no type")
	ErrMissingField = errors.New("frame is missing a required field")
)

// Frame is one decoded WebSocket text message. The set of implementations is
// closed: only the types in this file satisfy it.
type Frame interface {
	FrameType() MessageType
	isFrame()
}

// ChatEntry is a chat line as it appears inside chatHistory frames
type ChatEntry struct {
	Author    string `json:"author"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// ChatFrame carries a single chat line. Kind is either MsgBroadcast (server
// fan-out) or MsgMessage (client send, also accepted inbound).
type ChatFrame struct {
	Kind      MessageType `json:"-"`
	Author    string      `json:"author"`
	Text      string      `json:"text"`
	Timestamp string      `json:"timestamp"`
}

func (f ChatFrame) FrameType() MessageType { return f.Kind }
func (ChatFrame) isFrame()                 {}

// DocumentFrame replaces the whole shared document
type DocumentFrame struct {
	Content string `json:"content"`
}

func (DocumentFrame) FrameType() MessageType { return MsgDocument }
func (DocumentFrame) isFrame()               {}

// EditFrame is an attributed, debounced document commit
type EditFrame struct {
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
}

func (EditFrame) FrameType() MessageType { return MsgEdit }
func (EditFrame) isFrame()               {}

// ChatHistoryFrame replaces the chat list wholesale
type ChatHistoryFrame struct {
	Messages []ChatEntry `json:"messages"`
}

func (ChatHistoryFrame) FrameType() MessageType { return MsgChatHistory }
func (ChatHistoryFrame) isFrame()               {}

// NoticeFrame covers system, error and systemNotification frames. None of
// them change client state.
type NoticeFrame struct {
	Kind      MessageType `json:"-"`
	Author    string      `json:"author,omitempty"`
	Text      string      `json:"text,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
}

func (f NoticeFrame) FrameType() MessageType { return f.Kind }
func (NoticeFrame) isFrame()                 {}

// Body returns whichever of Text or Message the sender filled in
func (f NoticeFrame) Body() string {
	if f.Text != "" {
		return f.Text
	}
	return f.Message
}

// LoginFrame announces the user on a fresh connection
type LoginFrame struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (LoginFrame) FrameType() MessageType { return MsgLogin }
func (LoginFrame) isFrame()               {}

// UnknownFrame is any well-formed frame whose type this client does not know
type UnknownFrame struct {
	Type MessageType
	Raw  json.RawMessage
}

func (f UnknownFrame) FrameType() MessageType { return f.Type }
func (UnknownFrame) isFrame()                 {}

//// CONSTRUCTORS ////

// FormatTime renders t in TimeLayout
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// NewChatMessage builds an outbound chat line
func NewChatMessage(author, text string, now time.Time) ChatFrame {
	return ChatFrame{Kind: MsgMessage, Author: author, Text: text, Timestamp: FormatTime(now)}
}

// NewEdit builds an outbound attributed edit
func NewEdit(author, content string, now time.Time) EditFrame {
	return EditFrame{Author: author, Timestamp: FormatTime(now), Content: content}
}

// NewSystemNotification builds an outbound notification
func NewSystemNotification(author, text string, now time.Time) NoticeFrame {
	return NoticeFrame{Kind: MsgSystemNotification, Author: author, Text: text, Timestamp: FormatTime(now)}
}

//// ENCODE / DECODE ////

// Encode serializes a frame as a flat JSON object with a type field
func Encode(f Frame) ([]byte, error) {
	switch f := f.(type) {
	case ChatFrame:
		if f.Kind == "" {
			f.Kind = MsgMessage
		}
		return json.Marshal(struct {
			Type MessageType `json:"type"`
			ChatFrame
		}{f.Kind, f})
	case NoticeFrame:
		if f.Kind == "" {
			return nil, ErrMissingType
		}
		return json.Marshal(struct {
			Type MessageType `json:"type"`
			NoticeFrame
		}{f.Kind, f})
	case DocumentFrame:
		return json.Marshal(struct {
			Type MessageType `json:"type"`
			DocumentFrame
		}{MsgDocument, f})
	case EditFrame:
		return json.Marshal(struct {
			Type MessageType `json:"type"`
			EditFrame
		}{MsgEdit, f})
	case ChatHistoryFrame:
		return json.Marshal(struct {
			Type MessageType `json:"type"`
			ChatHistoryFrame
		}{MsgChatHistory, f})
	case LoginFrame:
		return json.Marshal(struct {
			Type MessageType `json:"type"`
			LoginFrame
		}{MsgLogin, f})
	case UnknownFrame:
		if len(f.Raw) > 0 {
			return f.Raw, nil
		}
		return json.Marshal(struct {
			Type MessageType `json:"type"`
		}{f.Type})
	default:
		return nil, fmt.Errorf("encode frame: unsupported %T", f)
	}
}

// Decode parses one text frame. Malformed JSON and frames without a type
// return an error; frames with an unrecognized type come back as UnknownFrame.
func Decode(data []byte) (Frame, error) {
	var head struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	switch head.Type {
	case "":
		return nil, ErrMissingType

	case MsgBroadcast, MsgMessage:
		var f ChatFrame
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		f.Kind = head.Type
		if f.Author == "" || f.Text == "" {
			return nil, fmt.Errorf("decode %s: %w (author and text)", head.Type, ErrMissingField)
		}
		return f, nil

	case MsgDocument:
		var f DocumentFrame
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		return f, nil

	case MsgEdit:
		var f EditFrame
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode edit: %w", err)
		}
		return f, nil

	case MsgChatHistory:
		var f ChatHistoryFrame
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode chatHistory: %w", err)
		}
		return f, nil

	case MsgSystem, MsgError, MsgSystemNotification:
		var f NoticeFrame
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		f.Kind = head.Type
		return f, nil

	case MsgLogin:
		var f LoginFrame
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode login: %w", err)
		}
		return f, nil

	default:
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		return UnknownFrame{Type: head.Type, Raw: raw}, nil
	}
}
