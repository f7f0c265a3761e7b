package hub

import (
	"encoding/json"

	"messenger/backend/internal/conversation/domain"
)

// Frame types form a closed set; anything else is rejected with an error frame.
const (
	// client → server
	FrameRegister    = "register"
	FrameSendMessage = "sendMessage"
	// server → client
	FrameNewMessage  = "newMessage"
	FrameMessageSent = "messageSent"
	FrameError       = "error"
)

// Error codes carried in error frames.
const (
	ErrorUnauthorized     = "Unauthorized"
	ErrorEmptyMessage     = "EmptyMessage"
	ErrorUnknownFrameType = "UnknownFrameType"
	ErrorInternal         = "Internal"
)

// clientFrame is the decoded shape of any inbound frame. Type selects which
// of the remaining fields are meaningful.
type clientFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	To        string `json:"to,omitempty"`
	Text      string `json:"text,omitempty"`
}

// serverFrame is the shape of every outbound frame.
type serverFrame struct {
	Type    string          `json:"type"`
	Message *domain.Message `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func marshalFrame(f serverFrame) []byte {
	b, err := json.Marshal(f)
	if err != nil {
		// serverFrame has no unmarshalable fields; this cannot happen.
		return []byte(`{"type":"error","error":"Internal"}`)
	}
	return b
}

func messageFrame(frameType string, m *domain.Message) []byte {
	return marshalFrame(serverFrame{Type: frameType, Message: m})
}

func errorFrame(code string) []byte {
	return marshalFrame(serverFrame{Type: FrameError, Error: code})
}
