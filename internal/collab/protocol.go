package collab

import (
	"encoding/json"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/editor"
	"github.com/mickcarey/canva/internal/session"
)

type Message struct {
	Type     string          `json:"type"`
	DesignID string          `json:"designId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   []string   `json:"selection,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
	Color       string     `json:"color,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

// WelcomePayload gives a joining client everything it needs to render.
type WelcomePayload struct {
	ClientID string            `json:"clientId"`
	UserID   string            `json:"userId"`
	Color    string            `json:"color"`
	Commands []string          `json:"commands"`
	State    editor.State      `json:"state"`
	Document document.Snapshot `json:"document"`
}

// CommandSubmitPayload is the payload for cmd.submit messages. ID is chosen
// by the client and echoed in the ack or nack.
type CommandSubmitPayload struct {
	ID      string          `json:"id"`
	Command session.Command `json:"command"`
}

type CommandAckPayload struct {
	ID      string `json:"id"`
	Seq     int64  `json:"seq"`
	Changed bool   `json:"changed"`
	Data    any    `json:"data,omitempty"`
}

type CommandNackPayload struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// StatePayload is broadcast after every accepted command. Document is only
// set when the command changed it.
type StatePayload struct {
	UserID   string             `json:"userId"`
	State    editor.State       `json:"state"`
	Document *document.Snapshot `json:"document,omitempty"`
}

type NoticePayload struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Editor commands
	TypeCmdSubmit = "cmd.submit"
	TypeCmdAck    = "cmd.ack"
	TypeCmdNack   = "cmd.nack"
	TypeState     = "state"
	TypeNotice    = "notice"
)

func newMessage(typ string, payload any) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: typ, Payload: data}
}
