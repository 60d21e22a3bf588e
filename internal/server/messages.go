package server

import "encoding/json"

// ClientMessage is the envelope for client-to-server websocket messages.
type ClientMessage struct {
	Type string          `json:"type"` // "action", "ping"
	ID   string          `json:"id"`   // client-assigned request ID
	Data json.RawMessage `json:"data,omitempty"`
}

// ServerMessage is the envelope for server-to-client websocket messages.
type ServerMessage struct {
	Type      string `json:"type"` // "session", "state", "ack", "error", "pong"
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// SessionData is sent once after the upgrade.
type SessionData struct {
	SubscriberID string `json:"subscriber_id"`
}

// ErrorData carries a rejected request.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
