package realtime

import (
	"encoding/json"
)

// Frame is the wire shape for every message in both directions. Client
// requests carry an ackId that the matching ack frame echoes back.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
	AckID   int64           `json:"ackId,omitempty"`
}

// Ack is the uniform response envelope. Callers check Success, never the
// payload shape.
type Ack struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Error codes carried in Ack.Error.
const (
	ErrCodeValidation   = "VALIDATION"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL"
)

func OkAck(message string, data interface{}) Ack {
	return Ack{Success: true, Message: message, Data: data}
}

func ErrAck(code string, message string) Ack {
	return Ack{Success: false, Message: message, Error: code}
}

// Broadcast is one room-wide fan-out instruction produced by a mutation
// handler. The handler never touches the hub directly, which keeps it
// testable without a live transport.
type Broadcast struct {
	Room    string
	Event   string
	Payload interface{}
}
