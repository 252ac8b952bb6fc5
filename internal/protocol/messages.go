// Package protocol defines the frame schema of the websocket session feed.
// Every frame carries a type tag so clients can decode without guessing.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/antoniostano/pomobot/internal/session"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeHello        MessageType = "hello"
	TypeSessionEvent MessageType = "session_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// Hello is the first frame on every connection. ActiveSessions lets clients
// render a count before the first transition arrives.
type Hello struct {
	Type           MessageType `json:"type"`
	ActiveSessions int         `json:"active_sessions"`
	SentAt         time.Time   `json:"sent_at"`
}

// SessionEvent wraps a store transition for the feed.
type SessionEvent struct {
	Type  MessageType   `json:"type"`
	Event session.Event `json:"event"`
}

func NewHello(active int, now time.Time) Hello {
	return Hello{Type: TypeHello, ActiveSessions: active, SentAt: now}
}

func NewSessionEvent(ev session.Event) SessionEvent {
	return SessionEvent{Type: TypeSessionEvent, Event: ev}
}

// Decode parses a raw frame into its typed form.
func Decode(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	switch env.Type {
	case TypeHello:
		var m Hello
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return m, nil
	case TypeSessionEvent:
		var m SessionEvent
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, env.Type)
	}
}
