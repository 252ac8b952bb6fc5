package protocol

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/antoniostano/pomobot/internal/session"
)

func TestDecodeRoundTrip(t *testing.T) {
	ev := session.Event{
		Trigger: session.TriggerDeadline,
		Key:     session.Key{Conversation: 7, Message: 42},
		From:    session.StateWorkRunning,
		To:      session.StateBreakRunning,
	}
	raw, err := json.Marshal(NewSessionEvent(ev))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	got, ok := decoded.(SessionEvent)
	if !ok {
		t.Fatalf("Decode() type = %T", decoded)
	}
	if got.Event.Key != ev.Key || got.Event.To != ev.To {
		t.Fatalf("event = %+v, want %+v", got.Event, ev)
	}
}

func TestDecodeHello(t *testing.T) {
	raw, err := json.Marshal(NewHello(3, time.Unix(100, 0).UTC()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	hello, ok := decoded.(Hello)
	if !ok || hello.ActiveSessions != 3 {
		t.Fatalf("Decode() = %#v", decoded)
	}
}

func TestDecodeUnsupportedType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"bogus"}`))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("Decode() error = %v, want ErrUnsupportedType", err)
	}
}
