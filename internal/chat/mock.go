package chat

import (
	"context"
	"errors"
	"sync"
)

// Call records one Notifier invocation on a Recorder.
type Call struct {
	Op        string // "send", "edit", "delete"
	Conv      Conversation
	MessageID MessageID
	Text      string
	Keyboard  Keyboard
}

// Recorder is an in-memory Notifier for tests and local runs without a chat
// backend. Message IDs are handed out sequentially per recorder.
type Recorder struct {
	mu     sync.Mutex
	nextID MessageID
	calls  []Call

	FailSend   bool
	FailEdit   bool
	FailDelete bool
}

var errRecorderFailure = errors.New("recorder: forced failure")

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) SendMessage(_ context.Context, conv Conversation, text string, kb Keyboard) (Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailSend {
		return Message{}, errRecorderFailure
	}
	r.nextID++
	msg := Message{ID: r.nextID, Chat: conv, Text: text}
	r.calls = append(r.calls, Call{Op: "send", Conv: conv, MessageID: msg.ID, Text: text, Keyboard: kb})
	return msg, nil
}

func (r *Recorder) EditMessageText(_ context.Context, conv Conversation, id MessageID, text string, kb Keyboard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailEdit {
		return errRecorderFailure
	}
	r.calls = append(r.calls, Call{Op: "edit", Conv: conv, MessageID: id, Text: text, Keyboard: kb})
	return nil
}

func (r *Recorder) DeleteMessage(_ context.Context, conv Conversation, id MessageID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailDelete {
		return errRecorderFailure
	}
	r.calls = append(r.calls, Call{Op: "delete", Conv: conv, MessageID: id})
	return nil
}

// Calls returns a copy of all recorded invocations.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsOf returns the recorded invocations of one operation.
func (r *Recorder) CallsOf(op string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}
