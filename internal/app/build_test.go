package app

import (
	"context"
	"testing"
	"time"

	"github.com/antoniostano/pomobot/internal/chat"
	"github.com/antoniostano/pomobot/internal/history"
	"github.com/antoniostano/pomobot/internal/httpapi"
	"github.com/antoniostano/pomobot/internal/observability"
	"github.com/antoniostano/pomobot/internal/session"
)

// Instruments register on the default prometheus registry, so the package
// shares one set across tests.
var testMetrics = observability.NewMetrics("apptest")

// waitForRecords polls the archive until at least n records exist for the
// conversation; the hook writes them from a goroutine.
func waitForRecords(t *testing.T, archive history.Store, conv int64, n int) []history.Record {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		records, err := archive.RecentSessions(context.Background(), conv, 10)
		if err != nil {
			t.Fatalf("RecentSessions() error = %v", err)
		}
		if len(records) >= n {
			return records
		}
		if time.Now().After(deadline) {
			t.Fatalf("archive has %d records, want %d", len(records), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTransitionHookArchivesTerminalEvents(t *testing.T) {
	store := session.NewStore(0)
	archive := history.NewInMemoryStore()
	hub := httpapi.NewHub()

	hook := transitionHook(store, archive, hub, testMetrics)

	feed, cancel := hub.Subscribe()
	defer cancel()

	alice := chat.User{ID: 1, Username: "alice"}
	bob := chat.User{ID: 2, Username: "bob"}
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	// A non-terminal transition reaches the hub but never the archive.
	running := session.Event{
		Trigger: session.TriggerDeadline,
		Key:     session.Key{Conversation: 7, Message: 41},
		From:    session.StateWorkWaiting,
		To:      session.StateWorkRunning,
		Info: session.Info{
			Creator:      alice,
			Participants: []chat.User{alice},
			State:        session.StateWorkRunning,
			CreatedAt:    created,
		},
	}
	hook(running)

	select {
	case ev := <-feed:
		if ev.Key != running.Key || ev.To != session.StateWorkRunning {
			t.Fatalf("hub event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("hub never received the transition")
	}

	// The break running out is the completed case.
	completed := session.Event{
		Trigger:  session.TriggerDeadline,
		Key:      session.Key{Conversation: 7, Message: 42},
		From:     session.StateBreakRunning,
		Terminal: true,
		Info: session.Info{
			Creator:      alice,
			Participants: []chat.User{alice, bob},
			State:        session.StateBreakRunning,
			CreatedAt:    created,
		},
	}
	hook(completed)

	records := waitForRecords(t, archive, 7, 1)
	rec := records[0]
	if !rec.Completed {
		t.Fatalf("break deadline record Completed = false, want true")
	}
	if rec.ConversationID != 7 || rec.MessageID != 42 {
		t.Fatalf("record key = (%d, %d), want (7, 42)", rec.ConversationID, rec.MessageID)
	}
	if rec.Creator != "alice" || rec.Participants != 2 {
		t.Fatalf("record = %+v", rec)
	}
	if !rec.CreatedAt.Equal(created) {
		t.Fatalf("record CreatedAt = %v, want %v", rec.CreatedAt, created)
	}
	if rec.FinalState != string(session.StateBreakRunning) {
		t.Fatalf("record FinalState = %q", rec.FinalState)
	}
}

func TestTransitionHookRecordsAbandonedSessions(t *testing.T) {
	store := session.NewStore(0)
	archive := history.NewInMemoryStore()
	hub := httpapi.NewHub()

	hook := transitionHook(store, archive, hub, testMetrics)

	alice := chat.User{ID: 1, Username: "alice"}
	hook(session.Event{
		Trigger:  session.TriggerLeave,
		Key:      session.Key{Conversation: 9, Message: 5},
		From:     session.StateWorkRunning,
		Terminal: true,
		Info: session.Info{
			Creator:      alice,
			Participants: []chat.User{},
			State:        session.StateWorkRunning,
			CreatedAt:    time.Now().UTC(),
		},
	})

	records := waitForRecords(t, archive, 9, 1)
	if records[0].Completed {
		t.Fatalf("abandoned session recorded as completed")
	}
	if records[0].FinalState != string(session.StateWorkRunning) {
		t.Fatalf("record FinalState = %q", records[0].FinalState)
	}
}
