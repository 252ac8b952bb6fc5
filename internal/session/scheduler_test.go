package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/antoniostano/pomobot/internal/chat"
)

func TestSchedulerGroupLifecycle(t *testing.T) {
	st := NewStore(0)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	var events []Event
	st.SetTransitionHook(func(ev Event) { events = append(events, ev) })

	sc := NewScheduler(st)
	n := chat.NewRecorder()
	ctx := context.Background()

	start := now.Add(10 * time.Minute)
	if err := st.Register(NewWork(anchorIn(group, 1), alice, start, 0)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, ok := st.popDue(); ok {
		t.Fatalf("nothing should be due before the start time")
	}

	// Start time passes: the session begins running for the full work
	// duration from the transition time.
	now = start.Add(time.Second)
	s, ok := st.popDue()
	if !ok {
		t.Fatalf("session should be due after its start time")
	}
	sc.fire(ctx, n, s)

	info := st.Snapshot()[0]
	if info.State != StateWorkRunning {
		t.Fatalf("state = %q, want %q", info.State, StateWorkRunning)
	}
	if want := now.Add(DefaultWorkDuration); !info.Deadline.Equal(want) {
		t.Fatalf("deadline = %v, want %v", info.Deadline, want)
	}

	// Work phase ends: the session converts to a running break.
	now = now.Add(DefaultWorkDuration + time.Second)
	s, ok = st.popDue()
	if !ok {
		t.Fatalf("session should be due after the work duration")
	}
	sc.fire(ctx, n, s)

	info = st.Snapshot()[0]
	if info.State != StateBreakRunning {
		t.Fatalf("state = %q, want %q", info.State, StateBreakRunning)
	}
	if info.DurationMS != DefaultBreakDuration.Milliseconds() {
		t.Fatalf("duration = %dms, want %dms", info.DurationMS, DefaultBreakDuration.Milliseconds())
	}
	if want := now.Add(DefaultBreakDuration); !info.Deadline.Equal(want) {
		t.Fatalf("deadline = %v, want %v", info.Deadline, want)
	}

	// Break ends: terminal, session removed, "break over" announced.
	now = now.Add(DefaultBreakDuration + time.Second)
	s, ok = st.popDue()
	if !ok {
		t.Fatalf("session should be due after the break duration")
	}
	sc.fire(ctx, n, s)

	if st.Count() != 0 {
		t.Fatalf("Count() = %d, want 0 after terminal transition", st.Count())
	}
	sends := n.CallsOf("send")
	if len(sends) == 0 || !strings.Contains(sends[len(sends)-1].Text, "Break is over!") {
		t.Fatalf("missing break-over notification, sends = %+v", sends)
	}

	last := events[len(events)-1]
	if !last.Terminal || last.From != StateBreakRunning || last.Trigger != TriggerDeadline {
		t.Fatalf("terminal event = %+v", last)
	}
	assertConsistent(t, st)
}

func TestDirectBreakAdvancesOnNextPass(t *testing.T) {
	st := NewStore(0)
	sc := NewScheduler(st)
	n := chat.NewRecorder()

	// A direct break starts at its creation time, so it is due immediately
	// and the scheduler sets it running on the very next pass.
	if err := st.Register(NewBreak(anchorIn(private, 1), alice, 0)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	s, ok := st.popDue()
	if !ok {
		t.Fatalf("direct break should be due immediately")
	}
	if s.State() != StateBreakWaiting {
		t.Fatalf("state = %q, want %q", s.State(), StateBreakWaiting)
	}
	sc.fire(context.Background(), n, s)

	info := st.Snapshot()[0]
	if info.State != StateBreakRunning {
		t.Fatalf("state = %q, want %q", info.State, StateBreakRunning)
	}
	// The waiting -> running hop is silent; the bot announced the break at
	// creation time.
	if len(n.Calls()) != 0 {
		t.Fatalf("unexpected notifier calls: %+v", n.Calls())
	}
}

func TestNotifierFailureDoesNotStallSession(t *testing.T) {
	st := NewStore(0)
	sc := NewScheduler(st)
	n := chat.NewRecorder()
	n.FailSend = true
	n.FailDelete = true

	s := NewWork(anchorIn(group, 1), alice, time.Now().UTC(), 0)
	s.beginWork()
	if err := st.Register(s); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	popped, ok := st.popDue()
	if !ok {
		t.Fatalf("session should be due")
	}
	sc.fire(context.Background(), n, popped)

	info := st.Snapshot()[0]
	if info.State != StateBreakRunning {
		t.Fatalf("state = %q, want %q despite notifier failure", info.State, StateBreakRunning)
	}
	assertConsistent(t, st)
}

func TestRunWakesOnNewNearerDeadline(t *testing.T) {
	st := NewStore(25 * time.Millisecond)
	sc := NewScheduler(st)
	n := chat.NewRecorder()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sc.Run(ctx, n)

	// The scheduler is idle on an empty store; registering must wake it
	// without waiting out the idle timer.
	time.Sleep(10 * time.Millisecond)
	s := NewWork(anchorIn(private, 1), alice, time.Now().UTC().Add(20*time.Millisecond), 30*time.Millisecond)
	if err := st.Register(s); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for st.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session did not complete its lifecycle, snapshot = %+v", st.Snapshot())
		}
		time.Sleep(5 * time.Millisecond)
	}

	// One-to-one breaks end with the continue prompt.
	sends := n.CallsOf("send")
	found := false
	for _, c := range sends {
		if strings.Contains(c.Text, "Do you want to continue?") && len(c.Keyboard) > 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing continue prompt, sends = %+v", sends)
	}
}
