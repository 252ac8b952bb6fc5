package session

import (
	"context"
	"log"
	"time"

	"github.com/antoniostano/pomobot/internal/chat"
)

// Scheduler drives all time-based transitions. One instance runs one
// background goroutine that sleeps until the earliest deadline, wakes early
// when a nearer deadline is registered, and services due sessions one at a
// time.
type Scheduler struct {
	store *Store
}

// maxIdleWait bounds a single wait so a missed wake-up signal can only delay
// a transition, never stall the scheduler for good.
const maxIdleWait = time.Minute

// NewScheduler wires a scheduler to the store it services.
func NewScheduler(store *Store) *Scheduler {
	return &Scheduler{store: store}
}

// Run services deadlines until ctx is cancelled. Notifier failures are
// logged and never prevent a transition or re-arm from completing.
func (sc *Scheduler) Run(ctx context.Context, n chat.Notifier) {
	for {
		if ctx.Err() != nil {
			return
		}
		if s, ok := sc.store.popDue(); ok {
			sc.fire(ctx, n, s)
			continue
		}

		wait := maxIdleWait
		if due, ok := sc.store.nextDeadline(); ok {
			if d := due.Sub(sc.store.now()); d < wait {
				wait = d
			}
		}
		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-sc.store.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// fire applies the state transition for one due session. The scheduler holds
// the session exclusively: it is absent from the store until re-registered.
func (sc *Scheduler) fire(ctx context.Context, n chat.Notifier, s *Session) {
	from := s.state
	switch from {
	case StateWorkWaiting:
		if s.anchor.Chat.SupportsRoster {
			s.notifyStarted(ctx, n)
		}
		sc.store.resume(s, TriggerDeadline, from, func(s *Session) time.Duration {
			s.beginWork()
			return s.duration
		})
	case StateWorkRunning:
		if err := s.notifyWorkOver(ctx, n); err != nil {
			log.Printf("session %v: work-over notification failed: %v", s.Key(), err)
		}
		sc.store.resume(s, TriggerDeadline, from, func(s *Session) time.Duration {
			s.beginBreak(sc.store.breakDuration)
			return s.duration
		})
	case StateBreakWaiting:
		sc.store.resume(s, TriggerDeadline, from, func(s *Session) time.Duration {
			s.beginBreak(sc.store.breakDuration)
			return s.duration
		})
	case StateBreakRunning:
		if err := s.notifyBreakOver(ctx, n); err != nil {
			log.Printf("session %v: break-over notification failed: %v", s.Key(), err)
		}
		sc.store.finish(s, from)
	}
}
