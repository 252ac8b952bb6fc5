package session

import (
	"container/heap"
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/antoniostano/pomobot/internal/chat"
)

// Event triggers, reported through the transition hook.
const (
	TriggerRegister = "register"
	TriggerDeadline = "deadline"
	TriggerStartNow = "start_now"
	TriggerLeave    = "leave"
)

// Event describes a session entering, changing state inside, or leaving the
// store.
type Event struct {
	Trigger  string `json:"trigger"`
	Key      Key    `json:"key"`
	From     State  `json:"from,omitempty"`
	To       State  `json:"to,omitempty"`
	Terminal bool   `json:"terminal"`
	Info     Info   `json:"info"`
}

// Info is a point-in-time snapshot of a registered session.
type Info struct {
	Key          Key               `json:"key"`
	State        State             `json:"state"`
	Conversation chat.Conversation `json:"conversation"`
	Creator      chat.User         `json:"creator"`
	Participants []chat.User       `json:"participants"`
	CreatedAt    time.Time         `json:"created_at"`
	StartAt      time.Time         `json:"start_at"`
	DurationMS   int64             `json:"duration_ms"`
	Deadline     time.Time         `json:"deadline,omitempty"`
}

// LeaveOutcome reports what a Leave call did.
type LeaveOutcome struct {
	Key          Key
	Anchor       chat.Message
	Participants []chat.User // remaining participants, empty when deleted
	Deleted      bool
	NewOwner     *chat.User // set when ownership transferred
}

type entry struct {
	session *Session
	item    *queueItem
}

// Store is the shared session registry: a keyed map of sessions paired with a
// deadline min-heap, guarded by a single mutex so no caller can ever observe
// a key present in one structure but not the other.
type Store struct {
	mu      sync.Mutex
	entries map[Key]*entry
	queue   deadlineQueue

	// wake is signalled whenever an insert may move the earliest deadline;
	// the scheduler blocks on it between due keys.
	wake chan struct{}

	breakDuration time.Duration
	now           func() time.Time
	hook          func(Event)
}

// NewStore creates an empty store. A zero breakDuration falls back to
// DefaultBreakDuration.
func NewStore(breakDuration time.Duration) *Store {
	if breakDuration <= 0 {
		breakDuration = DefaultBreakDuration
	}
	return &Store{
		entries:       make(map[Key]*entry),
		wake:          make(chan struct{}, 1),
		breakDuration: breakDuration,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SetTransitionHook installs a callback fired after every registration, state
// transition, and removal. The hook runs outside the store's critical section
// and must not block for long; slow consumers should hand off.
func (st *Store) SetTransitionHook(hook func(Event)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.hook = hook
}

// Register inserts a new session keyed by its anchor message, with a pending
// deadline equal to its start time.
func (st *Store) Register(s *Session) error {
	key := s.Key()

	st.mu.Lock()
	if _, ok := st.entries[key]; ok {
		st.mu.Unlock()
		return ErrAlreadyExists
	}
	st.insertLocked(key, s, s.startTime)
	ev := Event{Trigger: TriggerRegister, Key: key, To: s.state, Info: st.infoLocked(key)}
	hook := st.hook
	st.mu.Unlock()

	if hook != nil {
		hook(ev)
	}
	return nil
}

// StartNow performs the creator-only early start of a waiting work session:
// the session is taken out of the store, participants are notified, and it is
// re-armed to run for its full work duration from now.
func (st *Store) StartNow(ctx context.Context, n chat.Notifier, key Key, user chat.User) error {
	st.mu.Lock()
	e, ok := st.entries[key]
	if !ok {
		st.mu.Unlock()
		return ErrNotFound
	}
	if e.session.creator.ID != user.ID {
		st.mu.Unlock()
		return ErrNotOwner
	}
	if e.session.state != StateWorkWaiting {
		st.mu.Unlock()
		return ErrNoEligibleSession
	}
	s := st.detachLocked(key)
	st.mu.Unlock()

	// The session is now invisible to every other caller; notify before
	// re-registering so no lock is held across the chat round-trip.
	s.notifyStarted(ctx, n)
	st.resume(s, TriggerStartNow, StateWorkWaiting, func(s *Session) time.Duration {
		s.beginWork()
		return s.duration
	})
	return nil
}

// Join adds the user to the most recently created session of the
// conversation that is still waiting to start. It returns the session's
// anchor message and the updated roster.
func (st *Store) Join(conv chat.ConversationID, user chat.User) (chat.Message, []chat.User, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	var target *entry
	for key, e := range st.entries {
		if key.Conversation != conv || e.session.state != StateWorkWaiting {
			continue
		}
		if target == nil || key.Message > target.session.Key().Message {
			target = e
		}
	}
	if target == nil {
		return chat.Message{}, nil, ErrNoEligibleSession
	}
	if !target.session.addParticipant(user) {
		return chat.Message{}, nil, ErrAlreadyJoined
	}
	return target.session.anchor, target.session.Participants(), nil
}

// AddParticipant adds the user to the session anchored at key, regardless of
// state. Used by the Join button, which targets one specific message.
func (st *Store) AddParticipant(key Key, user chat.User) (chat.Message, []chat.User, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.entries[key]
	if !ok {
		return chat.Message{}, nil, ErrNotFound
	}
	if !e.session.addParticipant(user) {
		return chat.Message{}, nil, ErrAlreadyJoined
	}
	return e.session.anchor, e.session.Participants(), nil
}

// Leave removes the user from the newest session of the conversation they
// participate in, in any lifecycle state. Removing the last participant
// deletes the session and its anchor message; anchor deletion is best-effort
// and only logged.
func (st *Store) Leave(ctx context.Context, n chat.Notifier, conv chat.ConversationID, user chat.User) (LeaveOutcome, error) {
	st.mu.Lock()

	keys := make([]Key, 0, 4)
	for key := range st.entries {
		if key.Conversation == conv {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Message > keys[j].Message })

	var e *entry
	var key Key
	for _, k := range keys {
		if st.entries[k].session.hasParticipant(user.ID) {
			e, key = st.entries[k], k
			break
		}
	}
	if e == nil {
		st.mu.Unlock()
		return LeaveOutcome{}, ErrNotSubscribed
	}

	s := e.session
	wasCreator := s.creator.ID == user.ID
	s.removeParticipant(user.ID)

	out := LeaveOutcome{
		Key:          key,
		Anchor:       s.anchor,
		Participants: s.Participants(),
	}
	if wasCreator && len(s.participants) > 0 {
		owner := s.creator
		out.NewOwner = &owner
	}

	var ev Event
	hook := st.hook
	if len(s.participants) == 0 {
		st.detachLocked(key)
		out.Deleted = true
		ev = Event{Trigger: TriggerLeave, Key: key, From: s.state, Terminal: true, Info: snapshot(s, time.Time{})}
	}
	st.mu.Unlock()

	if out.Deleted {
		if err := n.DeleteMessage(ctx, s.anchor.Chat, s.anchor.ID); err != nil {
			log.Printf("session %v: delete anchor failed: %v", key, err)
		}
		if hook != nil {
			hook(ev)
		}
	}
	return out, nil
}

// Snapshot returns point-in-time info for every registered session, ordered
// by deadline.
func (st *Store) Snapshot() []Info {
	st.mu.Lock()
	defer st.mu.Unlock()

	out := make([]Info, 0, len(st.entries))
	for key := range st.entries {
		out = append(out, st.infoLocked(key))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deadline.Before(out[j].Deadline) })
	return out
}

// Count returns the number of registered sessions.
func (st *Store) Count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}

// popDue removes and returns the session with the earliest deadline if that
// deadline has passed. The caller takes exclusive possession: the key is
// gone from both structures until the session is re-registered or dropped.
func (st *Store) popDue() (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if len(st.queue) == 0 || st.queue[0].due.After(st.now()) {
		return nil, false
	}
	item := heap.Pop(&st.queue).(*queueItem)
	e := st.entries[item.key]
	delete(st.entries, item.key)
	return e.session, true
}

// nextDeadline returns the earliest pending deadline, if any.
func (st *Store) nextDeadline() (time.Time, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.queue) == 0 {
		return time.Time{}, false
	}
	return st.queue[0].due, true
}

// resume re-registers a session the caller holds exclusively, applying the
// state change under the lock. advance mutates the session and returns the
// length of the next phase; the new deadline is strictly later than the one
// just consumed because phase durations are positive.
func (st *Store) resume(s *Session, trigger string, from State, advance func(*Session) time.Duration) {
	st.mu.Lock()
	d := advance(s)
	key := s.Key()
	st.insertLocked(key, s, st.now().Add(d))
	ev := Event{Trigger: trigger, Key: key, From: from, To: s.state, Info: st.infoLocked(key)}
	hook := st.hook
	st.mu.Unlock()

	if hook != nil {
		hook(ev)
	}
}

// finish drops a session after its terminal transition.
func (st *Store) finish(s *Session, from State) {
	st.mu.Lock()
	hook := st.hook
	st.mu.Unlock()

	if hook != nil {
		hook(Event{
			Trigger:  TriggerDeadline,
			Key:      s.Key(),
			From:     from,
			Terminal: true,
			Info:     snapshot(s, time.Time{}),
		})
	}
}

func (st *Store) insertLocked(key Key, s *Session, due time.Time) {
	item := &queueItem{key: key, due: due}
	heap.Push(&st.queue, item)
	st.entries[key] = &entry{session: s, item: item}
	select {
	case st.wake <- struct{}{}:
	default:
	}
}

// detachLocked removes the key from both structures and returns the session.
func (st *Store) detachLocked(key Key) *Session {
	e := st.entries[key]
	delete(st.entries, key)
	heap.Remove(&st.queue, e.item.index)
	return e.session
}

func (st *Store) infoLocked(key Key) Info {
	e := st.entries[key]
	return snapshot(e.session, e.item.due)
}

func snapshot(s *Session, due time.Time) Info {
	return Info{
		Key:          s.Key(),
		State:        s.state,
		Conversation: s.anchor.Chat,
		Creator:      s.creator,
		Participants: s.Participants(),
		CreatedAt:    s.creationTime,
		StartAt:      s.startTime,
		DurationMS:   s.duration.Milliseconds(),
		Deadline:     due,
	}
}
