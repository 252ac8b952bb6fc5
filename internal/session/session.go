// Package session implements the Pomodoro core: the session entity and its
// state machine, the concurrent store that pairs every session with a pending
// deadline, and the scheduler that fires transitions when deadlines expire.
package session

import (
	"context"
	"log"
	"time"

	"github.com/antoniostano/pomobot/internal/chat"
)

const (
	// DefaultWorkDuration is the classic 25 minute Pomodoro.
	DefaultWorkDuration = 25 * time.Minute
	// DefaultBreakDuration is the short break between Pomodoros.
	DefaultBreakDuration = 5 * time.Minute
)

// Key uniquely identifies a session by its conversation and anchor message.
type Key struct {
	Conversation chat.ConversationID `json:"conversation_id"`
	Message      chat.MessageID      `json:"message_id"`
}

// Session is one tracked work-or-break timer bound to a conversation and an
// anchor message. Its mutable fields are owned by the Store while registered;
// between a deadline pop and the subsequent re-register the scheduler holds
// it exclusively and no other caller can reach it.
type Session struct {
	state        State
	anchor       chat.Message
	creator      chat.User
	participants []chat.User // join order, creator first
	creationTime time.Time
	startTime    time.Time
	duration     time.Duration
}

// NewWork creates a work session waiting to start at startAt. A zero
// duration falls back to DefaultWorkDuration. The creator is the first
// participant.
func NewWork(anchor chat.Message, creator chat.User, startAt time.Time, duration time.Duration) *Session {
	if duration <= 0 {
		duration = DefaultWorkDuration
	}
	return &Session{
		state:        StateWorkWaiting,
		anchor:       anchor,
		creator:      creator,
		participants: []chat.User{creator},
		creationTime: time.Now().UTC(),
		startTime:    startAt,
		duration:     duration,
	}
}

// NewBreak creates a break session. Its start time equals its creation time,
// so the scheduler picks it up on the next pass and sets it running.
func NewBreak(anchor chat.Message, creator chat.User, duration time.Duration) *Session {
	if duration <= 0 {
		duration = DefaultBreakDuration
	}
	now := time.Now().UTC()
	return &Session{
		state:        StateBreakWaiting,
		anchor:       anchor,
		creator:      creator,
		participants: []chat.User{creator},
		creationTime: now,
		startTime:    now,
		duration:     duration,
	}
}

// Key returns the session's identity.
func (s *Session) Key() Key {
	return Key{Conversation: s.anchor.Chat.ID, Message: s.anchor.ID}
}

func (s *Session) State() State                    { return s.state }
func (s *Session) Creator() chat.User              { return s.creator }
func (s *Session) Conversation() chat.Conversation { return s.anchor.Chat }
func (s *Session) Anchor() chat.Message            { return s.anchor }
func (s *Session) StartTime() time.Time            { return s.startTime }
func (s *Session) Duration() time.Duration         { return s.duration }
func (s *Session) CreatedAt() time.Time            { return s.creationTime }

// Participants returns a copy of the participant list in join order.
func (s *Session) Participants() []chat.User {
	out := make([]chat.User, len(s.participants))
	copy(out, s.participants)
	return out
}

// addParticipant reports false if the user is already subscribed.
func (s *Session) addParticipant(u chat.User) bool {
	if s.hasParticipant(u.ID) {
		return false
	}
	s.participants = append(s.participants, u)
	return true
}

func (s *Session) hasParticipant(id chat.UserID) bool {
	for _, p := range s.participants {
		if p.ID == id {
			return true
		}
	}
	return false
}

// removeParticipant drops the user and, when the user was the creator and
// others remain, transfers ownership to the earliest-joined remaining
// participant. It reports whether the user was present.
func (s *Session) removeParticipant(id chat.UserID) bool {
	idx := -1
	for i, p := range s.participants {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.participants = append(s.participants[:idx], s.participants[idx+1:]...)
	if s.creator.ID == id && len(s.participants) > 0 {
		s.creator = s.participants[0]
	}
	return true
}

// beginWork advances a waiting work session into its running phase. The
// duration is left untouched: the work phase always runs in full regardless
// of when it starts.
func (s *Session) beginWork() {
	s.state = StateWorkRunning
}

// beginBreak converts the session into a running break of the given length.
func (s *Session) beginBreak(d time.Duration) {
	if d <= 0 {
		d = DefaultBreakDuration
	}
	s.duration = d
	s.state = StateBreakRunning
}

// notifyStarted replaces the anchor message with a ping to all participants.
// A failed delete is logged; a failed send keeps the old anchor.
func (s *Session) notifyStarted(ctx context.Context, n chat.Notifier) {
	text := chat.FormatRoster(s.participants) + "\n\nSession has started!"
	if err := n.DeleteMessage(ctx, s.anchor.Chat, s.anchor.ID); err != nil {
		log.Printf("session %v: delete anchor failed: %v", s.Key(), err)
	}
	msg, err := n.SendMessage(ctx, s.anchor.Chat, text, nil)
	if err != nil {
		log.Printf("session %v: start notification failed: %v", s.Key(), err)
		return
	}
	s.anchor = msg
}

// notifyWorkOver announces the end of the work phase and replaces the anchor.
// One-to-one conversations also drop the old message.
func (s *Session) notifyWorkOver(ctx context.Context, n chat.Notifier) error {
	text := chat.FormatRoster(s.participants) + "\n\nSession is over! Now take a short, 5 minute break"
	if !s.anchor.Chat.SupportsRoster {
		if err := n.DeleteMessage(ctx, s.anchor.Chat, s.anchor.ID); err != nil {
			log.Printf("session %v: delete anchor failed: %v", s.Key(), err)
		}
	}
	msg, err := n.SendMessage(ctx, s.anchor.Chat, text, nil)
	if err != nil {
		return err
	}
	s.anchor = msg
	return nil
}

// notifyBreakOver announces the end of the break. One-to-one conversations
// get the old message deleted and a yes/no continue prompt instead.
func (s *Session) notifyBreakOver(ctx context.Context, n chat.Notifier) error {
	if s.anchor.Chat.SupportsRoster {
		text := chat.FormatRoster(s.participants) + "\n\nBreak is over!"
		_, err := n.SendMessage(ctx, s.anchor.Chat, text, nil)
		return err
	}
	if err := n.DeleteMessage(ctx, s.anchor.Chat, s.anchor.ID); err != nil {
		log.Printf("session %v: delete anchor failed: %v", s.Key(), err)
	}
	_, err := n.SendMessage(ctx, s.anchor.Chat, "Break is over! Do you want to continue?", chat.ContinueKeyboard)
	return err
}
