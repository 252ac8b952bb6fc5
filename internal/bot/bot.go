// Package bot implements the command and callback surface on top of the
// session core: creating work and break sessions, joining, leaving, and
// starting early. It talks to the chat service only through chat.Notifier and
// returns user-displayable text for every outcome.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/antoniostano/pomobot/internal/chat"
	"github.com/antoniostano/pomobot/internal/session"
	"github.com/antoniostano/pomobot/internal/timeutil"
)

// Config holds the timing defaults applied to new sessions.
type Config struct {
	WorkDuration    time.Duration
	BreakDuration   time.Duration
	AlignGroupStart bool // round group session starts to the next 5-minute boundary
	BotName         string
}

// Bot exposes user-facing session operations.
type Bot struct {
	store    *session.Store
	notifier chat.Notifier
	cfg      Config
	now      func() time.Time
}

func New(store *session.Store, notifier chat.Notifier, cfg Config) *Bot {
	if cfg.WorkDuration <= 0 {
		cfg.WorkDuration = session.DefaultWorkDuration
	}
	if cfg.BreakDuration <= 0 {
		cfg.BreakDuration = session.DefaultBreakDuration
	}
	return &Bot{
		store:    store,
		notifier: notifier,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateWorkSession announces a new session and registers it. Group sessions
// start at the next 5-minute boundary (when aligned) and carry a Join button
// plus a subscriber roster; one-to-one sessions start immediately.
func (b *Bot) CreateWorkSession(ctx context.Context, conv chat.Conversation, creator chat.User) error {
	start := b.now()
	if conv.SupportsRoster && b.cfg.AlignGroupStart {
		start = timeutil.NextBoundary(start)
	}

	var text string
	var kb chat.Keyboard
	if conv.SupportsRoster {
		text = fmt.Sprintf("@%s has created a new Pomodoro!\nSession will start at %s (UTC)\n\nSubscribers:",
			creator.DisplayName(), timeutil.FormatHHMM(start))
		kb = chat.JoinKeyboard
	} else {
		text = "Pomodoro session has been started!"
	}

	msg, err := b.notifier.SendMessage(ctx, conv, text, kb)
	if err != nil {
		return fmt.Errorf("announce session: %w", err)
	}

	s := session.NewWork(msg, creator, start, b.cfg.WorkDuration)
	if err := b.store.Register(s); err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	if conv.SupportsRoster {
		b.updateRoster(ctx, msg, s.Participants())
	}
	return nil
}

// CreateBreakSession announces and registers a direct break. Its start time
// equals its creation time, so the scheduler sets it running on the next
// pass.
func (b *Bot) CreateBreakSession(ctx context.Context, conv chat.Conversation, creator chat.User) error {
	minutes := int(b.cfg.BreakDuration.Minutes())
	var text string
	if conv.SupportsRoster {
		text = fmt.Sprintf("@%s, your %d minute break has begun!", creator.DisplayName(), minutes)
	} else {
		text = fmt.Sprintf("Your %d minute break has begun!", minutes)
	}

	msg, err := b.notifier.SendMessage(ctx, conv, text, nil)
	if err != nil {
		return fmt.Errorf("announce break: %w", err)
	}
	if err := b.store.Register(session.NewBreak(msg, creator, b.cfg.BreakDuration)); err != nil {
		return fmt.Errorf("register break: %w", err)
	}
	return nil
}

// StartNow starts the waiting session anchored at key ahead of schedule.
// Only the recorded creator may do that.
func (b *Bot) StartNow(ctx context.Context, key session.Key, from chat.User) string {
	err := b.store.StartNow(ctx, b.notifier, key, from)
	switch {
	case err == nil:
		return "Let's go!"
	case errors.Is(err, session.ErrNotOwner):
		return "Only the creator is allowed to start the session"
	case errors.Is(err, session.ErrNoEligibleSession):
		return "This session is already running."
	default:
		return "Pomodoro not found!"
	}
}

// Join subscribes the user to the newest waiting session of the conversation.
func (b *Bot) Join(ctx context.Context, conv chat.Conversation, user chat.User) string {
	msg, roster, err := b.store.Join(conv.ID, user)
	switch {
	case err == nil:
		b.updateRoster(ctx, msg, roster)
		return "Yay!"
	case errors.Is(err, session.ErrAlreadyJoined):
		return fmt.Sprintf("@%s is already a participant", user.DisplayName())
	default:
		return "This chat does not have any registered sessions yet.\n\nHint: Use /25 to create a new session."
	}
}

// JoinByKey subscribes the user to the session anchored at one specific
// message, used by the inline Join button.
func (b *Bot) JoinByKey(ctx context.Context, key session.Key, user chat.User) string {
	msg, roster, err := b.store.AddParticipant(key, user)
	switch {
	case err == nil:
		b.updateRoster(ctx, msg, roster)
		return "Yay!"
	case errors.Is(err, session.ErrAlreadyJoined):
		return "You are already subscribed!"
	default:
		return "Pomodoro not found!"
	}
}

// Leave unsubscribes the user from the newest session they participate in.
// The last participant leaving deletes the session outright.
func (b *Bot) Leave(ctx context.Context, conv chat.Conversation, user chat.User) string {
	out, err := b.store.Leave(ctx, b.notifier, conv.ID, user)
	if err != nil {
		return "You are not subscribed to any sessions."
	}
	if !out.Deleted {
		b.updateRoster(ctx, out.Anchor, out.Participants)
	}
	return fmt.Sprintf("@%s left the session.", user.DisplayName())
}

// Menu sends the start menu.
func (b *Bot) Menu(ctx context.Context, conv chat.Conversation) {
	if _, err := b.notifier.SendMessage(ctx, conv, "Choose one of the following:", chat.StartMenuKeyboard); err != nil {
		log.Printf("bot: send menu failed: %v", err)
	}
}

// Help sends the usage message.
func (b *Bot) Help(ctx context.Context, conv chat.Conversation) {
	name := b.cfg.BotName
	if name != "" {
		name = "@" + name + " — "
	}
	text := fmt.Sprintf(`%sYet another Pomodoro Timer bot.

Commands:
/25 — Create a new Timer with a duration of %d minutes.
/5 — Initiate a short %d minute break
/join — Join a session
/leave — Leave a session
/help — Show this help message.

This bot supports multiplayer mode!
Create a /25 in a group and a button will show up for others to join. As soon as the clock hits `+"`minute %% 5 == 0`"+`, you will be pinged to start your session.`,
		name, int(b.cfg.WorkDuration.Minutes()), int(b.cfg.BreakDuration.Minutes()))

	if _, err := b.notifier.SendMessage(ctx, conv, text, chat.GotItKeyboard); err != nil {
		log.Printf("bot: send help failed: %v", err)
	}
}

// updateRoster rewrites the subscriber list on the anchor message. Edit
// failures are logged only; the store is already up to date.
func (b *Bot) updateRoster(ctx context.Context, msg chat.Message, roster []chat.User) {
	text := chat.RebuildRoster(msg.Text, roster)
	var kb chat.Keyboard
	if msg.Chat.SupportsRoster {
		kb = chat.JoinKeyboard
	}
	if err := b.notifier.EditMessageText(ctx, msg.Chat, msg.ID, text, kb); err != nil {
		log.Printf("bot: roster update failed for message %d: %v", msg.ID, err)
	}
}
