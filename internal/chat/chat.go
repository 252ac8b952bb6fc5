// Package chat defines the conversation-facing types the session core works
// with and the Notifier capability it uses to reach the chat service. The
// concrete chat protocol (Telegram) lives in internal/telegram; everything in
// here is protocol-agnostic so the core can be exercised with fakes.
package chat

import "context"

// ConversationID identifies a chat conversation.
type ConversationID int64

// MessageID identifies a message within a conversation.
type MessageID int64

// UserID identifies a chat user.
type UserID int64

// Conversation is the place a session lives in. SupportsRoster is true for
// group-style conversations where a subscriber roster is rendered on the
// anchor message and a Join button is shown; one-to-one conversations skip
// both.
type Conversation struct {
	ID             ConversationID `json:"id"`
	SupportsRoster bool           `json:"supports_roster"`
}

// User is a chat participant. Username may be empty, in which case FirstName
// is used for display.
type User struct {
	ID        UserID `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
}

// DisplayName returns the handle used in rosters and notifications.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}

// Message is an opaque handle to a sent message. Text carries the last known
// rendered content so roster updates can rebuild it without a read API.
type Message struct {
	ID   MessageID    `json:"id"`
	Chat Conversation `json:"chat"`
	Text string       `json:"text,omitempty"`
}

// Button is a single inline keyboard button carrying callback data.
type Button struct {
	Label string
	Data  string
}

// Keyboard is an inline keyboard layout, rows of buttons.
type Keyboard [][]Button

// Notifier is the capability set the session core needs from the chat
// service. Implementations must be safe for concurrent use.
type Notifier interface {
	SendMessage(ctx context.Context, conv Conversation, text string, kb Keyboard) (Message, error)
	EditMessageText(ctx context.Context, conv Conversation, id MessageID, text string, kb Keyboard) error
	DeleteMessage(ctx context.Context, conv Conversation, id MessageID) error
}
