package telegram

import (
	"github.com/antoniostano/pomobot/internal/chat"
)

// Bot API payload shapes, limited to the fields this service uses.

type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

type Message struct {
	MessageID int64    `json:"message_id"`
	From      *User    `json:"from,omitempty"`
	Chat      Chat     `json:"chat"`
	Text      string   `json:"text,omitempty"`
	ReplyTo   *Message `json:"reply_to_message,omitempty"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"` // "private", "group", "supergroup", "channel"
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
}

type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// toConversation maps a Telegram chat onto the core's conversation type.
// Groups and supergroups render rosters and a Join button; everything else is
// treated as one-to-one.
func toConversation(c Chat) chat.Conversation {
	return chat.Conversation{
		ID:             chat.ConversationID(c.ID),
		SupportsRoster: c.Type == "group" || c.Type == "supergroup",
	}
}

func toUser(u User) chat.User {
	return chat.User{ID: chat.UserID(u.ID), Username: u.Username, FirstName: u.FirstName}
}

func toMessage(m Message) chat.Message {
	return chat.Message{ID: chat.MessageID(m.MessageID), Chat: toConversation(m.Chat), Text: m.Text}
}

func toMarkup(kb chat.Keyboard) *InlineKeyboardMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, InlineKeyboardButton{Text: b.Label, CallbackData: b.Data})
		}
		rows = append(rows, buttons)
	}
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}
