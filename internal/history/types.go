// Package history archives finished sessions. Live session state stays
// in-memory only; the archive records sessions once they leave the store,
// either by completing their break or by everyone leaving.
package history

import (
	"context"
	"time"
)

// Record stores one finished session.
type Record struct {
	ID             string    `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	MessageID      int64     `json:"message_id"`
	Creator        string    `json:"creator"`
	Participants   int       `json:"participants"`
	FinalState     string    `json:"final_state"`
	Completed      bool      `json:"completed"` // reached the end of its break
	CreatedAt      time.Time `json:"created_at"`
	EndedAt        time.Time `json:"ended_at"`
}

// Store persists and retrieves finished sessions.
type Store interface {
	SaveSession(ctx context.Context, record Record) error
	RecentSessions(ctx context.Context, conversationID int64, limit int) ([]Record, error)
	Close() error
}
