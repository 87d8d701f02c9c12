package chat

import (
	"time"

	"github.com/google/uuid"
)

// Message is one entry of a user's chat history append log.
type Message struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Roles stored in the history log.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// NewMessage builds a history entry with a fresh id and timestamp.
func NewMessage(userID, role, content string) *Message {
	return &Message{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
