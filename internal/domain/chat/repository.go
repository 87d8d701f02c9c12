package chat

import "context"

// Repository is the append log for chat history, keyed by user id.
// Implementation lives in internal/repository/postgres.
type Repository interface {
	// Append stores one message. History is append-only; there is no update path.
	Append(ctx context.Context, msg *Message) error

	// History returns the most recent messages for a user in chronological
	// order, at most limit entries (all when limit <= 0).
	History(ctx context.Context, userID string, limit int) ([]*Message, error)
}
