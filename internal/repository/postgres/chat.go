package postgres

import (
	"context"

	"normatlas/internal/domain/chat"
	"normatlas/pkg/errors"
)

// Compile-time check that we implement the interface
var _ chat.Repository = (*ChatRepository)(nil)

// ChatRepository implements chat.Repository using sqlx
type ChatRepository struct {
	db DBTX
}

// NewChatRepository creates a new chat history repository
func NewChatRepository(db DBTX) *ChatRepository {
	return &ChatRepository{db: db}
}

// Append stores one chat message
func (r *ChatRepository) Append(ctx context.Context, msg *chat.Message) error {
	query := `
		INSERT INTO chat_messages (id, user_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.UserID, msg.Role, msg.Content, msg.CreatedAt,
	)
	return errors.Wrap(err, "append chat message")
}

// History returns the most recent messages for a user in chronological order
func (r *ChatRepository) History(ctx context.Context, userID string, limit int) ([]*chat.Message, error) {
	var messages []*chat.Message

	if limit > 0 {
		// Newest N rows, re-ordered chronologically.
		query := `
			SELECT id, user_id, role, content, created_at
			FROM (
				SELECT id, user_id, role, content, created_at
				FROM chat_messages
				WHERE user_id = $1
				ORDER BY created_at DESC
				LIMIT $2
			) recent
			ORDER BY created_at ASC`
		if err := r.db.SelectContext(ctx, &messages, query, userID, limit); err != nil {
			return nil, errors.Wrap(err, "select chat history")
		}
		return messages, nil
	}

	query := `
		SELECT id, user_id, role, content, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &messages, query, userID); err != nil {
		return nil, errors.Wrap(err, "select chat history")
	}
	return messages, nil
}
