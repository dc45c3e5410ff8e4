//go:generate go run go.uber.org/mock/mockgen -source=message_repository.go -destination=../mocks/mock_message_repository.go -package=mocks
package repository

import (
	"context"
	"database/sql"

	"vaultweb/chat-service/internal/models"
)

type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *models.ChatMessage) error
	GetChatMessages(ctx context.Context, chatID string, limit int, beforeMessageID string) ([]*models.ChatMessage, error)
	MarkMessagesAsRead(ctx context.Context, chatID, userID string) (int, error)
	InitializeTables() error
}

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{
		db: db,
	}
}

func (r *messageRepository) InitializeTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS chat_messages (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		content TEXT NOT NULL,
		sender_id UUID NOT NULL REFERENCES users(id),
		sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		group_id UUID REFERENCES chat_groups(id) ON DELETE CASCADE,
		private_chat_id UUID REFERENCES private_chats(id) ON DELETE CASCADE,
		read_at TIMESTAMPTZ,
		CONSTRAINT chat_messages_single_destination CHECK ((group_id IS NULL) <> (private_chat_id IS NULL))
	);

	CREATE INDEX IF NOT EXISTS idx_chat_messages_private_chat_id ON chat_messages(private_chat_id);
	CREATE INDEX IF NOT EXISTS idx_chat_messages_group_id ON chat_messages(group_id);
	CREATE INDEX IF NOT EXISTS idx_chat_messages_sent_at ON chat_messages(sent_at);
	`

	_, err := r.db.Exec(query)
	return err
}

func (r *messageRepository) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	query := `
	INSERT INTO chat_messages (id, content, sender_id, sent_at, group_id, private_chat_id)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id
	`

	return r.db.QueryRowContext(ctx, query,
		msg.ID, msg.Content, msg.SenderID, msg.Timestamp, nullable(msg.GroupID), nullable(msg.PrivateChatID),
	).Scan(&msg.ID)
}

func (r *messageRepository) GetChatMessages(ctx context.Context, chatID string, limit int, beforeMessageID string) ([]*models.ChatMessage, error) {
	if !validID(chatID) || (beforeMessageID != "" && !validID(beforeMessageID)) {
		return nil, nil
	}

	var query string
	var args []interface{}

	if beforeMessageID != "" {
		query = `
		SELECT id, content, sender_id, sent_at, group_id, private_chat_id, read_at
		FROM chat_messages
		WHERE private_chat_id = $1
		  AND sent_at < (SELECT sent_at FROM chat_messages WHERE id = $2)
		ORDER BY sent_at DESC
		LIMIT $3
		`
		args = []interface{}{chatID, beforeMessageID, limit}
	} else {
		query = `
		SELECT id, content, sender_id, sent_at, group_id, private_chat_id, read_at
		FROM chat_messages
		WHERE private_chat_id = $1
		ORDER BY sent_at DESC
		LIMIT $2
		`
		args = []interface{}{chatID, limit}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		var groupID, privateChatID sql.NullString
		var readAt sql.NullTime
		err := rows.Scan(
			&msg.ID, &msg.Content, &msg.SenderID, &msg.Timestamp, &groupID, &privateChatID, &readAt,
		)
		if err != nil {
			return nil, err
		}
		if groupID.Valid {
			msg.GroupID = &groupID.String
		}
		if privateChatID.Valid {
			msg.PrivateChatID = &privateChatID.String
		}
		if readAt.Valid {
			msg.ReadAt = &readAt.Time
		}
		messages = append(messages, &msg)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, rows.Err()
}

func (r *messageRepository) MarkMessagesAsRead(ctx context.Context, chatID, userID string) (int, error) {
	query := `
	UPDATE chat_messages
	SET read_at = NOW()
	WHERE private_chat_id = $1 AND sender_id != $2 AND read_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, chatID, userID)
	if err != nil {
		return 0, err
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
