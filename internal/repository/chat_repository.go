//go:generate go run go.uber.org/mock/mockgen -source=chat_repository.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repository

import (
	"context"
	"database/sql"
	"errors"

	"vaultweb/chat-service/internal/models"
)

type ChatRepository interface {
	CreateChat(ctx context.Context, chat *models.PrivateChat) error
	GetChatByID(ctx context.Context, id string) (*models.PrivateChat, error)
	GetChatByUsers(ctx context.Context, userID1, userID2 string) (*models.PrivateChat, error)
	GetUserChats(ctx context.Context, userID string) ([]*models.PrivateChat, error)
	TouchChat(ctx context.Context, id string) error
	InitializeTables() error
}

type chatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) ChatRepository {
	return &chatRepository{
		db: db,
	}
}

func (r *chatRepository) InitializeTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS private_chats (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id1 UUID NOT NULL REFERENCES users(id),
		user_id2 UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE(user_id1, user_id2)
	);

	CREATE INDEX IF NOT EXISTS idx_private_chats_user1 ON private_chats(user_id1);
	CREATE INDEX IF NOT EXISTS idx_private_chats_user2 ON private_chats(user_id2);
	`

	_, err := r.db.Exec(query)
	return err
}

func (r *chatRepository) CreateChat(ctx context.Context, chat *models.PrivateChat) error {
	query := `
	INSERT INTO private_chats (id, user_id1, user_id2)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id1, user_id2) DO UPDATE SET updated_at = NOW()
	RETURNING id, created_at, updated_at
	`

	return r.db.QueryRowContext(ctx, query,
		chat.ID, chat.UserID1, chat.UserID2,
	).Scan(&chat.ID, &chat.CreatedAt, &chat.UpdatedAt)
}

func (r *chatRepository) GetChatByID(ctx context.Context, id string) (*models.PrivateChat, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	query := `
	SELECT id, user_id1, user_id2, created_at, updated_at
	FROM private_chats
	WHERE id = $1
	`

	return scanChat(r.db.QueryRowContext(ctx, query, id))
}

func (r *chatRepository) GetChatByUsers(ctx context.Context, userID1, userID2 string) (*models.PrivateChat, error) {
	if !validID(userID1) || !validID(userID2) {
		return nil, ErrNotFound
	}

	query := `
	SELECT id, user_id1, user_id2, created_at, updated_at
	FROM private_chats
	WHERE (user_id1 = $1 AND user_id2 = $2) OR (user_id1 = $2 AND user_id2 = $1)
	LIMIT 1
	`

	return scanChat(r.db.QueryRowContext(ctx, query, userID1, userID2))
}

func (r *chatRepository) GetUserChats(ctx context.Context, userID string) ([]*models.PrivateChat, error) {
	if !validID(userID) {
		return nil, nil
	}

	query := `
	SELECT id, user_id1, user_id2, created_at, updated_at
	FROM private_chats
	WHERE user_id1 = $1 OR user_id2 = $1
	ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []*models.PrivateChat
	for rows.Next() {
		var chat models.PrivateChat
		err := rows.Scan(
			&chat.ID, &chat.UserID1, &chat.UserID2, &chat.CreatedAt, &chat.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		chats = append(chats, &chat)
	}

	return chats, rows.Err()
}

func (r *chatRepository) TouchChat(ctx context.Context, id string) error {
	query := `
	UPDATE private_chats
	SET updated_at = NOW()
	WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanChat(row *sql.Row) (*models.PrivateChat, error) {
	var chat models.PrivateChat
	err := row.Scan(
		&chat.ID, &chat.UserID1, &chat.UserID2, &chat.CreatedAt, &chat.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &chat, nil
}
