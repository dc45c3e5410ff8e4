//go:generate go run go.uber.org/mock/mockgen -source=chat_image_repository.go -destination=../mocks/mock_chat_image_repository.go -package=mocks
package repository

import (
	"context"
	"database/sql"
	"errors"

	"vaultweb/chat-service/internal/models"
)

type ChatImageRepository interface {
	// Insert stores the image and returns the database generated id.
	Insert(ctx context.Context, image *models.ChatImage) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ChatImage, error)
	InitializeTables() error
}

type chatImageRepository struct {
	db *sql.DB
}

func NewChatImageRepository(db *sql.DB) ChatImageRepository {
	return &chatImageRepository{
		db: db,
	}
}

func (r *chatImageRepository) InitializeTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS chat_images (
		id BIGSERIAL PRIMARY KEY,
		content BYTEA NOT NULL,
		sender_id UUID NOT NULL,
		receiver_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_chat_images_receiver_id ON chat_images(receiver_id);
	`

	_, err := r.db.Exec(query)
	return err
}

func (r *chatImageRepository) Insert(ctx context.Context, image *models.ChatImage) (int64, error) {
	query := `
	INSERT INTO chat_images (content, sender_id, receiver_id, created_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		image.Content, image.SenderID, image.ReceiverID, image.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	image.ID = id
	return id, nil
}

func (r *chatImageRepository) GetByID(ctx context.Context, id int64) (*models.ChatImage, error) {
	query := `
	SELECT id, content, sender_id, receiver_id, created_at
	FROM chat_images
	WHERE id = $1
	`

	var image models.ChatImage
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&image.ID, &image.Content, &image.SenderID, &image.ReceiverID, &image.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &image, nil
}
