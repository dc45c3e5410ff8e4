//go:generate go run go.uber.org/mock/mockgen -source=group_repository.go -destination=../mocks/mock_group_repository.go -package=mocks
package repository

import (
	"context"
	"database/sql"
	"errors"

	"vaultweb/chat-service/internal/models"
)

type GroupRepository interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroupByID(ctx context.Context, id string) (*models.Group, error)
	InitializeTables() error
}

type groupRepository struct {
	db *sql.DB
}

func NewGroupRepository(db *sql.DB) GroupRepository {
	return &groupRepository{
		db: db,
	}
}

func (r *groupRepository) InitializeTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS chat_groups (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(100) NOT NULL,
		owner_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	_, err := r.db.Exec(query)
	return err
}

func (r *groupRepository) CreateGroup(ctx context.Context, group *models.Group) error {
	query := `
	INSERT INTO chat_groups (id, name, owner_id)
	VALUES ($1, $2, $3)
	RETURNING created_at
	`

	return r.db.QueryRowContext(ctx, query, group.ID, group.Name, group.OwnerID).Scan(&group.CreatedAt)
}

func (r *groupRepository) GetGroupByID(ctx context.Context, id string) (*models.Group, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	query := `
	SELECT id, name, owner_id, created_at
	FROM chat_groups
	WHERE id = $1
	`

	var group models.Group
	err := r.db.QueryRowContext(ctx, query, id).Scan(&group.ID, &group.Name, &group.OwnerID, &group.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &group, nil
}
