//go:generate go run go.uber.org/mock/mockgen -source=user_repository.go -destination=../mocks/mock_user_repository.go -package=mocks
package repository

import (
	"context"
	"database/sql"
	"errors"

	"vaultweb/chat-service/internal/apperrors"
	"vaultweb/chat-service/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	InitializeTables() error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) InitializeTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		username VARCHAR(50) NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT users_username_key UNIQUE (username)
	);
	`

	_, err := r.db.Exec(query)
	return err
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
	INSERT INTO users (id, username, password_hash)
	VALUES ($1, $2, $3)
	RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.PasswordHash,
	).Scan(&user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.DuplicateUsername("Username '%s' is already taken", user.Username)
		}
		return err
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	query := `
	SELECT id, username, password_hash, created_at
	FROM users
	WHERE id = $1
	`

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
	SELECT id, username, password_hash, created_at
	FROM users
	WHERE username = $1
	`

	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	query := `
	SELECT id, username, password_hash, created_at
	FROM users
	ORDER BY username
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
