package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"vaultweb/chat-service/internal/apperrors"
	"vaultweb/chat-service/internal/models"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestUserRepository_CreateUser(t *testing.T) {
	t.Run("should fill created_at from the insert", func(t *testing.T) {
		req := require.New(t)
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)
		createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		user := &models.User{ID: uuid.NewString(), Username: "alice", PasswordHash: "$2a$hash"}

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs(user.ID, "alice", "$2a$hash").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

		req.NoError(repo.CreateUser(context.Background(), user))
		req.Equal(createdAt, user.CreatedAt)
		req.NoError(mock.ExpectationsWereMet())
	})

	t.Run("should report duplicate username on unique violation", func(t *testing.T) {
		req := require.New(t)
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)
		user := &models.User{ID: uuid.NewString(), Username: "alice", PasswordHash: "$2a$hash"}

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

		err := repo.CreateUser(context.Background(), user)
		req.ErrorIs(err, apperrors.ErrDuplicateUsername)
		req.NoError(mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetUserByID(t *testing.T) {
	t.Run("should not query for malformed ids", func(t *testing.T) {
		req := require.New(t)
		db, mock := newMockDB(t)

		_, err := NewUserRepository(db).GetUserByID(context.Background(), "not-a-uuid")
		req.ErrorIs(err, ErrNotFound)
		req.NoError(mock.ExpectationsWereMet())
	})

	t.Run("should map no rows to ErrNotFound", func(t *testing.T) {
		req := require.New(t)
		db, mock := newMockDB(t)
		id := uuid.NewString()

		mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		_, err := NewUserRepository(db).GetUserByID(context.Background(), id)
		req.ErrorIs(err, ErrNotFound)
	})

	t.Run("should return the stored user", func(t *testing.T) {
		req := require.New(t)
		db, mock := newMockDB(t)
		id := uuid.NewString()
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
				AddRow(id, "bob", "hash", now))

		user, err := NewUserRepository(db).GetUserByID(context.Background(), id)
		req.NoError(err)
		req.Equal("bob", user.Username)
		req.Equal(now, user.CreatedAt)
	})
}

func TestUserRepository_ExistsByUsername(t *testing.T) {
	req := require.New(t)
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := NewUserRepository(db).ExistsByUsername(context.Background(), "alice")
	req.NoError(err)
	req.True(exists)
}

func TestChatImageRepository_Insert(t *testing.T) {
	req := require.New(t)
	db, mock := newMockDB(t)
	image := &models.ChatImage{
		Content:    []byte{0xFF, 0xD8, 0xFF},
		SenderID:   uuid.NewString(),
		ReceiverID: uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO chat_images")).
		WithArgs(image.Content, image.SenderID, image.ReceiverID, image.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := NewChatImageRepository(db).Insert(context.Background(), image)
	req.NoError(err)
	req.Equal(int64(42), id)
	req.Equal(int64(42), image.ID)
	req.NoError(mock.ExpectationsWereMet())
}

func TestChatImageRepository_GetByID_NotFound(t *testing.T) {
	req := require.New(t)
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM chat_images")).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := NewChatImageRepository(db).GetByID(context.Background(), 9)
	req.ErrorIs(err, ErrNotFound)
}

func TestMessageRepository_CreateMessage(t *testing.T) {
	req := require.New(t)
	db, mock := newMockDB(t)
	groupID := uuid.NewString()
	msg := &models.ChatMessage{
		ID:        uuid.NewString(),
		Content:   "hello",
		SenderID:  uuid.NewString(),
		Timestamp: time.Now().UTC(),
		GroupID:   &groupID,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO chat_messages")).
		WithArgs(msg.ID, "hello", msg.SenderID, msg.Timestamp, groupID, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(msg.ID))

	req.NoError(NewMessageRepository(db).CreateMessage(context.Background(), msg))
	req.NoError(mock.ExpectationsWereMet())
}

func TestMessageRepository_MarkMessagesAsRead(t *testing.T) {
	req := require.New(t)
	db, mock := newMockDB(t)
	chatID, userID := uuid.NewString(), uuid.NewString()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE chat_messages")).
		WithArgs(chatID, userID).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := NewMessageRepository(db).MarkMessagesAsRead(context.Background(), chatID, userID)
	req.NoError(err)
	req.Equal(3, count)
}

func TestChatRepository_TouchChat_NotFound(t *testing.T) {
	req := require.New(t)
	db, mock := newMockDB(t)
	id := uuid.NewString()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE private_chats")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	req.ErrorIs(NewChatRepository(db).TouchChat(context.Background(), id), ErrNotFound)
}
