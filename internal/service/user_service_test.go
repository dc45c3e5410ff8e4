package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vaultweb/chat-service/internal/apperrors"
	"vaultweb/chat-service/internal/auth"
	"vaultweb/chat-service/internal/mocks"
	"vaultweb/chat-service/internal/models"
	"vaultweb/chat-service/internal/repository"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	newService := func(t *testing.T) (*mocks.MockUserRepository, UserService) {
		repo := mocks.NewMockUserRepository(gomock.NewController(t))
		return repo, NewUserService(repo, newTestLogger())
	}

	t.Run("should store a hashed password", func(t *testing.T) {
		req := require.New(t)
		repo, svc := newService(t)
		password := "s3cret-passphrase"

		repo.EXPECT().ExistsByUsername(ctx, "carol").Return(false, nil)
		repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, user *models.User) error {
				req.Equal("carol", user.Username)
				req.NotEqual(password, user.PasswordHash)
				match, err := auth.ComparePassword(password, user.PasswordHash)
				req.NoError(err)
				req.True(match)
				return nil
			}).Times(1)

		user, err := svc.Register(ctx, " carol ", password)
		req.NoError(err)
		req.NotEmpty(user.ID)
	})

	t.Run("should refuse an existing username without writing", func(t *testing.T) {
		req := require.New(t)
		repo, svc := newService(t)

		repo.EXPECT().ExistsByUsername(ctx, "alice").Return(true, nil)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Register(ctx, "alice", "long-enough-pw")
		req.ErrorIs(err, apperrors.ErrDuplicateUsername)
		req.EqualError(err, "Username 'alice' is already taken")
	})

	t.Run("should surface a unique violation from the store", func(t *testing.T) {
		req := require.New(t)
		repo, svc := newService(t)

		repo.EXPECT().ExistsByUsername(ctx, "racer").Return(false, nil)
		repo.EXPECT().CreateUser(ctx, gomock.Any()).
			Return(apperrors.DuplicateUsername("Username 'racer' is already taken"))

		_, err := svc.Register(ctx, "racer", "long-enough-pw")
		req.ErrorIs(err, apperrors.ErrDuplicateUsername)
	})

	t.Run("should validate input before touching the store", func(t *testing.T) {
		req := require.New(t)
		repo, svc := newService(t)
		repo.EXPECT().ExistsByUsername(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Register(ctx, "al", "long-enough-pw")
		req.ErrorIs(err, apperrors.ErrInvalidInput)
		req.Contains(err.Error(), "username must be at least 3 characters")

		_, err = svc.Register(ctx, "alice", "short")
		req.ErrorIs(err, apperrors.ErrInvalidInput)
		req.Contains(err.Error(), "password must be at least 8 characters")
	})

	t.Run("should reject multi-byte passwords over the bcrypt limit", func(t *testing.T) {
		req := require.New(t)
		repo, svc := newService(t)
		repo.EXPECT().ExistsByUsername(gomock.Any(), gomock.Any()).Times(0)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		// 40 characters, 80 bytes.
		_, err := svc.Register(ctx, "dave", strings.Repeat("é", 40))
		req.ErrorIs(err, apperrors.ErrInvalidInput)
		req.EqualError(err, "password must be at most 72 bytes")
		req.Equal(http.StatusBadRequest, apperrors.NewMapper(0, false).Map(err).Status)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockUserRepository(gomock.NewController(t))
	svc := NewUserService(repo, newTestLogger())

	hash, err := auth.HashPassword("correct-password")
	require.NoError(t, err)
	stored := &models.User{ID: alice.ID, Username: "alice", PasswordHash: hash}

	t.Run("should accept the right password", func(t *testing.T) {
		req := require.New(t)
		repo.EXPECT().GetUserByUsername(ctx, "alice").Return(stored, nil)

		user, err := svc.Authenticate(ctx, "alice", "correct-password")
		req.NoError(err)
		req.Equal(alice.ID, user.ID)
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		req := require.New(t)
		repo.EXPECT().GetUserByUsername(ctx, "alice").Return(stored, nil)

		_, err := svc.Authenticate(ctx, "alice", "wrong-password")
		req.ErrorIs(err, apperrors.ErrBadCredentials)
	})

	t.Run("should reject an unknown user", func(t *testing.T) {
		req := require.New(t)
		repo.EXPECT().GetUserByUsername(ctx, "nobody").Return(nil, repository.ErrNotFound)

		_, err := svc.Authenticate(ctx, "nobody", "whatever")
		req.ErrorIs(err, apperrors.ErrBadCredentials)
	})
}

func TestUserService_UsernameExistsAndList(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := mocks.NewMockUserRepository(gomock.NewController(t))
	svc := NewUserService(repo, newTestLogger())

	repo.EXPECT().ExistsByUsername(ctx, "alice").Return(true, nil)
	repo.EXPECT().ListUsers(ctx).Return([]*models.User{alice, bob}, nil)

	exists, err := svc.UsernameExists(ctx, "alice")
	req.NoError(err)
	req.True(exists)

	users, err := svc.GetAllUsers(ctx)
	req.NoError(err)
	req.Len(users, 2)
}
