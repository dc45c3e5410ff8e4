package service

import (
	"context"
	"errors"
	"strings"

	"vaultweb/chat-service/internal/apperrors"
	"vaultweb/chat-service/internal/auth"
	"vaultweb/chat-service/internal/models"
	"vaultweb/chat-service/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

type registration struct {
	Username string `validate:"required,min=3,max=50"`
	Password string `validate:"required,min=8,max=72"`
}

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

type userService struct {
	users  repository.UserRepository
	logger *logrus.Logger
}

func NewUserService(users repository.UserRepository, logger *logrus.Logger) UserService {
	return &userService{
		users:  users,
		logger: logger,
	}
}

func (s *userService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := validate.Struct(registration{Username: username, Password: password}); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, err, "%s", describeValidation(err))
	}
	if len(password) > maxPasswordBytes {
		return nil, apperrors.InvalidInput("password must be at most %d bytes", maxPasswordBytes)
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.DuplicateUsername("Username '%s' is already taken", username)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperrors.Wrap(apperrors.KindInvalidInput, err, "password must be at most %d bytes", maxPasswordBytes)
		}
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User registered")

	return user, nil
}

func (s *userService) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.users.ExistsByUsername(ctx, strings.TrimSpace(username))
}

func (s *userService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list users")
		return nil, err
	}
	return users, nil
}

// Authenticate reports every failure as bad credentials so callers cannot
// tell an unknown username from a wrong password.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.BadCredentials()
		}
		return nil, err
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return nil, apperrors.BadCredentials()
	}

	return user, nil
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, field+" must be at least "+fe.Param()+" characters")
		case "max":
			msgs = append(msgs, field+" must be at most "+fe.Param()+" characters")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
