package service

import (
	"context"
	"errors"
	"time"

	"vaultweb/chat-service/internal/apperrors"
	"vaultweb/chat-service/internal/models"
	"vaultweb/chat-service/internal/repository"

	"github.com/sirupsen/logrus"
)

type ChatImageService interface {
	UploadChatImage(ctx context.Context, data []byte, senderID, receiverID string) (int64, error)
	GetChatImage(ctx context.Context, id int64, requesterID string) (*models.ChatImage, error)
}

type chatImageService struct {
	images repository.ChatImageRepository
	users  repository.UserRepository
	logger *logrus.Logger
}

func NewChatImageService(images repository.ChatImageRepository, users repository.UserRepository, logger *logrus.Logger) ChatImageService {
	return &chatImageService{
		images: images,
		users:  users,
		logger: logger,
	}
}

// UploadChatImage stores already validated image bytes between two existing
// users and returns the generated image id.
func (s *chatImageService) UploadChatImage(ctx context.Context, data []byte, senderID, receiverID string) (int64, error) {
	if senderID == "" {
		return 0, apperrors.InvalidInput("senderUserId must not be null")
	}
	if receiverID == "" {
		return 0, apperrors.InvalidInput("receiverUserId must not be null")
	}

	if err := s.requireUser(ctx, senderID, "Sender"); err != nil {
		return 0, err
	}
	if err := s.requireUser(ctx, receiverID, "Receiver"); err != nil {
		return 0, err
	}

	image := &models.ChatImage{
		Content:    data,
		SenderID:   senderID,
		ReceiverID: receiverID,
		CreatedAt:  time.Now().UTC(),
	}

	id, err := s.images.Insert(ctx, image)
	if err != nil {
		s.logger.WithError(err).Error("Failed to store chat image")
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"image_id":    id,
		"sender_id":   senderID,
		"receiver_id": receiverID,
		"size_bytes":  len(data),
	}).Info("Chat image uploaded")

	return id, nil
}

// GetChatImage returns an image to its sender or receiver only.
func (s *chatImageService) GetChatImage(ctx context.Context, id int64, requesterID string) (*models.ChatImage, error) {
	image, err := s.images.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ImageNotFound("Image with id %d not found", id)
		}
		return nil, err
	}

	if image.SenderID != requesterID && image.ReceiverID != requesterID {
		return nil, apperrors.AccessDenied("image %d is not shared with this user", id)
	}

	return image, nil
}

func (s *chatImageService) requireUser(ctx context.Context, id, role string) error {
	_, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.UserNotFound("%s with id %s not found", role, id)
		}
		return err
	}
	return nil
}
