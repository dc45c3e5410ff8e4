package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"vaultweb/chat-service/internal/apperrors"
	"vaultweb/chat-service/internal/models"
	"vaultweb/chat-service/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultMessagesLimit = 50
	maxMessagesLimit     = 100
)

// SaveMessageInput names the sender by id or username and exactly one
// destination. Timestamp is an optional RFC 3339 instant.
type SaveMessageInput struct {
	Content        string
	SenderID       string
	SenderUsername string
	GroupID        string
	PrivateChatID  string
	Timestamp      string
}

type ChatService interface {
	SaveMessage(ctx context.Context, in SaveMessageInput) (*models.ChatMessage, error)
	CreateGroup(ctx context.Context, name, ownerID string) (*models.Group, error)
	CreateChat(ctx context.Context, userID1, userID2 string) (*models.PrivateChat, error)
	GetChat(ctx context.Context, chatID string) (*models.PrivateChat, error)
	GetUserChats(ctx context.Context, userID string) ([]*models.PrivateChat, error)
	SendPrivateMessage(ctx context.Context, chatID, senderID, content string) (*models.ChatMessage, error)
	GetChatMessages(ctx context.Context, chatID string, limit int, beforeMessageID string) ([]*models.ChatMessage, error)
	MarkMessagesAsRead(ctx context.Context, chatID, userID string) (int, error)
}

type chatService struct {
	users    repository.UserRepository
	groups   repository.GroupRepository
	chats    repository.ChatRepository
	messages repository.MessageRepository
	logger   *logrus.Logger
}

func NewChatService(
	users repository.UserRepository,
	groups repository.GroupRepository,
	chats repository.ChatRepository,
	messages repository.MessageRepository,
	logger *logrus.Logger,
) ChatService {
	return &chatService{
		users:    users,
		groups:   groups,
		chats:    chats,
		messages: messages,
		logger:   logger,
	}
}

func (s *chatService) SaveMessage(ctx context.Context, in SaveMessageInput) (*models.ChatMessage, error) {
	sender, err := s.resolveSender(ctx, in.SenderID, in.SenderUsername)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().UTC()
	if in.Timestamp != "" {
		timestamp, err = time.Parse(time.RFC3339Nano, in.Timestamp)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindInvalidInput, err, "invalid timestamp %q", in.Timestamp)
		}
	}

	msg := &models.ChatMessage{
		ID:        uuid.New().String(),
		Content:   in.Content,
		SenderID:  sender.ID,
		Timestamp: timestamp,
	}

	// The group wins when both destinations are supplied.
	switch {
	case in.GroupID != "":
		group, err := s.groups.GetGroupByID(ctx, in.GroupID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.GroupNotFound("Group with id %s not found", in.GroupID)
			}
			return nil, err
		}
		msg.GroupID = &group.ID
	case in.PrivateChatID != "":
		chat, err := s.chats.GetChatByID(ctx, in.PrivateChatID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.InvalidInput("PrivateChat not found")
			}
			return nil, err
		}
		msg.PrivateChatID = &chat.ID
	default:
		return nil, apperrors.InvalidInput("Either groupId or privateChatId must be provided")
	}

	if err := s.messages.CreateMessage(ctx, msg); err != nil {
		s.logger.WithError(err).Error("Failed to save message")
		return nil, err
	}

	if msg.PrivateChatID != nil {
		if err := s.chats.TouchChat(ctx, *msg.PrivateChatID); err != nil {
			s.logger.WithError(err).Warn("Failed to bump chat activity")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"message_id":      msg.ID,
		"sender_id":       msg.SenderID,
		"group_id":        in.GroupID,
		"private_chat_id": in.PrivateChatID,
	}).Info("Message saved")

	return msg, nil
}

func (s *chatService) resolveSender(ctx context.Context, senderID, senderUsername string) (*models.User, error) {
	var (
		user *models.User
		err  error
	)

	switch {
	case senderID != "":
		user, err = s.users.GetUserByID(ctx, senderID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.SenderNotFound("Sender not found by ID")
		}
	case senderUsername != "":
		user, err = s.users.GetUserByUsername(ctx, senderUsername)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.SenderNotFound("Sender not found by username")
		}
	default:
		return nil, apperrors.InvalidInput("Sender information missing")
	}

	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *chatService) CreateGroup(ctx context.Context, name, ownerID string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.InvalidInput("group name must not be empty")
	}
	if _, err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	group := &models.Group{
		ID:      uuid.New().String(),
		Name:    name,
		OwnerID: ownerID,
	}

	if err := s.groups.CreateGroup(ctx, group); err != nil {
		s.logger.WithError(err).Error("Failed to create group")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"group_id": group.ID,
		"owner_id": ownerID,
	}).Info("Group created")

	return group, nil
}

func (s *chatService) CreateChat(ctx context.Context, userID1, userID2 string) (*models.PrivateChat, error) {
	if userID1 == "" || userID2 == "" {
		return nil, apperrors.InvalidInput("both chat participants must be provided")
	}
	if userID1 == userID2 {
		return nil, apperrors.InvalidInput("cannot create chat with yourself")
	}

	existingChat, err := s.chats.GetChatByUsers(ctx, userID1, userID2)
	if err == nil && existingChat != nil {
		return existingChat, nil
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	for _, id := range []string{userID1, userID2} {
		if _, err := s.requireUser(ctx, id); err != nil {
			return nil, err
		}
	}

	chat := &models.PrivateChat{
		ID:      uuid.New().String(),
		UserID1: userID1,
		UserID2: userID2,
	}

	err = s.chats.CreateChat(ctx, chat)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create chat")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"chat_id":  chat.ID,
		"user_id1": userID1,
		"user_id2": userID2,
	}).Info("Chat created")

	return chat, nil
}

func (s *chatService) GetChat(ctx context.Context, chatID string) (*models.PrivateChat, error) {
	chat, err := s.chats.GetChatByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.InvalidInput("PrivateChat not found")
		}
		s.logger.WithError(err).Error("Failed to get chat")
		return nil, err
	}

	return chat, nil
}

func (s *chatService) GetUserChats(ctx context.Context, userID string) ([]*models.PrivateChat, error) {
	chats, err := s.chats.GetUserChats(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get user chats")
		return nil, err
	}

	return chats, nil
}

func (s *chatService) SendPrivateMessage(ctx context.Context, chatID, senderID, content string) (*models.ChatMessage, error) {
	chat, err := s.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(senderID) {
		return nil, apperrors.NotMember("user is not a participant in this chat")
	}

	return s.SaveMessage(ctx, SaveMessageInput{
		Content:       content,
		SenderID:      senderID,
		PrivateChatID: chatID,
	})
}

func (s *chatService) GetChatMessages(ctx context.Context, chatID string, limit int, beforeMessageID string) ([]*models.ChatMessage, error) {
	if limit <= 0 {
		limit = defaultMessagesLimit
	}
	if limit > maxMessagesLimit {
		limit = maxMessagesLimit
	}

	messages, err := s.messages.GetChatMessages(ctx, chatID, limit, beforeMessageID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get chat messages")
		return nil, err
	}

	return messages, nil
}

func (s *chatService) MarkMessagesAsRead(ctx context.Context, chatID, userID string) (int, error) {
	chat, err := s.GetChat(ctx, chatID)
	if err != nil {
		return 0, err
	}

	if !chat.HasParticipant(userID) {
		return 0, apperrors.NotMember("user is not a participant in this chat")
	}

	count, err := s.messages.MarkMessagesAsRead(ctx, chatID, userID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to mark messages as read")
		return 0, err
	}

	return count, nil
}

func (s *chatService) requireUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.UserNotFound("User with id %s not found", id)
		}
		return nil, err
	}
	return user, nil
}
