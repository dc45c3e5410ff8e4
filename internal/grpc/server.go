package grpc

import (
	"context"

	"vaultweb/chat-service/internal/apperrors"
	"vaultweb/chat-service/internal/auth"
	"vaultweb/chat-service/internal/models"
	"vaultweb/chat-service/internal/service"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	pb "github.com/kegazani/metachat-proto/chat"
)

type ChatServer struct {
	pb.UnimplementedChatServiceServer
	service service.ChatService
	logger  *logrus.Logger
}

func NewChatServer(svc service.ChatService, logger *logrus.Logger) *ChatServer {
	return &ChatServer{
		service: svc,
		logger:  logger,
	}
}

func (s *ChatServer) CreateChat(ctx context.Context, req *pb.CreateChatRequest) (*pb.CreateChatResponse, error) {
	s.logger.WithFields(logrus.Fields{
		"user_id1": req.UserId1,
		"user_id2": req.UserId2,
	}).Info("Creating chat via gRPC")

	if err := s.requireCaller(ctx, req.UserId1, req.UserId2); err != nil {
		return nil, s.toStatus(err, "failed to create chat")
	}

	chat, err := s.service.CreateChat(ctx, req.UserId1, req.UserId2)
	if err != nil {
		return nil, s.toStatus(err, "failed to create chat")
	}

	return &pb.CreateChatResponse{
		Chat: chatToProto(chat),
	}, nil
}

func (s *ChatServer) GetChat(ctx context.Context, req *pb.GetChatRequest) (*pb.GetChatResponse, error) {
	s.logger.WithField("chat_id", req.ChatId).Info("Getting chat via gRPC")

	chat, err := s.participantChat(ctx, req.ChatId)
	if err != nil {
		return nil, s.toStatus(err, "failed to get chat")
	}

	return &pb.GetChatResponse{
		Chat: chatToProto(chat),
	}, nil
}

func (s *ChatServer) GetUserChats(ctx context.Context, req *pb.GetUserChatsRequest) (*pb.GetUserChatsResponse, error) {
	s.logger.WithField("user_id", req.UserId).Info("Getting user chats via gRPC")

	if err := s.requireCaller(ctx, req.UserId); err != nil {
		return nil, s.toStatus(err, "failed to get user chats")
	}

	chats, err := s.service.GetUserChats(ctx, req.UserId)
	if err != nil {
		return nil, s.toStatus(err, "failed to get user chats")
	}

	return &pb.GetUserChatsResponse{
		Chats: lo.Map(chats, func(c *models.PrivateChat, _ int) *pb.Chat { return chatToProto(c) }),
	}, nil
}

func (s *ChatServer) SendMessage(ctx context.Context, req *pb.SendMessageRequest) (*pb.SendMessageResponse, error) {
	s.logger.WithFields(logrus.Fields{
		"chat_id":   req.ChatId,
		"sender_id": req.SenderId,
	}).Info("Sending message via gRPC")

	if err := s.requireCaller(ctx, req.SenderId); err != nil {
		return nil, s.toStatus(err, "failed to send message")
	}

	msg, err := s.service.SendPrivateMessage(ctx, req.ChatId, req.SenderId, req.Content)
	if err != nil {
		return nil, s.toStatus(err, "failed to send message")
	}

	return &pb.SendMessageResponse{
		Message: messageToProto(msg),
	}, nil
}

func (s *ChatServer) GetChatMessages(ctx context.Context, req *pb.GetChatMessagesRequest) (*pb.GetChatMessagesResponse, error) {
	s.logger.WithField("chat_id", req.ChatId).Info("Getting chat messages via gRPC")

	if _, err := s.participantChat(ctx, req.ChatId); err != nil {
		return nil, s.toStatus(err, "failed to get chat messages")
	}

	messages, err := s.service.GetChatMessages(ctx, req.ChatId, int(req.Limit), req.BeforeMessageId)
	if err != nil {
		return nil, s.toStatus(err, "failed to get chat messages")
	}

	return &pb.GetChatMessagesResponse{
		Messages: lo.Map(messages, func(m *models.ChatMessage, _ int) *pb.Message { return messageToProto(m) }),
	}, nil
}

func (s *ChatServer) MarkMessagesAsRead(ctx context.Context, req *pb.MarkMessagesAsReadRequest) (*pb.MarkMessagesAsReadResponse, error) {
	s.logger.WithFields(logrus.Fields{
		"chat_id": req.ChatId,
		"user_id": req.UserId,
	}).Info("Marking messages as read via gRPC")

	if err := s.requireCaller(ctx, req.UserId); err != nil {
		return nil, s.toStatus(err, "failed to mark messages as read")
	}

	count, err := s.service.MarkMessagesAsRead(ctx, req.ChatId, req.UserId)
	if err != nil {
		return nil, s.toStatus(err, "failed to mark messages as read")
	}

	return &pb.MarkMessagesAsReadResponse{
		MarkedCount: int32(count),
	}, nil
}

// requireCaller checks that the authenticated caller is one of the given users.
func (s *ChatServer) requireCaller(ctx context.Context, userIDs ...string) error {
	caller, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return apperrors.Unauthorized("user is not authenticated")
	}
	if !lo.Contains(userIDs, caller) {
		return apperrors.AccessDenied("caller may only act on their own behalf")
	}
	return nil
}

func (s *ChatServer) participantChat(ctx context.Context, chatID string) (*models.PrivateChat, error) {
	caller, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, apperrors.Unauthorized("user is not authenticated")
	}

	chat, err := s.service.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(caller) {
		return nil, apperrors.NotMember("user is not a participant in this chat")
	}
	return chat, nil
}

func (s *ChatServer) toStatus(err error, action string) error {
	code := apperrors.GRPCCode(err)
	if code == codes.Internal {
		s.logger.WithError(err).Error(action)
		return status.Errorf(codes.Internal, "%s", action)
	}
	s.logger.WithError(err).Warn(action)
	return status.Error(code, err.Error())
}

func chatToProto(chat *models.PrivateChat) *pb.Chat {
	return &pb.Chat{
		Id:        chat.ID,
		UserId1:   chat.UserID1,
		UserId2:   chat.UserID2,
		CreatedAt: timestamppb.New(chat.CreatedAt),
		UpdatedAt: timestamppb.New(chat.UpdatedAt),
	}
}

func messageToProto(msg *models.ChatMessage) *pb.Message {
	protoMsg := &pb.Message{
		Id:        msg.ID,
		ChatId:    lo.FromPtr(msg.PrivateChatID),
		SenderId:  msg.SenderID,
		Content:   msg.Content,
		CreatedAt: timestamppb.New(msg.Timestamp),
	}

	if msg.ReadAt != nil {
		protoMsg.ReadAt = timestamppb.New(*msg.ReadAt)
	}

	return protoMsg
}
