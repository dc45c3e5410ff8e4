package grpc

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "github.com/kegazani/metachat-proto/chat"

	"vaultweb/chat-service/internal/auth"
	"vaultweb/chat-service/internal/mocks"
	"vaultweb/chat-service/internal/models"
	"vaultweb/chat-service/internal/service"
)

const (
	aliceID = "11111111-1111-1111-1111-111111111111"
	bobID   = "22222222-2222-2222-2222-222222222222"
	eveID   = "33333333-3333-3333-3333-333333333333"
	chatID  = "55555555-5555-5555-5555-555555555555"
)

type fixture struct {
	users    *mocks.MockUserRepository
	chats    *mocks.MockChatRepository
	messages *mocks.MockMessageRepository
	server   *ChatServer
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := fixture{
		users:    mocks.NewMockUserRepository(ctrl),
		chats:    mocks.NewMockChatRepository(ctrl),
		messages: mocks.NewMockMessageRepository(ctrl),
	}
	svc := service.NewChatService(f.users, mocks.NewMockGroupRepository(ctrl), f.chats, f.messages, logger)
	f.server = NewChatServer(svc, logger)
	return f
}

func as(userID string) context.Context {
	return auth.WithUserID(context.Background(), userID)
}

var chat = &models.PrivateChat{
	ID:        chatID,
	UserID1:   aliceID,
	UserID2:   bobID,
	CreatedAt: time.Now().UTC(),
	UpdatedAt: time.Now().UTC(),
}

func TestSendMessage(t *testing.T) {
	t.Run("should persist a message from a participant", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		ctx := as(aliceID)

		f.chats.EXPECT().GetChatByID(ctx, chatID).Return(chat, nil).Times(2)
		f.users.EXPECT().GetUserByID(ctx, aliceID).Return(&models.User{ID: aliceID}, nil)
		f.messages.EXPECT().CreateMessage(ctx, gomock.Any()).Return(nil)
		f.chats.EXPECT().TouchChat(ctx, chatID).Return(nil)

		resp, err := f.server.SendMessage(ctx, &pb.SendMessageRequest{
			ChatId:   chatID,
			SenderId: aliceID,
			Content:  "hello bob",
		})
		req.NoError(err)
		req.Equal(chatID, resp.Message.ChatId)
		req.Equal(aliceID, resp.Message.SenderId)
		req.Equal("hello bob", resp.Message.Content)
	})

	t.Run("should refuse impersonation", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		_, err := f.server.SendMessage(as(eveID), &pb.SendMessageRequest{
			ChatId:   chatID,
			SenderId: aliceID,
			Content:  "hi, it's alice",
		})
		req.Equal(codes.PermissionDenied, status.Code(err))
	})

	t.Run("should refuse non participants", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		ctx := as(eveID)
		f.chats.EXPECT().GetChatByID(ctx, chatID).Return(chat, nil)
		f.messages.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Times(0)

		_, err := f.server.SendMessage(ctx, &pb.SendMessageRequest{
			ChatId:   chatID,
			SenderId: eveID,
			Content:  "let me in",
		})
		req.Equal(codes.PermissionDenied, status.Code(err))
	})

	t.Run("should require authentication", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		_, err := f.server.SendMessage(context.Background(), &pb.SendMessageRequest{ChatId: chatID, SenderId: aliceID})
		req.Equal(codes.Unauthenticated, status.Code(err))
	})
}

func TestGetChat(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := as(bobID)
	f.chats.EXPECT().GetChatByID(ctx, chatID).Return(chat, nil)

	resp, err := f.server.GetChat(ctx, &pb.GetChatRequest{ChatId: chatID})
	req.NoError(err)
	req.Equal(chatID, resp.Chat.Id)
	req.Equal(aliceID, resp.Chat.UserId1)
	req.Equal(bobID, resp.Chat.UserId2)
}

func TestGetUserChats(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := as(aliceID)
	f.chats.EXPECT().GetUserChats(ctx, aliceID).Return([]*models.PrivateChat{chat}, nil)

	resp, err := f.server.GetUserChats(ctx, &pb.GetUserChatsRequest{UserId: aliceID})
	req.NoError(err)
	req.Len(resp.Chats, 1)

	_, err = f.server.GetUserChats(ctx, &pb.GetUserChatsRequest{UserId: bobID})
	req.Equal(codes.PermissionDenied, status.Code(err))
}

func TestMarkMessagesAsRead(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := as(bobID)
	f.chats.EXPECT().GetChatByID(ctx, chatID).Return(chat, nil)
	f.messages.EXPECT().MarkMessagesAsRead(ctx, chatID, bobID).Return(2, nil)

	resp, err := f.server.MarkMessagesAsRead(ctx, &pb.MarkMessagesAsReadRequest{ChatId: chatID, UserId: bobID})
	req.NoError(err)
	req.Equal(int32(2), resp.MarkedCount)
}

func TestGetChatMessages(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := as(aliceID)
	privateChatID := chatID
	stored := []*models.ChatMessage{
		{ID: "m-1", Content: "one", SenderID: aliceID, Timestamp: time.Now().UTC(), PrivateChatID: &privateChatID},
	}

	f.chats.EXPECT().GetChatByID(ctx, chatID).Return(chat, nil)
	f.messages.EXPECT().GetChatMessages(ctx, chatID, 50, "").Return(stored, nil)

	resp, err := f.server.GetChatMessages(ctx, &pb.GetChatMessagesRequest{ChatId: chatID})
	req.NoError(err)
	req.Len(resp.Messages, 1)
	req.Equal("one", resp.Messages[0].Content)
	req.Nil(resp.Messages[0].ReadAt)
}

func TestToStatus_HidesInternalDetail(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := as(aliceID)
	f.chats.EXPECT().GetUserChats(ctx, aliceID).Return(nil, io.ErrUnexpectedEOF)

	_, err := f.server.GetUserChats(ctx, &pb.GetUserChatsRequest{UserId: aliceID})
	st, _ := status.FromError(err)
	req.Equal(codes.Internal, st.Code())
	req.Equal("failed to get user chats", st.Message())
}
