package httpapi

import (
	"net/http"
	"time"

	"github.com/samber/lo"

	"vaultweb/chat-service/internal/apperrors"
	"vaultweb/chat-service/internal/auth"
	"vaultweb/chat-service/internal/models"
	"vaultweb/chat-service/internal/service"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"user_id":    user.ID,
		"expires_at": expiresAt,
	})
}

func (s *Server) handleUsernameExists(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		s.writeError(w, r, apperrors.InvalidInput("username query parameter is required"))
		return
	}

	exists, err := s.users.UsernameExists(r.Context(), username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.GetAllUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(users, func(u *models.User, _ int) userResponse {
		return toUserResponse(u)
	}))
}

type createGroupRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.KindInvalidInput, err, "group name is required and limited to 100 characters"))
		return
	}

	ownerID, _ := auth.UserIDFromContext(r.Context())
	group, err := s.chats.CreateGroup(r.Context(), req.Name, ownerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":         group.ID,
		"name":       group.Name,
		"owner_id":   group.OwnerID,
		"created_at": group.CreatedAt,
	})
}

type saveMessageRequest struct {
	Content       string `json:"content" validate:"required,max=4000"`
	GroupID       string `json:"group_id"`
	PrivateChatID string `json:"private_chat_id"`
	Timestamp     string `json:"timestamp"`
}

type messageResponse struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	SenderID      string    `json:"sender_id"`
	Timestamp     time.Time `json:"timestamp"`
	GroupID       *string   `json:"group_id,omitempty"`
	PrivateChatID *string   `json:"private_chat_id,omitempty"`
}

// handleSaveMessage always sends as the session user; a sender in the body is ignored.
func (s *Server) handleSaveMessage(w http.ResponseWriter, r *http.Request) {
	var req saveMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.KindInvalidInput, err, "content is required and limited to 4000 characters"))
		return
	}

	senderID, _ := auth.UserIDFromContext(r.Context())
	msg, err := s.chats.SaveMessage(r.Context(), service.SaveMessageInput{
		Content:       req.Content,
		SenderID:      senderID,
		GroupID:       req.GroupID,
		PrivateChatID: req.PrivateChatID,
		Timestamp:     req.Timestamp,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{
		ID:            msg.ID,
		Content:       msg.Content,
		SenderID:      msg.SenderID,
		Timestamp:     msg.Timestamp,
		GroupID:       msg.GroupID,
		PrivateChatID: msg.PrivateChatID,
	})
}
