package httpapi

import (
	"net/http"
	"time"

	"vaultweb/chat-service/internal/apperrors"
	"vaultweb/chat-service/internal/auth"
	"vaultweb/chat-service/internal/imaging"
	"vaultweb/chat-service/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type Server struct {
	users             service.UserService
	chats             service.ChatService
	images            service.ChatImageService
	validator         *imaging.Validator
	tokens            *auth.TokenManager
	errors            *apperrors.Mapper
	validate          *validator.Validate
	maxMultipartBytes int64
	logger            *logrus.Logger
}

type Options struct {
	Users             service.UserService
	Chats             service.ChatService
	Images            service.ChatImageService
	ImageValidator    *imaging.Validator
	Tokens            *auth.TokenManager
	Errors            *apperrors.Mapper
	MaxMultipartBytes int64
	Logger            *logrus.Logger
}

func NewServer(opts Options) *Server {
	return &Server{
		users:             opts.Users,
		chats:             opts.Chats,
		images:            opts.Images,
		validator:         opts.ImageValidator,
		tokens:            opts.Tokens,
		errors:            opts.Errors,
		validate:          validator.New(),
		maxMultipartBytes: opts.MaxMultipartBytes,
		logger:            opts.Logger,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/users/exists", s.handleUsernameExists)
	mux.Handle("GET /api/users", s.requireAuth(s.handleListUsers))
	mux.Handle("POST /api/groups", s.requireAuth(s.handleCreateGroup))
	mux.Handle("POST /api/chat/messages", s.requireAuth(s.handleSaveMessage))
	mux.Handle("POST /api/chat/upload-image", s.requireAuth(s.handleUploadImage))
	mux.Handle("GET /api/chat/images/{id}", s.requireAuth(s.handleGetImage))

	return s.logging(mux)
}

// requireAuth resolves the session user from the bearer token.
func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			s.writeError(w, r, apperrors.Unauthorized("user is not authenticated"))
			return
		}

		claims, err := s.tokens.Validate(token)
		if err != nil {
			s.writeError(w, r, apperrors.Unauthorized("%s", err.Error()))
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), claims.UserID)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("HTTP request")
	})
}
