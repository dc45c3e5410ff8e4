package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"vaultweb/chat-service/internal/apperrors"
	"vaultweb/chat-service/internal/auth"
	"vaultweb/chat-service/internal/config"
	grpcServer "vaultweb/chat-service/internal/grpc"
	"vaultweb/chat-service/internal/httpapi"
	"vaultweb/chat-service/internal/imaging"
	"vaultweb/chat-service/internal/repository"
	"vaultweb/chat-service/internal/service"

	pb "github.com/kegazani/metachat-proto/chat"
)

type tableInitializer interface {
	InitializeTables() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger := cfg.Logging.NewLogger()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	logger.Info("Connected to PostgreSQL database")

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	imageRepo := repository.NewChatImageRepository(db)

	// Order matters: later tables reference earlier ones.
	for _, repo := range []tableInitializer{userRepo, groupRepo, chatRepo, messageRepo, imageRepo} {
		if err := repo.InitializeTables(); err != nil {
			logger.Fatalf("Failed to initialize database tables: %v", err)
		}
	}

	detector, err := imaging.NewDetector(cfg.ChatImage.Detection)
	if err != nil {
		logger.Fatalf("Failed to configure image detection: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	chatService := service.NewChatService(userRepo, groupRepo, chatRepo, messageRepo, logger)

	api := httpapi.NewServer(httpapi.Options{
		Users:             service.NewUserService(userRepo, logger),
		Chats:             chatService,
		Images:            service.NewChatImageService(imageRepo, userRepo, logger),
		ImageValidator:    imaging.NewValidator(cfg.ChatImage.MaxSizeBytes, cfg.ChatImage.AllowedTypes(), detector),
		Tokens:            tokens,
		Errors:            apperrors.NewMapper(cfg.HTTP.MaxMultipartBytes, cfg.Errors.ExposeInternal),
		MaxMultipartBytes: cfg.HTTP.MaxMultipartBytes,
		Logger:            logger,
	})

	httpAddress := net.JoinHostPort(cfg.Server.Host, cfg.Server.HTTPPort)
	httpSrv := &http.Server{
		Addr:              httpAddress,
		Handler:           api.Routes(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	go func() {
		logger.Infof("Starting HTTP server on %s", httpAddress)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	grpcAddress := net.JoinHostPort(cfg.Server.Host, cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddress)
	if err != nil {
		logger.Fatalf("Failed to listen on %s: %v", grpcAddress, err)
	}

	s := grpc.NewServer(grpc.UnaryInterceptor(tokens.UnaryInterceptor))
	pb.RegisterChatServiceServer(s, grpcServer.NewChatServer(chatService, logger))

	if cfg.GRPC.ReflectionEnabled {
		reflection.Register(s)
		logger.Info("gRPC reflection enabled")
	}

	go func() {
		logger.Infof("Starting gRPC server on %s", grpcAddress)
		if err := s.Serve(lis); err != nil {
			logger.Fatalf("Failed to start gRPC server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GRPC.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("HTTP server shutdown")
	}

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("gRPC server exited gracefully")
	case <-ctx.Done():
		logger.Info("gRPC server shutdown timeout")
		s.Stop()
	}

	logger.WithFields(logrus.Fields{
		"http": httpAddress,
		"grpc": grpcAddress,
	}).Info("Server exited")
}
