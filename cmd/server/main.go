package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/bako110/backend/internal/config"
	"github.com/bako110/backend/internal/controller"
	"github.com/bako110/backend/internal/middleware"
	"github.com/bako110/backend/internal/registry"
	"github.com/bako110/backend/internal/repository"
	"github.com/bako110/backend/internal/service"
	"github.com/bako110/backend/internal/token"
	"github.com/bako110/backend/internal/utils"
	"github.com/bako110/backend/internal/worker"
)

func main() {
	// Initialize zap logger
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zap.L().Info("starting auth service", zap.String("environment", cfg.Environment))

	// Initialize relational store (accounts)
	db, err := utils.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := utils.CloseDB(db); err != nil {
			zap.L().Error("error closing database", zap.Error(err))
		}
	}()

	// Initialize profile document store
	mongoCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mongoClient, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		log.Fatalf("Failed to connect to mongo: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			zap.L().Error("error disconnecting mongo", zap.Error(err))
		}
	}()
	profileStore := repository.NewProfileStore(mongoClient.Database(cfg.MongoDB))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)

	// Revocation store: shared Redis set when configured, in-memory otherwise
	var revoked registry.RevocationStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		revoked = registry.NewRedisRevocationStore(redisClient, "")
		zap.L().Info("using redis revocation store", zap.String("addr", cfg.RedisAddr))
	} else {
		revoked = registry.NewMemoryRevocationStore()
		zap.L().Info("using in-memory revocation store")
	}

	// Reset-code registry and its sweep worker
	resetCodes := registry.NewResetCodeRegistry(cfg.ResetCodeLength, cfg.ResetCodeTTL)
	sweepWorker := worker.NewSweepWorker(resetCodes, cfg.ResetSweepInterval)
	sweepWorker.Start()
	defer sweepWorker.Stop()

	// Initialize delivery providers
	var emailProvider worker.Provider
	if cfg.Environment == "production" {
		emailProvider = worker.NewSMTPEmailProvider(
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SMTPUser,
			cfg.SMTPPassword,
			cfg.EmailFrom,
		)
	} else {
		emailProvider = worker.NewMockProvider()
	}

	notifyPool := worker.NewNotifyPool(
		cfg.NotifyWorkerPoolSize,
		cfg.NotifyTaskQueueSize,
		map[worker.Channel]worker.Provider{
			worker.ChannelEmail: emailProvider,
			worker.ChannelSMS:   worker.NewLogSMSProvider(),
		},
	)
	defer notifyPool.Stop()

	// Initialize core services
	hasher := utils.NewPasswordHasher()
	validator := utils.NewValidator()
	tokens := token.NewService(cfg.JWTSecret, cfg.AccessTokenExpiry)
	socialVerifier := service.NewHTTPProviderVerifier(cfg.SocialTimeout)

	authService := service.NewAuthService(
		userRepo,
		profileStore,
		hasher,
		validator,
		tokens,
		revoked,
		resetCodes,
		socialVerifier,
		service.AuthServiceConfig{
			PasswordMinLength: cfg.PasswordMinLength,
			ResetCodeTTL:      cfg.ResetCodeTTL,
			NotifyPool:        notifyPool,
		},
	)

	// HTTP server
	authController := controller.NewAuthController(authService)
	handler := middleware.Chain(
		authController.Routes(),
		middleware.Recovery,
		middleware.Logging,
	)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPHost, cfg.HTTPPort)
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		zap.L().Info("starting HTTP server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	zap.L().Info("shutdown signal received, gracefully shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown error", zap.Error(err))
	}

	zap.L().Info("server stopped")
}
