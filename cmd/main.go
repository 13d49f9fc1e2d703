package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	configs "github.com/videotube/backend/config"
	"github.com/videotube/backend/internal/handler"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/repository"
	"github.com/videotube/backend/internal/router"
	"github.com/videotube/backend/internal/service"
	"github.com/videotube/backend/pkg/database"
	"github.com/videotube/backend/pkg/logger"
	"github.com/videotube/backend/pkg/media"
	"github.com/videotube/backend/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	if config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	// Redis is optional; without it channel stats fall back to direct counts.
	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Warn("Redis unavailable, channel stats cache disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	uploader, err := media.NewUploader(startupCtx, config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize media uploader", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	// Services
	tokenService := service.NewTokenService(config)
	userService := service.NewUserService(userRepo, tokenService, uploader)

	var statsCache service.StatsCache
	if redisClient != nil {
		statsCache = redisClient
	}
	channelService := service.NewChannelService(userRepo, subscriptionRepo, videoRepo, statsCache, config.Redis.StatsTTL)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, config)
	userHandler := handler.NewUserHandler(userService, channelService, config)
	channelHandler := handler.NewChannelHandler(channelService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	jwtMiddleware := middleware.NewJWTMiddleware(tokenService, userRepo)

	engine := router.NewRouter(
		authHandler,
		userHandler,
		channelHandler,
		healthHandler,
		jwtMiddleware,
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:         ":" + config.App.Port,
		Handler:      engine,
		ReadTimeout:  config.App.Timeout,
		WriteTimeout: config.App.Timeout,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.GetLogger().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}
}
