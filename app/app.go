// File: app/app.go
package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"vidtube-api/config"
	"vidtube-api/db"
	"vidtube-api/handler"
	"vidtube-api/logger"
	"vidtube-api/repository"
	"vidtube-api/router"
	"vidtube-api/service"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	mediaStore, err := service.NewS3MediaStore(config.AppConfig.Media)
	if err != nil {
		logger.Log.Fatalf("Error configuring media store: %v", err)
	}

	// --- Wiring All Layers Together ---

	userRepo := repository.NewUserRepository(database)
	subRepo := repository.NewSubscriptionRepository(database)
	historyRepo := repository.NewHistoryRepository(database)

	authService := service.NewAuthService(userRepo, config.AppConfig.Auth)
	userService := service.NewUserService(userRepo, authService, mediaStore, redisClient)
	channelService := service.NewChannelService(userRepo, subRepo, historyRepo)

	userHandler := handler.NewUserHandler(userService, authService, config.AppConfig.Auth)
	channelHandler := handler.NewChannelHandler(channelService)
	authMW := handler.NewAuthMiddleware(authService, userRepo)

	r := router.NewRouter(userHandler, channelHandler, authMW, config.AppConfig.Server.CORSOrigin)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
