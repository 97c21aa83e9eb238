// File: slotsync/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"slotsync/config"
	"slotsync/cron"
	"slotsync/database"
	availabilityRepo "slotsync/database/repository/availability"
	groupRepo "slotsync/database/repository/group"
	subscriptionRepo "slotsync/database/repository/subscription"
	userRepoPkg "slotsync/database/repository/user"
	"slotsync/handlers"
	"slotsync/middleware"
	"slotsync/routes"
	availabilitySvc "slotsync/services/availability"
	groupSvc "slotsync/services/group"
	"slotsync/services/heatmap"
	"slotsync/services/notification"
	userSvc "slotsync/services/user"
	"slotsync/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("main: failed to load configuration: " + err.Error())
	}

	logger := utils.NewLogger(cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	mongoClient, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Sugar().Errorf("main: failed to disconnect MongoDB: %v", err)
		}
	}()
	db := mongoClient.Database(cfg.DatabaseName)

	scopeRedis, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisScopeDB)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to connect to Redis: %v", err)
	}
	defer scopeRedis.Close()

	fcmClient, err := utils.NewFCMClient(cfg.FirebaseCredentialsPath)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize Firebase messaging: %v", err)
	}

	// repositories.
	availRepo := availabilityRepo.NewMongoAvailabilityRepo(db)
	grpRepo := groupRepo.NewMongoGroupRepo(db)
	subRepo := subscriptionRepo.NewMongoSubscriptionRepo(db)
	usrRepo := userRepoPkg.NewMongoUserRepo(db)

	// services.
	userService := &userSvc.DefaultUserService{
		Repo:      usrRepo,
		JWTSecret: cfg.JWTSecret,
		Logger:    logger,
	}
	availabilityService := &availabilitySvc.DefaultAvailabilityService{
		Repo:   availRepo,
		Users:  usrRepo,
		Logger: logger,
	}
	groupService := &groupSvc.DefaultGroupService{
		Repo:   grpRepo,
		Logger: logger,
	}
	heatmapService := &heatmap.DefaultHeatmapService{
		Groups:       grpRepo,
		Availability: availRepo,
		Cache:        heatmap.NewRedisScopeCache(scopeRedis),
		Logger:       logger,
	}
	notificationService := &notification.DefaultNotificationService{
		Groups: grpRepo,
		Users:  usrRepo,
		Subs:   subRepo,
		Sender: &notification.FCMPushSender{Client: fcmClient},
		Logger: logger,
	}

	// Background worker for queued pushes and the weekly digest.
	queueOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
	queueClient := asynq.NewClient(queueOpt)
	defer queueClient.Close()

	worker := cron.NewWorker(queueOpt, notificationService, logger)
	if err := worker.Start(); err != nil {
		logger.Sugar().Fatalf("main: failed to start notification worker: %v", err)
	}
	defer worker.Shutdown()

	// Create the Gin router.
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler(logger))
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Auth:         handlers.NewAuthHandler(userService),
		Availability: handlers.NewAvailabilityHandler(availabilityService),
		Calendar:     handlers.NewCalendarHandler(heatmapService),
		Group:        handlers.NewGroupHandler(groupService),
		Subscription: handlers.NewSubscriptionHandler(subRepo),
		Notify:       handlers.NewNotifyHandler(queueClient, notificationService, cfg.CronSecret),
	}

	routes.RegisterRoutes(router, cfg, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
