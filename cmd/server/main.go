package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campuspool/internal/config"
	"campuspool/internal/handlers"
	"campuspool/internal/middleware"
	"campuspool/internal/repositories/mongodb"
	"campuspool/internal/services"
	"campuspool/pkg/cache"
	"campuspool/pkg/database"
	"campuspool/pkg/logger"
	"campuspool/pkg/oauth"
	"campuspool/pkg/push"
	"campuspool/pkg/sms"
	"campuspool/pkg/storage"
	ws "campuspool/pkg/websocket"
	"campuspool/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: logFormat(cfg),
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// MongoDB
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database, log).Up(); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Redis
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisCache.Close()

	cacheService := services.NewCacheService(redisCache, log, 15*time.Minute)

	// Repositories
	userRepo := mongodb.NewUserRepository(db.Database, cacheService)
	rideRepo := mongodb.NewRideRepository(db.Database, cacheService)
	requestRepo := mongodb.NewRideRequestRepository(db.Database)
	messageRepo := mongodb.NewMessageRepository(db.Database)
	ratingRepo := mongodb.NewRatingRepository(db.Database)
	notificationRepo := mongodb.NewNotificationRepository(db.Database)

	// Delivery providers. Each one is optional; a missing credential just
	// disables that channel.
	var fcmProvider push.PushProvider
	if cfg.Push.FCM.Credentials != "" {
		provider, err := push.NewFCMProvider(cfg.Push.FCM.Credentials)
		if err != nil {
			log.Warnf("fcm disabled: %v", err)
		} else {
			fcmProvider = provider
		}
	}

	var apnsProvider push.PushProvider
	if cfg.Push.APNS.KeyFile != "" {
		provider, err := push.NewAPNSProvider(
			cfg.Push.APNS.KeyFile,
			cfg.Push.APNS.KeyID,
			cfg.Push.APNS.TeamID,
			cfg.Push.APNS.BundleID,
			cfg.Push.APNS.Production,
		)
		if err != nil {
			log.Warnf("apns disabled: %v", err)
		} else {
			apnsProvider = provider
		}
	}

	var smsProvider sms.SMSProvider
	switch cfg.SMS.Provider {
	case "twilio":
		if cfg.SMS.Twilio.AccountSID != "" {
			smsProvider = sms.NewTwilioProvider(
				cfg.SMS.Twilio.AccountSID,
				cfg.SMS.Twilio.AuthToken,
				cfg.SMS.Twilio.FromNumber,
			)
		}
	case "aws_sns":
		provider, err := sms.NewAWSSNSProvider(cfg.SMS.AWS.Region)
		if err != nil {
			log.Warnf("sms disabled: %v", err)
		} else {
			smsProvider = provider
		}
	}

	storageProvider, err := newStorageProvider(cfg)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	googleProvider := oauth.NewGoogleOAuthProvider(
		cfg.OAuth.Google.ClientID,
		cfg.OAuth.Google.ClientSecret,
		cfg.OAuth.Google.RedirectURL,
	)

	// WebSocket hub
	wsHandler := ws.NewHandler(&ws.Config{
		ReadBufferSize:    cfg.WebSocket.ReadBufferSize,
		WriteBufferSize:   cfg.WebSocket.WriteBufferSize,
		HandshakeTimeout:  cfg.WebSocket.HandshakeTimeout,
		PingInterval:      cfg.WebSocket.PingInterval,
		PongTimeout:       cfg.WebSocket.PongTimeout,
		MaxConnections:    cfg.WebSocket.MaxConnections,
		EnableCompression: cfg.WebSocket.EnableCompression,
		AllowedOrigins:    cfg.WebSocket.AllowedOrigins,
	}, log)

	// Services
	notificationService := services.NewNotificationService(
		notificationRepo,
		userRepo,
		wsHandler.GetHub(),
		fcmProvider,
		apnsProvider,
		smsProvider,
		cfg.SMS.DefaultFrom,
		log,
	)
	userService := services.NewUserService(userRepo, storageProvider, googleProvider, cfg.App.AllowedEmailDomains, log)
	rideService := services.NewRideService(rideRepo, requestRepo, notificationService, log)
	fareService := services.NewFareService()
	messageService := services.NewMessageService(messageRepo, rideRepo, notificationService, log)
	ratingService := services.NewRatingService(ratingRepo, userRepo, notificationService, log)

	// Router
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			log.Fatalf("invalid trusted proxies: %v", err)
		}
	}

	v1 := router.Group("/api/v1")
	routes.Setup(v1, &routes.Handlers{
		User:         handlers.NewUserHandler(userService, log),
		Ride:         handlers.NewRideHandler(rideService, log),
		Fare:         handlers.NewFareHandler(fareService, log),
		Message:      handlers.NewMessageHandler(messageService, log),
		Notification: handlers.NewNotificationHandler(notificationService, log),
		Rating:       handlers.NewRatingHandler(ratingService, log),
	}, cfg.Security.JWTSecret)

	router.GET("/ws", middleware.AuthRequired(cfg.Security.JWTSecret), wsHandler.HandleWebSocket)

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		if err := cacheService.Ping(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
		}
		if err := db.Ping(); err != nil {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"version": cfg.App.Version,
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Infof("starting %s (%s) on port %d", cfg.App.Name, cfg.App.Environment, cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("forced shutdown: %v", err)
	}
}

func logFormat(cfg *config.Config) string {
	if cfg.App.Environment == "production" {
		return "json"
	}
	return "text"
}

func newStorageProvider(cfg *config.Config) (storage.StorageProvider, error) {
	switch cfg.Storage.Provider {
	case "s3":
		return storage.NewAWSS3Storage(
			cfg.Storage.AWS.Region,
			cfg.Storage.AWS.Bucket,
			cfg.Storage.AWS.CDNDomain,
		)
	case "gcs":
		return storage.NewGCPStorage(
			cfg.Storage.GCP.ProjectID,
			cfg.Storage.GCP.Bucket,
			cfg.Storage.GCP.CredentialsFile,
			cfg.Storage.GCP.CDNDomain,
		)
	default:
		return storage.NewLocalStorage(cfg.Storage.Local.BasePath, cfg.Storage.Local.BaseURL)
	}
}
