package main

import (
	"context"
	"time"

	"blog-app/config"
	"blog-app/database"
	routes "blog-app/internal/app/http"
	"blog-app/internal/infra/cache"
	"blog-app/internal/infra/storage"
	stripeinfra "blog-app/internal/infra/stripe"
	"blog-app/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()
	logger.Initialize(config.APP_ENV)
	defer logger.Log.Sync()

	if config.APP_ENV == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	stripeinfra.Init(config.STRIPE_SECRET_KEY)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if config.S3_BUCKET != "" {
		store, err := storage.NewS3Store(ctx, config.S3_BUCKET, config.S3_PUBLIC_BASE_URL, config.AWS_ENDPOINT)
		if err != nil {
			logger.Log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		storage.Images = store
	} else {
		logger.Log.Warn("S3_BUCKET not set, post creation is disabled")
	}

	if config.REDIS_URL != "" {
		client, err := cache.NewRedisClient(ctx, config.REDIS_URL)
		if err != nil {
			logger.Log.Warn("Redis unavailable, premium lookups go to the database", zap.Error(err))
		} else {
			cache.Premium = cache.NewPremiumCache(client, cache.DefaultTTL)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r)

	logger.Log.Info("Starting server", zap.String("port", config.PORT))
	if err := r.Run(":" + config.PORT); err != nil {
		logger.Log.Fatal("Server stopped", zap.Error(err))
	}
}
