package database

import (
	"blog-app/config"
	"blog-app/internal/domain/billing"
	"blog-app/internal/domain/posts"
	"blog-app/internal/domain/users"
	"blog-app/internal/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB() {
	dsn := config.DB_URL
	if dsn == "" {
		logger.Log.Fatal("DB_URL not set")
	}

	level := gormlogger.Warn
	if config.APP_ENV == "production" {
		level = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}

	DB = db

	// gen_random_uuid() for post ids
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		logger.Log.Fatal("Failed to enable pgcrypto extension", zap.Error(err))
	}

	if err := DB.AutoMigrate(
		&users.User{},
		&posts.Post{},
		&billing.Payment{},
		&billing.StripeEvent{},
	); err != nil {
		logger.Log.Fatal("AutoMigrate error", zap.Error(err))
	}

	logger.Log.Info("Connected and migrated successfully")
}
