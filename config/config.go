package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	PORT        string
	DB_URL      string
	JWT_SECRET  string
	APP_ENV     string
	APP_URL     string
	CORS_ORIGIN string

	STRIPE_SECRET_KEY      string
	STRIPE_PUBLISHABLE_KEY string
	STRIPE_WEBHOOK_SECRET  string

	// Premium membership is a one-off Checkout payment of this price.
	PREMIUM_PRICE_AMOUNT   int64
	PREMIUM_PRICE_CURRENCY string
	PREMIUM_PRODUCT_NAME   string

	S3_BUCKET          string
	S3_PUBLIC_BASE_URL string
	AWS_ENDPOINT       string
	REDIS_URL          string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	APP_ENV = getEnv("APP_ENV", "development")
	APP_URL = getEnv("APP_URL", "http://localhost:3000")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", APP_URL)

	STRIPE_SECRET_KEY = mustEnv("STRIPE_SECRET_KEY")
	STRIPE_PUBLISHABLE_KEY = getEnv("STRIPE_PUBLISHABLE_KEY", "")
	STRIPE_WEBHOOK_SECRET = mustEnv("STRIPE_WEBHOOK_SECRET")

	PREMIUM_PRICE_AMOUNT = getEnvInt64("PREMIUM_PRICE_AMOUNT", 500)
	PREMIUM_PRICE_CURRENCY = getEnv("PREMIUM_PRICE_CURRENCY", "usd")
	PREMIUM_PRODUCT_NAME = getEnv("PREMIUM_PRODUCT_NAME", "Premium membership")

	S3_BUCKET = getEnv("S3_BUCKET", "")
	S3_PUBLIC_BASE_URL = getEnv("S3_PUBLIC_BASE_URL", "")
	AWS_ENDPOINT = getEnv("AWS_ENDPOINT", "")
	REDIS_URL = getEnv("REDIS_URL", "")

	// Google sign-in is optional; the handlers answer 503 when unset.
	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.Fatalf("Invalid integer environment variable %s=%q", key, v)
	}
	return n
}
