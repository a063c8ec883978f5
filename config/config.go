package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL     string
	Port            string
	CORSOrigin      string
	WebhookSecret   string
	MaxCardsPerUser int
	DrawInterval    time.Duration
}

// Load reads .env (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("[FATAL] DATABASE_URL is required in .env or environment")
	}

	cfg := &Config{
		DatabaseURL:     dsn,
		Port:            envOr("PORT", "4000"),
		CORSOrigin:      envOr("CORS_ORIGIN", "http://localhost:3000"),
		WebhookSecret:   os.Getenv("OPENPAY_WEBHOOK_SECRET"),
		MaxCardsPerUser: envIntOr("MAX_CARDS_PER_USER", 3),
		DrawInterval:    time.Duration(envIntOr("DRAW_INTERVAL_SECONDS", 6)) * time.Second,
	}

	if cfg.WebhookSecret == "" {
		log.Println("[WARN] OPENPAY_WEBHOOK_SECRET not set, webhook signatures will be rejected")
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
