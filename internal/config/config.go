package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken    string
	DatabaseURL      string
	RatesURL         string
	KeyFile          string
	ReminderInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is honoured if present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken:    strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RatesURL:         strings.TrimSpace(os.Getenv("RATES_URL")),
		KeyFile:          strings.TrimSpace(os.Getenv("CRYPTO_KEY_FILE")),
		ReminderInterval: parseInterval(strings.TrimSpace(os.Getenv("REMINDER_INTERVAL_MINUTES"))),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "finance.db"
	}

	if cfg.RatesURL == "" {
		cfg.RatesURL = "https://api.exchangerate-api.com/v4/latest"
	}

	if cfg.KeyFile == "" {
		cfg.KeyFile = "crypto.key"
	}

	if cfg.ReminderInterval == 0 {
		cfg.ReminderInterval = time.Minute
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	minutes, err := time.ParseDuration(raw + "m")
	if err != nil || minutes <= 0 {
		return 0
	}
	return minutes
}
