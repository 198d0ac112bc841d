package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	StoragePath     string
	DatabaseURI     string
	HTTPAddr        string
	DefaultLanguage string
	RetentionDays   int
	LogLevel        string

	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	TelegramToken  string
	TelegramChatID int64
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	return &Config{
		StoragePath:     getEnvOrDefault("VOXA_STORAGE_PATH", "reminders.json"),
		DatabaseURI:     os.Getenv("DATABASE_URI"),
		HTTPAddr:        getEnvOrDefault("HTTP_ADDR", ":8321"),
		DefaultLanguage: getEnvOrDefault("DEFAULT_LANGUAGE", "hinglish"),
		RetentionDays:   getEnvInt("RETENTION_DAYS", 7),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		AIAPIKey:        os.Getenv("AI_API_KEY"),
		AIBaseURL:       getEnvOrDefault("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AIModel:         getEnvOrDefault("AI_MODEL", "openai/gpt-4o-mini"),
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID:  getEnvInt64("TELEGRAM_CHAT_ID", 0),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
