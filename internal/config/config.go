package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Bot settings
	BotToken string

	// Database
	DatabaseURL string

	// Media resolution
	TempDir        string
	YtDlpPath      string // empty means look up in PATH
	SearchCacheLen int
	SearchCacheTTL int // minutes

	// Dispatch
	WorkerCount int
	PollTimeout int // seconds, Telegram long-poll

	// Observability
	LogLevel    string
	LogFormat   string
	MetricsAddr string // empty disables the metrics listener
}

// Load reads configuration from environment variables.
// BOT_TOKEN and DATABASE_URL are required; missing either is a startup
// error, never a runtime one.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN environment variable is required")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg := &Config{
		BotToken:    botToken,
		DatabaseURL: databaseURL,

		TempDir:        getEnvOrDefault("TEMP_DIR", filepath.Join(os.TempDir(), "awnzzbot")),
		YtDlpPath:      os.Getenv("YTDLP_PATH"),
		SearchCacheLen: getEnvInt("SEARCH_CACHE_LEN", 256),
		SearchCacheTTL: getEnvInt("SEARCH_CACHE_TTL_MINUTES", 30),

		WorkerCount: getEnvInt("WORKER_COUNT", 4),
		PollTimeout: getEnvInt("POLL_TIMEOUT_SECONDS", 30),

		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "text"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}

	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}

	if err := os.MkdirAll(cfg.TempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	return cfg, nil
}

// GetSafeToken returns a masked version of the token for logging
func (c *Config) GetSafeToken() string {
	if len(c.BotToken) < 15 {
		return "***"
	}
	return c.BotToken[:8] + "..." + c.BotToken[len(c.BotToken)-4:]
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
