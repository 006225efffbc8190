package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the screener.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server (status API, scheduler daemon only)
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis (bar cache + fetch rate limiting)
	Redis RedisConfig

	// External services
	Market   MarketConfig
	Telegram TelegramConfig

	// Reporting
	Report ReportConfig

	// Watchlist
	WatchlistPath string

	// Scheduler
	Schedule ScheduleConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
// An empty URL disables signal persistence; it is not an error.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// MarketConfig holds the daily chart API configuration.
type MarketConfig struct {
	BaseURL  string
	Range    string // trailing window, e.g. "6mo"
	Interval string // bar granularity, e.g. "1d"

	// Requests per second against the chart API
	RateLimit int

	// Bar cache TTL (Redis)
	CacheTTL time.Duration
}

// TelegramConfig holds the Bot API credentials.
// Either field empty disables notification; it is not an error.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// ReportConfig holds the PDF report configuration.
type ReportConfig struct {
	PDFPath string
}

// ScheduleConfig holds the cron schedule for the daily screen.
type ScheduleConfig struct {
	Cron     string // cron spec with seconds field
	Timezone string
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 5),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Market: MarketConfig{
			BaseURL:   getEnv("MARKET_BASE_URL", "https://query1.finance.yahoo.com"),
			Range:     getEnv("MARKET_RANGE", "6mo"),
			Interval:  getEnv("MARKET_INTERVAL", "1d"),
			RateLimit: getEnvAsInt("MARKET_RATE_LIMIT", 5),
			CacheTTL:  getEnvAsDuration("MARKET_CACHE_TTL", "1h"),
		},

		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_TOKEN", ""),
			ChatID:   getEnv("CHAT_ID", ""),
		},

		Report: ReportConfig{
			PDFPath: getEnv("REPORT_PDF_PATH", "gunluk_rapor.pdf"),
		},

		WatchlistPath: getEnv("WATCHLIST_PATH", ""),

		Schedule: ScheduleConfig{
			// Weekdays at 18:15, after the BIST closing session
			Cron:     getEnv("SCHEDULE_CRON", "0 15 18 * * 1-5"),
			Timezone: getEnv("SCHEDULE_TZ", "Europe/Istanbul"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks configuration consistency. Persistence and
// notification credentials are optional: when absent the matching
// report consumer is disabled instead of failing the run.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Market.RateLimit <= 0 {
		return fmt.Errorf("MARKET_RATE_LIMIT must be positive")
	}

	return nil
}

// PersistenceEnabled reports whether signals are written to the store.
func (c *Config) PersistenceEnabled() bool {
	return c.Database.URL != ""
}

// NotificationEnabled reports whether Telegram messages are sent.
func (c *Config) NotificationEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
