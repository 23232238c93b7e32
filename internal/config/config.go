package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	// Core
	BotToken  string `env:"BOT_TOKEN,required,notEmpty"`
	RAGAPIURL string `env:"RAG_API_URL,required,notEmpty"`

	// Backend calls
	RequestTimeout time.Duration `env:"RAG_REQUEST_TIMEOUT" envDefault:"90s"`
	MaxPDFSizeMB   int           `env:"MAX_PDF_SIZE_MB" envDefault:"20"`

	// Client state persistence
	StoreDriver   string `env:"STORE_DRIVER" envDefault:"memory"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Chat behavior
	DedupeUploads bool          `env:"DEDUPE_UPLOADS" envDefault:"true"`
	AutoUpload    bool          `env:"AUTO_UPLOAD" envDefault:"false"`
	ToastTTL      time.Duration `env:"TOAST_TTL" envDefault:"3500ms"`

	// Rate limit (messages per minute per chat)
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Server
	Port          int    `env:"PORT" envDefault:"3000"`
	WebhookURL    string `env:"WEBHOOK_URL"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`

	// Logging
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	LogTelegramChatID int64  `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int    `env:"LOG_TOPIC_ERROR"`
	LogTopicUpload    int    `env:"LOG_TOPIC_UPLOAD"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.RAGAPIURL = strings.TrimRight(c.RAGAPIURL, "/")

	switch c.StoreDriver {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for store driver %q", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	if c.WebhookURL != "" {
		if u, err := url.Parse(c.WebhookURL); err != nil || u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("WEBHOOK_URL must be an absolute https URL, got %q", c.WebhookURL)
		}
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("RAG_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// MaxPDFBytes is the size limit applied before a document is downloaded.
func (c *Config) MaxPDFBytes() int64 {
	return int64(c.MaxPDFSizeMB) * 1024 * 1024
}

// WebhookMode reports whether updates arrive via webhook instead of long polling.
func (c *Config) WebhookMode() bool {
	return c.WebhookURL != ""
}

// WebhookPath is the path part of WEBHOOK_URL, "/webhook" when it has none.
func (c *Config) WebhookPath() string {
	u, err := url.Parse(c.WebhookURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "/webhook"
	}
	return u.Path
}

// CanClear reports whether a user may reset the backend index. Everyone may
// when ADMIN_IDS is empty.
func (c *Config) CanClear(telegramID int64) bool {
	return len(c.AdminIDs) == 0 || c.IsAdmin(telegramID)
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
