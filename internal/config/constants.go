package config

import "time"

const (
	// Persisted client state keys
	MessagesKey      = "ragzy_messages"
	UploadedFilesKey = "ragzy_uploadedFiles"

	// Defaults when the controller is built without explicit options
	DefaultToastTTL       = 3500 * time.Millisecond
	DefaultRequestTimeout = 90 * time.Second

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Typing indicator refresh; Telegram clears the action after ~5s
	TypingInterval = 4 * time.Second

	// Transcript pages shown by /history
	HistoryPageLen = 3000

	// Bound for Telegram API calls made outside an update context
	TelegramCallTimeout = 10 * time.Second

	// Backend health results reused by /status
	HealthCacheTTL = 15 * time.Second

	// Redis key prefix
	RedisKeyPrefix = "ragzy:"

	// Connection pool
	PoolMaxConns = 10
	PoolMinConns = 2
)
