package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/set-night/ragzy/internal/config"
)

// OpsLogger mirrors notable events into topics of an operator chat.
// It does nothing when LOG_TELEGRAM_CHAT_ID is unset.
type OpsLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewOpsLogger(b *bot.Bot, cfg *config.Config) *OpsLogger {
	return &OpsLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError  LogType = "error"
	LogTypeUpload LogType = "upload"
)

func (l *OpsLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.topicID(logType)
	if topicID == 0 {
		return
	}

	if len([]rune(message)) > config.MaxTelegramMessageLen {
		message = string([]rune(message)[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.TelegramCallTimeout)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *OpsLogger) LogError(err error, where string, chatID int64) {
	l.Log(LogTypeError, fmt.Sprintf("❌ Error\n\nWhere: %s\nChat: %d\nError: %s\nTime: %s",
		where, chatID, err.Error(), time.Now().UTC().Format(time.DateTime)))
}

func (l *OpsLogger) LogUpload(chatID int64, filename string, pages, chunks int) {
	l.Log(LogTypeUpload, fmt.Sprintf("📄 PDF uploaded\n\nChat: %d\nFile: %s\nPages: %d\nChunks: %d",
		chatID, filename, pages, chunks))
}

func (l *OpsLogger) topicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeUpload:
		return l.cfg.LogTopicUpload
	default:
		return 0
	}
}
