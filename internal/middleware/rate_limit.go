package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/ragzy/internal/telegram"
	"github.com/set-night/ragzy/internal/view"
	"golang.org/x/time/rate"
)

// ChatLimiter holds one token bucket per chat.
type ChatLimiter struct {
	perMinute int

	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
}

// NewChatLimiter allows perMinute messages per chat, with bursts of the same
// size. perMinute <= 0 disables limiting.
func NewChatLimiter(perMinute int) *ChatLimiter {
	return &ChatLimiter{perMinute: perMinute, limiters: make(map[int64]*rate.Limiter)}
}

func (l *ChatLimiter) Allow(chatID int64) bool {
	if l.perMinute <= 0 {
		return true
	}
	l.mu.Lock()
	lim, ok := l.limiters[chatID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)
		l.limiters[chatID] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// RateLimit returns middleware that drops messages over the per-chat limit.
// Callback queries are not limited.
func RateLimit(limiter *ChatLimiter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !limiter.Allow(chatID) {
				slog.Debug("rate limited", "chat_id", chatID, "limit", limiter.perMinute)
				if _, err := telegram.SendText(ctx, b, chatID, view.RateLimitedText, nil); err != nil {
					slog.Error("send rate limit notice", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, b, update)
		}
	}
}
