package middleware

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type ctxKey string

const ChatKey ctxKey = "chat_id"

// GetChatID extracts the chat ID stored by ChatLoader.
func GetChatID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ChatKey).(int64)
	return id, ok
}

// ChatLoader returns middleware that rehydrates the chat's persisted state
// before any handler runs and stores the chat ID in the context.
func ChatLoader(warm func(ctx context.Context, chatID int64)) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			chatID := ChatIDOf(update)
			if chatID == 0 {
				next(ctx, b, update)
				return
			}

			warm(ctx, chatID)
			next(context.WithValue(ctx, ChatKey, chatID), b, update)
		}
	}
}
