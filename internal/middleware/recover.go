package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// PanicReporter receives recovered panics, e.g. to forward them to an ops chat.
type PanicReporter func(err error, where string, chatID int64)

// Recover returns middleware that recovers from panics in handlers.
// report may be nil.
func Recover(report PanicReporter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					chatID := ChatIDOf(update)
					slog.Error("panic recovered in handler",
						"panic", r,
						"chat_id", chatID,
						"stack", string(debug.Stack()),
					)
					if report != nil {
						report(fmt.Errorf("panic: %v", r), updateType(update), chatID)
					}
				}
			}()
			next(ctx, b, update)
		}
	}
}
