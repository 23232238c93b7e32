package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/set-night/ragzy/internal/telegram"
	"github.com/set-night/ragzy/internal/view"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	if _, err := tg.SendText(ctx, b, chatID, view.WelcomeText, nil); err != nil {
		slog.Error("send welcome", "error", err, "chat_id", chatID)
	}
}
