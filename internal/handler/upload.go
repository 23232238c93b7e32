package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/ragzy/internal/controller"
	"github.com/set-night/ragzy/internal/domain"
	tg "github.com/set-night/ragzy/internal/telegram"
)

func (h *Handler) handleUpload(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.upload(ctx, update.Message.Chat.ID)
}

func (h *Handler) handleUploadCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	tg.AnswerCallback(ctx, b, update, "")

	// The button is single-use; drop it so it cannot be pressed twice.
	if _, err := b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:    chatID,
		MessageID: messageID,
	}); err != nil {
		slog.Debug("remove upload button", "error", err, "chat_id", chatID)
	}

	h.upload(ctx, chatID)
}

func (h *Handler) upload(ctx context.Context, chatID int64) {
	err := h.ctrl.Dispatch(ctx, chatID, controller.UploadRequested{})
	switch {
	case err == nil, domain.IsValidation(err):
	case errors.Is(err, domain.ErrUploadFailed):
		h.opsLog.LogError(err, "upload", chatID)
	default:
		slog.Error("upload", "error", err, "chat_id", chatID)
	}
}
