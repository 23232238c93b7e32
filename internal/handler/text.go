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
	"github.com/set-night/ragzy/internal/view"
)

// handleText sends a plain text message to the backend as a question.
func (h *Handler) handleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	err := h.ctrl.Dispatch(ctx, chatID, controller.QuestionSubmitted{Text: update.Message.Text})
	switch {
	case err == nil, errors.Is(err, domain.ErrEmptyQuestion):
	case errors.Is(err, domain.ErrAnswerPending):
		if _, err := tg.SendText(ctx, b, chatID, view.AnswerPendingText, nil); err != nil {
			slog.Error("send pending hint", "error", err, "chat_id", chatID)
		}
	case errors.Is(err, domain.ErrAskFailed):
		h.opsLog.LogError(err, "ask", chatID)
	default:
		slog.Error("submit question", "error", err, "chat_id", chatID)
	}
}
