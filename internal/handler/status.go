package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/ragzy/internal/controller"
	"github.com/set-night/ragzy/internal/service"
	tg "github.com/set-night/ragzy/internal/telegram"
	"github.com/set-night/ragzy/internal/view"
)

func (h *Handler) handleStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	reqCtx, cancel := context.WithTimeout(ctx, h.cfg.RequestTimeout)
	defer cancel()

	var text string
	health, err := h.backendHealth(reqCtx)
	if err != nil {
		slog.Warn("backend health", "error", err, "chat_id", chatID)
		text = fmt.Sprintf(view.StatusFailedText, service.UserMessage(err))
	} else {
		text = view.RenderStatus(health, len(h.ctrl.Snapshot(ctx, chatID).Files))
	}

	if _, err := tg.SendText(ctx, b, chatID, text, nil); err != nil {
		slog.Error("send status", "error", err, "chat_id", chatID)
	}
}

// handleClear resets the backend index and, once that succeeds, the chat's
// file list. The index is shared by every chat, so ADMIN_IDS can restrict it.
func (h *Handler) handleClear(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	if update.Message.From == nil || !h.cfg.CanClear(update.Message.From.ID) {
		if _, err := tg.SendText(ctx, b, chatID, view.ClearForbiddenText, nil); err != nil {
			slog.Error("send clear forbidden", "error", err, "chat_id", chatID)
		}
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, h.cfg.RequestTimeout)
	defer cancel()

	if err := h.backend.Clear(reqCtx); err != nil {
		slog.Error("backend clear", "error", err, "chat_id", chatID)
		h.opsLog.LogError(err, "clear", chatID)
		if _, err := tg.SendText(ctx, b, chatID, fmt.Sprintf(view.ClearFailedText, service.UserMessage(err)), nil); err != nil {
			slog.Error("send clear failure", "error", err, "chat_id", chatID)
		}
		return
	}

	h.health.Invalidate()
	if _, err := tg.SendText(ctx, b, chatID, view.ClearedText, nil); err != nil {
		slog.Error("send cleared", "error", err, "chat_id", chatID)
	}
	if err := h.ctrl.Dispatch(ctx, chatID, controller.FilesCleared{}); err != nil {
		slog.Error("clear files", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) backendHealth(ctx context.Context) (*service.HealthStatus, error) {
	if cached := h.health.Get(); cached != nil {
		return cached, nil
	}
	status, err := h.backend.Health(ctx)
	if err != nil {
		return nil, err
	}
	h.health.Set(status)
	return status, nil
}
