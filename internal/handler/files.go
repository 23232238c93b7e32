package handler

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/ragzy/internal/controller"
	tg "github.com/set-night/ragzy/internal/telegram"
	"github.com/set-night/ragzy/internal/view"
)

func (h *Handler) handleFiles(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	files := h.ctrl.Snapshot(ctx, chatID).Files
	if _, err := tg.SendText(ctx, b, chatID, view.RenderFiles(files), tg.FilesKeyboard(files)); err != nil {
		slog.Error("send files", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) handleRemoveFile(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}

	index, err := strconv.Atoi(strings.TrimPrefix(update.CallbackQuery.Data, tg.CallbackRemoveFile))
	if err != nil {
		tg.AnswerCallback(ctx, b, update, "")
		return
	}

	if err := h.ctrl.Dispatch(ctx, chatID, controller.FileRemoveRequested{Index: index}); err != nil {
		// The list message is stale.
		slog.Debug("remove file", "error", err, "chat_id", chatID, "index", index)
		tg.AnswerCallback(ctx, b, update, "This list is out of date")
	} else {
		tg.AnswerCallback(ctx, b, update, "")
	}

	h.refreshFiles(ctx, b, chatID, messageID)
}

// handleClearFiles forgets the chat's file list. The backend index is left
// alone; /clear resets both.
func (h *Handler) handleClearFiles(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	tg.AnswerCallback(ctx, b, update, "")

	if err := h.ctrl.Dispatch(ctx, chatID, controller.FilesCleared{}); err != nil {
		slog.Error("clear files", "error", err, "chat_id", chatID)
	}
	h.refreshFiles(ctx, b, chatID, messageID)
}

func (h *Handler) refreshFiles(ctx context.Context, b *bot.Bot, chatID int64, messageID int) {
	files := h.ctrl.Snapshot(ctx, chatID).Files
	if err := tg.EditText(ctx, b, chatID, messageID, view.RenderFiles(files), tg.FilesKeyboard(files)); err != nil {
		slog.Debug("refresh files", "error", err, "chat_id", chatID)
	}
}
