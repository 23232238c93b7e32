package handler

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/ragzy/internal/config"
	tg "github.com/set-night/ragzy/internal/telegram"
	"github.com/set-night/ragzy/internal/view"
)

// handleHistory shows the newest transcript page; older pages are reachable
// through the pagination keyboard.
func (h *Handler) handleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	pages := h.historyPages(ctx, chatID)
	page := len(pages) - 1
	if _, err := tg.SendText(ctx, b, chatID, pages[page], tg.HistoryKeyboard(page, len(pages))); err != nil {
		slog.Error("send history", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) handleHistoryPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := callbackChat(update)
	if !ok {
		return
	}
	tg.AnswerCallback(ctx, b, update, "")

	page, err := strconv.Atoi(strings.TrimPrefix(update.CallbackQuery.Data, tg.CallbackHistoryPage+"_"))
	if err != nil {
		return
	}

	pages := h.historyPages(ctx, chatID)
	page = min(max(page, 0), len(pages)-1)
	if err := tg.EditText(ctx, b, chatID, messageID, pages[page], tg.HistoryKeyboard(page, len(pages))); err != nil {
		slog.Debug("edit history page", "error", err, "chat_id", chatID, "page", page)
	}
}

func (h *Handler) historyPages(ctx context.Context, chatID int64) []string {
	state := h.ctrl.Snapshot(ctx, chatID)
	return view.PageTranscript(state.Transcript, state.AnswerPending, config.HistoryPageLen)
}
