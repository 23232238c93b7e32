package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/ragzy/internal/controller"
	"github.com/set-night/ragzy/internal/domain"
	"github.com/set-night/ragzy/internal/pdfcheck"
	tg "github.com/set-night/ragzy/internal/telegram"
	"github.com/set-night/ragzy/internal/view"
)

// handleDocument turns a sent document into a file selection. The name and
// MIME type are checked before anything is downloaded.
func (h *Handler) handleDocument(ctx context.Context, b *bot.Bot, update *models.Update) {
	doc := update.Message.Document
	chatID := update.Message.Chat.ID

	ev := controller.FileSelected{Name: doc.FileName, MimeType: doc.MimeType}

	if pdfcheck.Accepts(doc.FileName, doc.MimeType) {
		data, err := tg.DownloadFile(ctx, b, doc.FileID, h.cfg.MaxPDFBytes())
		switch {
		case errors.Is(err, domain.ErrFileTooLarge):
			ev.Oversize = true
		case err != nil:
			slog.Error("download document", "error", err, "chat_id", chatID, "file_id", doc.FileID)
			h.opsLog.LogError(err, "download document", chatID)
			if _, err := tg.SendText(ctx, b, chatID, view.DownloadFailedText, nil); err != nil {
				slog.Error("send download failure", "error", err, "chat_id", chatID)
			}
			return
		default:
			ev.Data = data
		}
	}

	if err := h.ctrl.Dispatch(ctx, chatID, ev); err != nil && !domain.IsValidation(err) {
		slog.Error("select file", "error", err, "chat_id", chatID)
	}
}
