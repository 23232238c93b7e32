package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/set-night/ragzy/internal/telegram"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/upload", bot.MatchTypePrefix, h.handleUpload)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/files", bot.MatchTypePrefix, h.handleFiles)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/history", bot.MatchTypePrefix, h.handleHistory)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypePrefix, h.handleStatus)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/clear", bot.MatchTypePrefix, h.handleClear)

	// Documents
	h.bot.RegisterHandlerMatchFunc(isDocument, h.handleDocument)

	// Callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackUpload, bot.MatchTypeExact, h.handleUploadCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackRemoveFile, bot.MatchTypePrefix, h.handleRemoveFile)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackClearFiles, bot.MatchTypeExact, h.handleClearFiles)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackHistoryPage+"_", bot.MatchTypePrefix, h.handleHistoryPage)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackNoop, bot.MatchTypeExact, h.handleNoop)

	// Questions: any other text, registered last.
	h.bot.RegisterHandlerMatchFunc(isQuestion, h.handleText)
}

func isDocument(update *models.Update) bool {
	return update.Message != nil && update.Message.Document != nil
}

func isQuestion(update *models.Update) bool {
	return update.Message != nil && update.Message.Text != "" && !strings.HasPrefix(update.Message.Text, "/")
}

// handleNoop acknowledges callbacks of non-interactive buttons such as the
// page indicator.
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	tg.AnswerCallback(ctx, b, update, "")
}

// callbackChat returns the chat and message a callback query was pressed in.
func callbackChat(update *models.Update) (chatID int64, messageID int, ok bool) {
	if update.CallbackQuery == nil || update.CallbackQuery.Message.Message == nil {
		return 0, 0, false
	}
	msg := update.CallbackQuery.Message.Message
	return msg.Chat.ID, msg.ID, true
}
