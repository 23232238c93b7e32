package telegram

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/set-night/ragzy/internal/domain"
	"github.com/set-night/ragzy/internal/view"
)

// Presenter renders controller output as Telegram messages. User messages
// are already visible in the chat and are not echoed back. Toasts are
// ordinary messages that the controller deletes when they expire.
type Presenter struct {
	bot *bot.Bot

	mu     sync.Mutex
	typing map[int64]context.CancelFunc
}

func NewPresenter(b *bot.Bot) *Presenter {
	return &Presenter{bot: b, typing: make(map[int64]context.CancelFunc)}
}

func (p *Presenter) ShowMessage(ctx context.Context, chatID int64, msg domain.ChatMessage) {
	if msg.IsUser() {
		return
	}
	if err := SendLongMessage(ctx, p.bot, chatID, msg.Text, nil); err != nil {
		slog.Error("show message", "error", err, "chat_id", chatID)
	}
}

func (p *Presenter) SetTyping(ctx context.Context, chatID int64, on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cancel, ok := p.typing[chatID]; ok {
		cancel()
		delete(p.typing, chatID)
	}
	if on {
		p.typing[chatID] = StartTyping(ctx, p.bot, chatID)
	}
}

func (p *Presenter) ShowNotice(ctx context.Context, chatID int64, text string) {
	if _, err := SendText(ctx, p.bot, chatID, text, nil); err != nil {
		slog.Error("show notice", "error", err, "chat_id", chatID)
	}
}

func (p *Presenter) ShowFileSelected(ctx context.Context, chatID int64, filename string, pages int) {
	if _, err := SendText(ctx, p.bot, chatID, view.RenderSelected(filename, pages), UploadKeyboard()); err != nil {
		slog.Error("show selected file", "error", err, "chat_id", chatID)
	}
}

// ShowToast returns the toast message ID, or 0 if it could not be sent.
func (p *Presenter) ShowToast(ctx context.Context, chatID int64, toast domain.Toast) int {
	text := "✅ " + toast.Text
	if toast.Kind == domain.ToastError {
		text = "⚠️ " + toast.Text
	}
	id, err := SendText(ctx, p.bot, chatID, text, nil)
	if err != nil {
		slog.Error("show toast", "error", err, "chat_id", chatID)
		return 0
	}
	return id
}

func (p *Presenter) HideToast(ctx context.Context, chatID int64, ref int) {
	if _, err := p.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: ref}); err != nil {
		slog.Debug("hide toast", "error", err, "chat_id", chatID, "message_id", ref)
	}
}

// StopAll cancels every running typing indicator.
func (p *Presenter) StopAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, cancel := range p.typing {
		cancel()
		delete(p.typing, id)
	}
}
