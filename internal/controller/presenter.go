package controller

import (
	"context"

	"github.com/set-night/ragzy/internal/domain"
)

// Presenter renders controller output on a chat surface. Implementations
// report their own delivery failures; the controller never blocks on them.
type Presenter interface {
	// ShowMessage delivers a newly appended transcript message.
	ShowMessage(ctx context.Context, chatID int64, msg domain.ChatMessage)
	// SetTyping starts or stops the pending-answer indicator.
	SetTyping(ctx context.Context, chatID int64, on bool)
	// ShowNotice shows an inline status line of the upload widget.
	ShowNotice(ctx context.Context, chatID int64, text string)
	// ShowFileSelected confirms a pick and offers to submit it.
	ShowFileSelected(ctx context.Context, chatID int64, filename string, pages int)
	// ShowToast displays a toast and returns a reference for HideToast.
	ShowToast(ctx context.Context, chatID int64, toast domain.Toast) int
	HideToast(ctx context.Context, chatID int64, ref int)
}
