package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/set-night/ragzy/internal/domain"
	"github.com/set-night/ragzy/internal/service"
)

func (c *Controller) submitQuestion(ctx context.Context, ch *chat, text string) error {
	question := strings.TrimSpace(text)
	if question == "" {
		return domain.ErrEmptyQuestion
	}

	ch.mu.Lock()
	if ch.state.AnswerPending {
		ch.mu.Unlock()
		return domain.ErrAnswerPending
	}
	ch.state.AnswerPending = true
	ch.mu.Unlock()

	// The question is in the transcript before the request starts.
	c.appendMessage(ctx, ch, domain.NewUserMessage(question, c.opts.Now()))
	c.view.SetTyping(ctx, ch.id, true)

	defer func() {
		c.view.SetTyping(ctx, ch.id, false)
		ch.mu.Lock()
		ch.state.AnswerPending = false
		ch.mu.Unlock()
	}()

	reqCtx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()

	res, err := c.backend.Ask(reqCtx, question)
	if err != nil {
		slog.Warn("ask failed", "error", err, "chat_id", ch.id, "cause", failureCause(err))
		c.appendMessage(ctx, ch, domain.NewAssistantMessage(FallbackAnswer, c.opts.Now()))
		return fmt.Errorf("%w: %w", domain.ErrAskFailed, err)
	}

	slog.Debug("answer received", "chat_id", ch.id, "chunks_used", res.ChunksUsed, "document", res.Document)
	c.appendMessage(ctx, ch, domain.NewAssistantMessage(res.Answer, c.opts.Now()))
	return nil
}

// failureCause classifies an ask failure for logs only; the user always
// sees FallbackAnswer.
func failureCause(err error) string {
	var apiErr *service.APIError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &apiErr) && apiErr.StatusCode < 500:
		return "rejected"
	case errors.As(err, &apiErr):
		return "server"
	default:
		return "transport"
	}
}
