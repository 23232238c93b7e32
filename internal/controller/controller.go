// Package controller owns the per-chat application state and handles the
// events emitted by chat surfaces: file selection and upload, questions,
// file removal. Network side effects run outside the state lock; busy flags
// are checked and set under it.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/set-night/ragzy/internal/config"
	"github.com/set-night/ragzy/internal/domain"
	"github.com/set-night/ragzy/internal/service"
)

// Backend is the document Q&A service.
type Backend interface {
	Upload(ctx context.Context, filename string, data []byte) (*service.UploadResult, error)
	Ask(ctx context.Context, question string) (*service.AskResult, error)
}

// Persistence stores the transcript and file list of a chat.
type Persistence interface {
	LoadTranscript(ctx context.Context, chatID int64) []domain.ChatMessage
	SaveTranscript(ctx context.Context, chatID int64, msgs []domain.ChatMessage) error
	LoadFiles(ctx context.Context, chatID int64) []domain.UploadedFileRecord
	SaveFiles(ctx context.Context, chatID int64, files []domain.UploadedFileRecord) error
}

type Options struct {
	// DedupeUploads skips a record equal in filename, pages and chunks to an existing one.
	DedupeUploads bool
	// AutoUpload submits a file as soon as it is selected.
	AutoUpload     bool
	ToastTTL       time.Duration
	RequestTimeout time.Duration
	MaxFileBytes   int64
	Now            func() time.Time
	// OnUpload, if set, is called after the backend accepts a file.
	OnUpload func(chatID int64, record domain.UploadedFileRecord)
}

type Controller struct {
	backend Backend
	persist Persistence
	view    Presenter
	opts    Options

	mu    sync.Mutex
	chats map[int64]*chat
}

// New creates a Controller. A nil persist keeps state in memory only.
func New(backend Backend, persist Persistence, view Presenter, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ToastTTL <= 0 {
		opts.ToastTTL = config.DefaultToastTTL
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = config.DefaultRequestTimeout
	}
	return &Controller{
		backend: backend,
		persist: persist,
		view:    view,
		opts:    opts,
		chats:   make(map[int64]*chat),
	}
}

// Dispatch handles one event for a chat. Local validation failures return
// errors matching domain.IsValidation and make no network call.
func (c *Controller) Dispatch(ctx context.Context, chatID int64, ev Event) error {
	ch := c.chat(ctx, chatID)

	switch e := ev.(type) {
	case FileSelected:
		return c.selectFile(ctx, ch, e)
	case UploadRequested:
		return c.submitUpload(ctx, ch)
	case QuestionSubmitted:
		return c.submitQuestion(ctx, ch, e.Text)
	case FileRemoveRequested:
		return c.removeFile(ctx, ch, e.Index)
	case FilesCleared:
		c.clearFiles(ctx, ch)
		return nil
	case MessageAppended:
		c.appendMessage(ctx, ch, e.Message)
		return nil
	default:
		return fmt.Errorf("unknown event %T", ev)
	}
}

// Snapshot returns a copy of a chat's state.
func (c *Controller) Snapshot(ctx context.Context, chatID int64) State {
	ch := c.chat(ctx, chatID)
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.state.clone()
}

// Warm rehydrates a chat's persisted state ahead of its first event.
func (c *Controller) Warm(ctx context.Context, chatID int64) {
	c.chat(ctx, chatID)
}

// ChatCount returns the number of chats held in memory.
func (c *Controller) ChatCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.chats)
}

// Close stops pending toast timers.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.chats {
		ch.mu.Lock()
		if ch.toastTimer != nil {
			ch.toastTimer.Stop()
			ch.toastTimer = nil
		}
		ch.mu.Unlock()
	}
}

func (c *Controller) chat(ctx context.Context, chatID int64) *chat {
	c.mu.Lock()
	ch, ok := c.chats[chatID]
	if !ok {
		ch = &chat{id: chatID}
		c.chats[chatID] = ch
	}
	c.mu.Unlock()

	ch.mu.Lock()
	defer ch.mu.Unlock()
	if !ch.loaded {
		ch.state.Transcript = []domain.ChatMessage{}
		ch.state.Files = []domain.UploadedFileRecord{}
		if c.persist != nil {
			ch.state.Transcript = c.persist.LoadTranscript(ctx, chatID)
			ch.state.Files = c.persist.LoadFiles(ctx, chatID)
		}
		ch.loaded = true
	}
	return ch
}

func (c *Controller) appendMessage(ctx context.Context, ch *chat, msg domain.ChatMessage) {
	ch.mu.Lock()
	ch.state.Transcript = append(ch.state.Transcript, msg)
	c.saveTranscript(ctx, ch)
	ch.mu.Unlock()

	c.view.ShowMessage(ctx, ch.id, msg)
}

// saveTranscript and saveFiles must be called with ch.mu held.
func (c *Controller) saveTranscript(ctx context.Context, ch *chat) {
	if c.persist == nil {
		return
	}
	if err := c.persist.SaveTranscript(ctx, ch.id, ch.state.Transcript); err != nil {
		slog.Error("persist messages", "error", err, "chat_id", ch.id)
	}
}

func (c *Controller) saveFiles(ctx context.Context, ch *chat) {
	if c.persist == nil {
		return
	}
	if err := c.persist.SaveFiles(ctx, ch.id, ch.state.Files); err != nil {
		slog.Error("persist files", "error", err, "chat_id", ch.id)
	}
}

func (c *Controller) now() string {
	return domain.FormatTimestamp(c.opts.Now())
}
