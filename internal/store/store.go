// Package store persists per-chat client state: the transcript and the list
// of uploaded files, each as one full snapshot under its own key.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/set-night/ragzy/internal/config"
	"github.com/set-night/ragzy/internal/domain"
)

// Store is a string-keyed value store scoped by chat.
// Get returns domain.ErrNotFound for a missing key.
type Store interface {
	Get(ctx context.Context, chatID int64, key string) ([]byte, error)
	Set(ctx context.Context, chatID int64, key string, value []byte) error
}

// ClientState loads and saves the two persisted snapshots of a chat.
// Loads never fail: missing or unreadable data is an empty list.
type ClientState struct {
	store Store
	codec Codec
}

func NewClientState(store Store, codec Codec) *ClientState {
	return &ClientState{store: store, codec: codec}
}

func (c *ClientState) LoadTranscript(ctx context.Context, chatID int64) []domain.ChatMessage {
	var msgs []domain.ChatMessage
	if !c.load(ctx, chatID, config.MessagesKey, &msgs) || msgs == nil {
		return []domain.ChatMessage{}
	}
	return msgs
}

func (c *ClientState) SaveTranscript(ctx context.Context, chatID int64, msgs []domain.ChatMessage) error {
	return c.save(ctx, chatID, config.MessagesKey, msgs)
}

func (c *ClientState) LoadFiles(ctx context.Context, chatID int64) []domain.UploadedFileRecord {
	var files []domain.UploadedFileRecord
	if !c.load(ctx, chatID, config.UploadedFilesKey, &files) || files == nil {
		return []domain.UploadedFileRecord{}
	}
	return files
}

func (c *ClientState) SaveFiles(ctx context.Context, chatID int64, files []domain.UploadedFileRecord) error {
	return c.save(ctx, chatID, config.UploadedFilesKey, files)
}

// load reports whether v was filled. A decode error can leave v partly
// written, so callers must discard it when load returns false.
func (c *ClientState) load(ctx context.Context, chatID int64, key string, v any) bool {
	data, err := c.store.Get(ctx, chatID, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Error("load client state", "error", err, "chat_id", chatID, "key", key)
		}
		return false
	}
	if err := c.codec.Unmarshal(data, v); err != nil {
		slog.Warn("discarding unreadable client state", "error", err, "chat_id", chatID, "key", key)
		return false
	}
	return true
}

func (c *ClientState) save(ctx context.Context, chatID int64, key string, v any) error {
	data, err := c.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.store.Set(ctx, chatID, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
