package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/ragzy/internal/domain"
)

// PostgresStore keeps snapshots in the chat_state table.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const getChatState = `SELECT value FROM chat_state WHERE chat_id = $1 AND key = $2`

const upsertChatState = `
INSERT INTO chat_state (chat_id, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (chat_id, key) DO UPDATE
SET value = EXCLUDED.value, updated_at = now()`

func (s *PostgresStore) Get(ctx context.Context, chatID int64, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx, getChatState, chatID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get chat state: %w", err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, chatID int64, key string, value []byte) error {
	if _, err := s.db.Exec(ctx, upsertChatState, chatID, key, value); err != nil {
		return fmt.Errorf("upsert chat state: %w", err)
	}
	return nil
}
