package store

import (
	"context"
	"sync"

	"github.com/set-night/ragzy/internal/domain"
)

type memoryKey struct {
	chatID int64
	key    string
}

// MemoryStore keeps values for the life of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[memoryKey][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[memoryKey][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, chatID int64, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[memoryKey{chatID, key}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Set(_ context.Context, chatID int64, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[memoryKey{chatID, key}] = append([]byte(nil), value...)
	return nil
}
