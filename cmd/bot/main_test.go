package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/ragzy/internal/config"
	"github.com/set-night/ragzy/internal/domain"
)

func TestOpenStore_Memory(t *testing.T) {
	ctx := context.Background()

	persist, closeStore, err := openStore(ctx, &config.Config{StoreDriver: config.StoreMemory})
	require.NoError(t, err)
	require.NotNil(t, persist)
	defer closeStore()

	assert.Empty(t, persist.LoadTranscript(ctx, 7))

	msgs := []domain.ChatMessage{{Sender: domain.SenderUser, Text: "hi"}}
	require.NoError(t, persist.SaveTranscript(ctx, 7, msgs))
	assert.Equal(t, msgs, persist.LoadTranscript(ctx, 7))
	assert.Empty(t, persist.LoadTranscript(ctx, 8))
}
