package controller

import (
	"context"
	"testing"
	"time"

	"github.com/set-night/ragzy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToast_Expires(t *testing.T) {
	c, view := newTestController(t, &fakeBackend{}, nil, Options{ToastTTL: 30 * time.Millisecond})
	ctx := context.Background()
	ch := c.chat(ctx, chatID)

	c.showToast(ctx, ch, domain.Toast{Kind: domain.ToastSuccess, Text: "File removed"})
	require.NotNil(t, c.Snapshot(ctx, chatID).Toast)
	assert.Len(t, view.VisibleToasts(), 1)

	assert.Eventually(t, func() bool {
		return c.Snapshot(ctx, chatID).Toast == nil && len(view.VisibleToasts()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestToast_NewReplacesOld(t *testing.T) {
	c, view := newTestController(t, &fakeBackend{}, nil, Options{ToastTTL: 80 * time.Millisecond})
	ctx := context.Background()
	ch := c.chat(ctx, chatID)

	c.showToast(ctx, ch, domain.Toast{Kind: domain.ToastSuccess, Text: "first"})
	time.Sleep(50 * time.Millisecond)
	c.showToast(ctx, ch, domain.Toast{Kind: domain.ToastError, Text: "second"})

	visible := view.VisibleToasts()
	require.Len(t, visible, 1)
	assert.Equal(t, "second", visible[0].Text)

	hides := view.Calls("HideToast")
	require.Len(t, hides, 1)
	assert.Equal(t, 1, hides[0].Ref)

	// The first timer was cancelled: 40ms later the second toast is still up.
	time.Sleep(40 * time.Millisecond)
	state := c.Snapshot(ctx, chatID)
	require.NotNil(t, state.Toast)
	assert.Equal(t, "second", state.Toast.Text)

	assert.Eventually(t, func() bool {
		return c.Snapshot(ctx, chatID).Toast == nil
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, view.VisibleToasts())
}
