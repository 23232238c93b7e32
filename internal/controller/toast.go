package controller

import (
	"context"
	"time"

	"github.com/set-night/ragzy/internal/config"
	"github.com/set-night/ragzy/internal/domain"
)

// showToast puts t in the chat's toast slot. The previous toast is hidden and
// its expiry timer stopped.
func (c *Controller) showToast(ctx context.Context, ch *chat, t domain.Toast) {
	ch.mu.Lock()
	if ch.toastTimer != nil {
		ch.toastTimer.Stop()
		ch.toastTimer = nil
	}
	oldRef := ch.toastRef
	ch.toastRef = 0
	ch.toastSeq++
	seq := ch.toastSeq
	toast := t
	ch.state.Toast = &toast
	ch.mu.Unlock()

	if oldRef != 0 {
		c.view.HideToast(ctx, ch.id, oldRef)
	}
	ref := c.view.ShowToast(ctx, ch.id, t)

	ch.mu.Lock()
	if ch.toastSeq != seq {
		// Replaced while it was being sent.
		ch.mu.Unlock()
		if ref != 0 {
			c.view.HideToast(ctx, ch.id, ref)
		}
		return
	}
	ch.toastRef = ref
	ch.toastTimer = time.AfterFunc(c.opts.ToastTTL, func() {
		c.expireToast(ch, seq)
	})
	ch.mu.Unlock()
}

func (c *Controller) expireToast(ch *chat, seq uint64) {
	ch.mu.Lock()
	if ch.toastSeq != seq {
		ch.mu.Unlock()
		return
	}
	ref := ch.toastRef
	ch.toastRef = 0
	ch.toastTimer = nil
	ch.state.Toast = nil
	ch.mu.Unlock()

	if ref == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.TelegramCallTimeout)
	defer cancel()
	c.view.HideToast(ctx, ch.id, ref)
}
