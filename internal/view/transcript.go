// Package view renders chat state as plain text for Telegram messages.
package view

import (
	"strings"
	"unicode/utf8"

	"github.com/set-night/ragzy/internal/domain"
)

const (
	UserPrefix      = "🧑"
	AssistantPrefix = "🤖"

	EmptyTranscriptText = "No messages yet. Upload a PDF and ask a question about it."
	TypingText          = "🤖 typing…"
	emptyMessageText    = "(empty)"
)

// RenderMessage formats one transcript entry with its sender prefix.
func RenderMessage(m domain.ChatMessage) string {
	text := m.Text
	if strings.TrimSpace(text) == "" {
		text = emptyMessageText
	}
	if m.IsUser() {
		return UserPrefix + " " + text
	}
	return AssistantPrefix + " " + text
}

// RenderTranscript renders the whole transcript in insertion order.
func RenderTranscript(msgs []domain.ChatMessage, pending bool) string {
	if len(msgs) == 0 && !pending {
		return EmptyTranscriptText
	}
	blocks := make([]string, 0, len(msgs)+1)
	for _, m := range msgs {
		blocks = append(blocks, RenderMessage(m))
	}
	if pending {
		blocks = append(blocks, TypingText)
	}
	return strings.Join(blocks, "\n\n")
}

// PageTranscript packs rendered messages into pages of at most pageLen
// characters. Pages are in transcript order, so the latest messages are on
// the last page. A message longer than pageLen spans several pages.
func PageTranscript(msgs []domain.ChatMessage, pending bool, pageLen int) []string {
	if len(msgs) == 0 && !pending {
		return []string{EmptyTranscriptText}
	}

	blocks := make([]string, 0, len(msgs)+1)
	for _, m := range msgs {
		blocks = append(blocks, splitRunes(RenderMessage(m), pageLen)...)
	}
	if pending {
		blocks = append(blocks, TypingText)
	}

	var pages []string
	var cur strings.Builder
	curLen := 0
	for _, b := range blocks {
		n := utf8.RuneCountInString(b)
		if curLen > 0 && curLen+2+n > pageLen {
			pages = append(pages, cur.String())
			cur.Reset()
			curLen = 0
		}
		if curLen > 0 {
			cur.WriteString("\n\n")
			curLen += 2
		}
		cur.WriteString(b)
		curLen += n
	}
	if curLen > 0 {
		pages = append(pages, cur.String())
	}
	return pages
}

func splitRunes(s string, n int) []string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return []string{s}
	}
	runes := []rune(s)
	var out []string
	for len(runes) > n {
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
