package telegram

import (
	"strings"
	"unicode/utf8"
)

// SplitMessage splits text into parts of at most maxLen characters. A part
// ends at the last paragraph break, line break or space in its second half
// when there is one, otherwise it is cut at maxLen.
func SplitMessage(text string, maxLen int) []string {
	if maxLen <= 0 || utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	runes := []rune(text)
	var parts []string
	for len(runes) > maxLen {
		cut := splitPoint(runes[:maxLen])
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

func splitPoint(window []rune) int {
	s := string(window)
	half := len(s) / 2
	for _, sep := range []string{"\n\n", "\n", " "} {
		if i := strings.LastIndex(s, sep); i > half {
			return utf8.RuneCountInString(s[:i+len(sep)])
		}
	}
	return len(window)
}

// FixMarkdown closes an unterminated code block or inline code span so that
// Telegram's Markdown parser accepts the text.
func FixMarkdown(text string) string {
	if strings.Count(text, "```")%2 != 0 {
		text += "\n```"
	}

	var sb strings.Builder
	sb.Grow(len(text) + 1)
	inBlock, inInline := false, false
	for i := 0; i < len(text); i++ {
		if strings.HasPrefix(text[i:], "```") {
			if inInline {
				sb.WriteByte('`')
				inInline = false
			}
			inBlock = !inBlock
			sb.WriteString("```")
			i += 2
			continue
		}
		if !inBlock && text[i] == '`' {
			inInline = !inInline
		}
		sb.WriteByte(text[i])
	}
	if inInline {
		sb.WriteByte('`')
	}
	return sb.String()
}
