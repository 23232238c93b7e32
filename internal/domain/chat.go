package domain

import "time"

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "ai"
)

// ChatMessage is one immutable turn of the transcript.
type ChatMessage struct {
	Sender    Sender `json:"sender" msgpack:"sender"`
	Text      string `json:"text" msgpack:"text"`
	Timestamp string `json:"ts,omitempty" msgpack:"ts,omitempty"`
}

func NewUserMessage(text string, at time.Time) ChatMessage {
	return ChatMessage{Sender: SenderUser, Text: text, Timestamp: FormatTimestamp(at)}
}

func NewAssistantMessage(text string, at time.Time) ChatMessage {
	return ChatMessage{Sender: SenderAssistant, Text: text, Timestamp: FormatTimestamp(at)}
}

func (m ChatMessage) IsUser() bool {
	return m.Sender == SenderUser
}

// FormatTimestamp renders t as ISO-8601 in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
