package view

const WelcomeText = `👋 Hi! I answer questions about your PDFs.

1. Send me a PDF document.
2. Press Upload to index it.
3. Ask anything about its content.

Commands:
/upload - upload the selected PDF
/files - list uploaded PDFs
/history - show the conversation
/status - backend status
/clear - forget all uploaded PDFs`

const (
	AnswerPendingText  = "⏳ Still working on your previous question, please wait."
	RateLimitedText    = "⏳ Too many requests. Please wait a moment."
	StatusFailedText   = "❌ Backend is unreachable: %s"
	ClearedText        = "🧹 Backend index cleared."
	ClearFailedText    = "❌ Clear failed: %s"
	ClearForbiddenText = "⛔ Only administrators can clear the index."
	DownloadFailedText = "❌ Could not download the file from Telegram."
)
