package controller

import "github.com/set-night/ragzy/internal/domain"

// Event is a typed command emitted by a chat surface and handled by Dispatch.
type Event interface {
	event()
}

// FileSelected picks a local document for upload, replacing any earlier pick.
type FileSelected struct {
	Name     string
	MimeType string
	Data     []byte
	// Oversize marks a document Telegram reported or delivered as larger
	// than MAX_PDF_SIZE_MB; Data is empty in that case.
	Oversize bool
}

// UploadRequested submits the selected file.
type UploadRequested struct{}

// QuestionSubmitted asks the backend a question.
type QuestionSubmitted struct {
	Text string
}

// FileRemoveRequested removes the FileRegistry entry at Index.
type FileRemoveRequested struct {
	Index int
}

// FilesCleared empties the FileRegistry after the backend index was reset.
type FilesCleared struct{}

// MessageAppended appends a message to the transcript.
type MessageAppended struct {
	Message domain.ChatMessage
}

func (FileSelected) event()        {}
func (UploadRequested) event()     {}
func (QuestionSubmitted) event()   {}
func (FileRemoveRequested) event() {}
func (FilesCleared) event()        {}
func (MessageAppended) event()     {}
